package devtools

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

// ErrNoFrame is returned when there is nothing to capture yet.
var ErrNoFrame = errors.New("devtools: no frame rendered")

// SaveScreenshotHTML writes the frame and the HUD state as a self-contained
// HTML page in dir and returns its path.
func SaveScreenshotHTML(dir string, snap Snapshot) (string, error) {
	if snap.Frame == nil {
		return "", ErrNoFrame
	}
	timestamp := snap.At.Format("20060102-150405")
	filename := filepath.Join(dir, fmt.Sprintf("screenshot-%s.html", timestamp))

	src, err := frameDataURL(snap.Frame)
	if err != nil {
		return "", err
	}

	var page strings.Builder
	page.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Chromatica - Screenshot</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header { color: #bb86fc; font-size: 18px; margin-bottom: 10px; }
        .progress { color: #888; margin-bottom: 20px; }
        .complete { color: #00ff00; font-weight: bold; }
        .gameover { color: #ff4040; font-weight: bold; }
        .frame { border: 1px solid #333; image-rendering: pixelated; }
        .messages { margin-top: 20px; border-top: 1px solid #333; padding-top: 10px; }
        .message { color: #ccc; margin: 5px 0; }
    </style>
</head>
<body>
`)

	page.WriteString(fmt.Sprintf(`    <div class="header">City %d (seed %d)</div>`+"\n", snap.Level, snap.Seed))
	page.WriteString(fmt.Sprintf(`    <div class="progress">Drained %d of %d cells (%.1f%%, target %.0f%%)`,
		snap.Progress.Drained, snap.Progress.Total, snap.Progress.Percentage()*100, snap.Target))
	switch {
	case snap.Complete:
		page.WriteString(` <span class="complete">COMPLETE</span>`)
	case snap.GameOver:
		page.WriteString(` <span class="gameover">GAME OVER</span>`)
	}
	page.WriteString("</div>\n")

	b := snap.Frame.Bounds()
	page.WriteString(fmt.Sprintf(`    <img class="frame" width="%d" height="%d" src="%s">`+"\n", b.Dx(), b.Dy(), src))

	if len(snap.Messages) > 0 {
		page.WriteString(`    <div class="messages">` + "\n")
		for _, msg := range snap.Messages {
			page.WriteString(fmt.Sprintf(`        <div class="message">%s</div>`+"\n", html.EscapeString(stripMarkup(msg))))
		}
		page.WriteString(`    </div>` + "\n")
	}

	page.WriteString(`</body>
</html>
`)

	if err := os.WriteFile(filename, []byte(page.String()), 0644); err != nil {
		return "", errors.Wrapf(err, "write %s", filename)
	}
	return filename, nil
}

// SavePNG writes img to path as a PNG.
func SavePNG(path string, img image.Image) error {
	buf, err := encodePNG(img)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf, 0644), "write %s", path)
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

// frameDataURL returns img as a PNG data URL.
func frameDataURL(img image.Image) (string, error) {
	buf, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	byt, err := dataurl.New(buf, "image/png").MarshalText()
	if err != nil {
		return "", errors.Wrap(err, "encode data url")
	}
	return string(byt), nil
}
