package devtools

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"chromatica/pkg/engine/drain"
	"chromatica/pkg/game/config"
)

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 128, 255})
		}
	}
	return img
}

func testSnapshot(n int) Snapshot {
	return Snapshot{
		Frame:    testFrame(32, 16),
		Number:   n,
		At:       time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Level:    2,
		Seed:     99,
		Progress: drain.Progress{Drained: 30, Total: 120},
		Target:   60,
		Messages: []string{"Press ACTION{R} to reset", "<b>"},
	}
}

func TestStripMarkup(t *testing.T) {
	if got := stripMarkup("Press ACTION{Enter} for GT{the next city}"); got != "Press Enter for the next city" {
		t.Errorf("stripMarkup() = %q", got)
	}
}

func TestCopyFrame_IsIndependent(t *testing.T) {
	src := testFrame(4, 4)
	dst := CopyFrame(src)
	src.SetRGBA(0, 0, color.RGBA{1, 2, 3, 4})
	if dst.RGBAAt(0, 0) == src.RGBAAt(0, 0) {
		t.Error("copy shares pixels with the source")
	}
	if CopyFrame(nil) != nil {
		t.Error("CopyFrame(nil) != nil")
	}
}

func TestSaveScreenshotHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveScreenshotHTML(dir, testSnapshot(0))
	if err != nil {
		t.Fatalf("SaveScreenshotHTML() error = %v", err)
	}
	if !strings.HasSuffix(path, "screenshot-20261018-120000.html") {
		t.Errorf("path = %s", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(body)
	for _, want := range []string{"City 2 (seed 99)", "Drained 30 of 120 cells (25.0%", "data:image/png;base64,", "Press R to reset", "&lt;b&gt;"} {
		if !strings.Contains(page, want) {
			t.Errorf("screenshot does not contain %q", want)
		}
	}
}

func TestSaveScreenshotHTML_NoFrame(t *testing.T) {
	if _, err := SaveScreenshotHTML(t.TempDir(), Snapshot{}); err != ErrNoFrame {
		t.Errorf("error = %v, want ErrNoFrame", err)
	}
}

func TestDumpDrainMap(t *testing.T) {
	m, err := drain.NewMap(4, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	m.MarkDrained(0, 0)
	m.MarkDrained(1, 1)

	var buf bytes.Buffer
	if err := DumpDrainMap(&buf, testSnapshot(7), m); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "frame: 7\n") || !strings.Contains(out, "cells: 4x2\n") {
		t.Errorf("metadata missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "--- Map ---\n#...\n.#..\n") {
		t.Errorf("grid wrong:\n%s", out)
	}
}

func TestDumpStep(t *testing.T) {
	tests := []struct {
		cols, want int
	}{
		{10, 1},
		{160, 1},
		{161, 2},
		{320, 2},
		{321, 3},
	}
	for _, tt := range tests {
		if got := dumpStep(tt.cols); got != tt.want {
			t.Errorf("dumpStep(%d) = %d, want %d", tt.cols, got, tt.want)
		}
	}
}

func TestDumpDrainMap_RowsFitWidth(t *testing.T) {
	for _, cols := range []int{159, 160, 161, 321, 480, 481} {
		m, err := drain.NewMap(cols, 3, 1)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := DumpDrainMap(&buf, testSnapshot(1), m); err != nil {
			t.Fatal(err)
		}
		grid := buf.String()[strings.Index(buf.String(), "--- Map ---\n")+len("--- Map ---\n"):]
		for _, row := range strings.Split(strings.TrimSuffix(grid, "\n"), "\n") {
			if len(row) > maxDumpCols {
				t.Errorf("%d columns: row of %d characters, want at most %d", cols, len(row), maxDumpCols)
			}
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestDumpDrainMap_ReportsWriteError(t *testing.T) {
	m, err := drain.NewMap(4, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := DumpDrainMap(failingWriter{}, testSnapshot(1), m); err == nil {
		t.Error("DumpDrainMap() to a failing writer returned nil")
	}
}

func TestDrainSymbol(t *testing.T) {
	if drainSymbol(0, 4) != '.' || drainSymbol(2, 4) != '+' || drainSymbol(4, 4) != '#' {
		t.Error("unexpected block symbols")
	}
}

func TestRecorder_CapturesEveryNth(t *testing.T) {
	r := NewRecorder("", 2, 16)
	for i := 0; i < 5; i++ {
		r.ObserveFrame(testSnapshot(i))
	}
	if got := r.Frames(); got != 3 {
		t.Fatalf("Frames() = %d, want 3", got)
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode timelapse: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("decoded %d frames, want 3", len(anim.Image))
	}
	if w := anim.Image[0].Bounds().Dx(); w != 16 {
		t.Errorf("frame width = %d, want 16", w)
	}
}

func TestRecorder_ThinsAtMaxFrames(t *testing.T) {
	r := NewRecorder("", 1, 8)
	r.MaxFrames = 4
	for i := 0; i < 20; i++ {
		r.ObserveFrame(testSnapshot(i))
	}
	if got := r.Frames(); got >= r.MaxFrames {
		t.Fatalf("Frames() = %d, want fewer than %d", got, r.MaxFrames)
	}
	if got := r.Interval(); got != 8 {
		t.Errorf("Interval() = %d, want 8", got)
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode timelapse: %v", err)
	}
	for i, d := range anim.Delay {
		if d != frameDelay(8) {
			t.Errorf("frame %d delay = %d, want %d", i, d, frameDelay(8))
		}
	}
}

func TestRecorder_EmptyCloseWritesNothing(t *testing.T) {
	path := t.TempDir() + "/out.gif"
	r := NewRecorder(path, 1, 0)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty recorder created a file")
	}
}

func TestDebugServer(t *testing.T) {
	d := NewDebugServer("127.0.0.1:0", 2)
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/progress")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before first frame: status %d, want 503", resp.StatusCode)
	}

	// frame 1 is off the interval, so no image yet
	d.ObserveFrame(testSnapshot(1))
	resp, err = http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("frame.png off interval: status %d, want 503", resp.StatusCode)
	}

	d.ObserveFrame(testSnapshot(2))

	resp, err = http.Get(srv.URL + "/progress")
	if err != nil {
		t.Fatal(err)
	}
	var report progressReport
	err = json.NewDecoder(resp.Body).Decode(&report)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if report.Frame != 2 || report.Drained != 30 || report.Percent != 25 || report.Level != 2 {
		t.Errorf("progress = %+v", report)
	}

	resp, err = http.Get(srv.URL + "/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("frame width = %d, want 32", img.Bounds().Dx())
	}
}

func TestDebugServer_Config(t *testing.T) {
	old := config.Current()
	defer config.Set(old)
	cfg := config.Default()
	cfg.Radius = 33
	config.Set(cfg)

	srv := httptest.NewServer(NewDebugServer("127.0.0.1:0", 1).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/config")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got config.Config
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Radius != 33 || got.Quality != cfg.Quality {
		t.Errorf("config = %+v, want radius 33", got)
	}
}
