package devtools

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"sync"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// DefaultMaxFrames holds a timelapse of 480x270 frames under about 80MB.
const DefaultMaxFrames = 600

// Recorder builds a GIF timelapse of the composite, one frame every Every
// ticks, scaled to at most MaxWidth pixels wide. Once MaxFrames frames are
// held, every other frame is dropped and the interval doubles, so a long
// session still spans its whole length in bounded memory.
type Recorder struct {
	Every     int
	MaxWidth  uint
	MaxFrames int

	path string

	mu        sync.Mutex
	interval  int
	anim      gif.GIF
	quantizer quantize.MedianCutQuantizer
}

// NewRecorder returns a recorder that writes to path on Close.
func NewRecorder(path string, every int, maxWidth uint) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every, MaxWidth: maxWidth, MaxFrames: DefaultMaxFrames, path: path, interval: every}
}

// Interval returns the current capture interval in ticks.
func (r *Recorder) Interval() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// thin halves the held frames and doubles the interval. r.mu must be held.
func (r *Recorder) thin() {
	kept := r.anim.Image[:0]
	for i, p := range r.anim.Image {
		if i%2 == 0 {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(r.anim.Image); i++ {
		r.anim.Image[i] = nil
	}
	r.anim.Image = kept
	r.interval *= 2
	r.anim.Delay = r.anim.Delay[:len(kept)]
	for i := range r.anim.Delay {
		r.anim.Delay[i] = frameDelay(r.interval)
	}
	glog.V(1).Infof("Timelapse thinned to %d frames, one every %d ticks", len(kept), r.interval)
}

// frameDelay is the GIF delay, in 100ths of a second, for every ticks at 60 TPS.
func frameDelay(every int) int {
	d := every * 100 / 60
	if d < 2 {
		d = 2
	}
	return d
}

// ObserveFrame captures the frame if its number falls on the interval.
func (r *Recorder) ObserveFrame(snap Snapshot) {
	if snap.Frame == nil || snap.Number%r.Interval() != 0 {
		return
	}
	var img image.Image = snap.Frame
	if r.MaxWidth > 0 && uint(snap.Frame.Bounds().Dx()) > r.MaxWidth {
		img = resize.Resize(r.MaxWidth, 0, img, resize.Bilinear)
	}

	pal := r.quantizer.Quantize(make(color.Palette, 0, 256), img)
	p := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(p, p.Rect, img, img.Bounds().Min)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.anim.Image = append(r.anim.Image, p)
	r.anim.Delay = append(r.anim.Delay, frameDelay(r.interval))
	if r.MaxFrames > 1 && len(r.anim.Image) >= r.MaxFrames {
		r.thin()
	}
}

// Frames returns the number of captured frames.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.anim.Image)
}

// Encode writes the timelapse to w.
func (r *Recorder) Encode(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.anim.Image) == 0 {
		return ErrNoFrame
	}
	return errors.Wrap(gif.EncodeAll(w, &r.anim), "encode gif")
}

// Close writes the timelapse to the recorder's path. A recorder that never
// captured a frame writes nothing.
func (r *Recorder) Close() error {
	if r.Frames() == 0 {
		glog.Infof("Timelapse %s: no frames captured", r.path)
		return nil
	}
	f, err := os.Create(r.path)
	if err != nil {
		return errors.Wrap(err, "create timelapse")
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	glog.Infof("Timelapse written to %s (%d frames)", r.path, r.Frames())
	return errors.Wrap(f.Close(), "close timelapse")
}
