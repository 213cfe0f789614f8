package main

import (
	"fmt"
	"io"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gookit/color"
)

var (
	colorHeader  = color.Style{color.FgBlue, color.OpBold}
	colorReached = color.Style{color.FgGreen, color.OpBold}
	colorMissed  = color.Style{color.FgRed, color.OpBold}
	colorSubtle  = color.Style{color.FgGray}
)

// summary aggregates a batch of results.
type summary struct {
	Cities      int
	Reached     int
	MeanFrames  float64
	MeanCover   float64
	FrameTimeMs float64
}

func summarize(results []result) summary {
	var s summary
	var elapsed time.Duration
	frames, reachedFrames := 0, 0
	for _, r := range results {
		s.Cities++
		s.MeanCover += r.Coverage()
		frames += r.Frames
		elapsed += r.Elapsed
		if r.Reached {
			s.Reached++
			reachedFrames += r.Frames
		}
	}
	if s.Cities > 0 {
		s.MeanCover /= float64(s.Cities)
	}
	if s.Reached > 0 {
		s.MeanFrames = float64(reachedFrames) / float64(s.Reached)
	}
	if frames > 0 {
		s.FrameTimeMs = float64(elapsed) / float64(frames) / float64(time.Millisecond)
	}
	return s
}

// report prints the banner, one line per city and the summary.
func report(w io.Writer, mode string, target float64, results []result) {
	for _, line := range figure.NewFigure("drainsim", "", true).Slicify() {
		fmt.Fprintln(w, colorHeader.Sprint(line))
	}
	fmt.Fprintf(w, "%s mode, target %.0f%%\n\n", mode, target)
	fmt.Fprintln(w, colorHeader.Sprintf("%8s %8s %9s %8s %10s %9s", "seed", "frames", "coverage", "reached", "ms/frame", "rebuilds"))

	for _, r := range results {
		reached := colorMissed.Sprintf("%8s", "no")
		if r.Reached {
			reached = colorReached.Sprintf("%8s", "yes")
		}
		perFrame := 0.0
		if r.Frames > 0 {
			perFrame = float64(r.Elapsed) / float64(r.Frames) / float64(time.Millisecond)
		}
		fmt.Fprintf(w, "%8d %8d %8.1f%% %s %10.3f %9d\n", r.Seed, r.Frames, r.Coverage(), reached, perFrame, r.Rebuilds)
	}

	s := summarize(results)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d/%d cities reached the target", s.Reached, s.Cities)
	if s.Reached > 0 {
		fmt.Fprintf(w, " in %.0f frames on average", s.MeanFrames)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, colorSubtle.Sprintf("mean coverage %.1f%%, %.3f ms per frame", s.MeanCover, s.FrameTimeMs))
}
