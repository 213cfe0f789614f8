package devtools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"chromatica/pkg/engine/drain"
)

const drainDumpFilename = "drainmap.txt"

// Widest grid the dump will print; larger maps are downsampled.
const maxDumpCols = 160

// drainSymbol summarises a block of cells: '#' all drained, '+' some, '.' none.
func drainSymbol(drained, total int) rune {
	switch {
	case drained == 0:
		return '.'
	case drained == total:
		return '#'
	default:
		return '+'
	}
}

// writeDrainGrid prints m with each character covering step x step cells.
func writeDrainGrid(w io.Writer, m *drain.Map, step int) {
	for cy := 0; cy < m.Rows(); cy += step {
		row := make([]rune, 0, m.Cols()/step+1)
		for cx := 0; cx < m.Cols(); cx += step {
			drained, total := 0, 0
			for y := cy; y < cy+step && y < m.Rows(); y++ {
				for x := cx; x < cx+step && x < m.Cols(); x++ {
					total++
					if m.IsDrained(x, y) {
						drained++
					}
				}
			}
			row = append(row, drainSymbol(drained, total))
		}
		fmt.Fprintln(w, string(row))
	}
}

// dumpStep returns the downsampling factor for a map with cols columns.
func dumpStep(cols int) int {
	step := 1
	for (cols+step-1)/step > maxDumpCols {
		step++
	}
	return step
}

// DumpDrainMap writes run metadata followed by the drain map as text. It
// returns the first write error.
func DumpDrainMap(out io.Writer, snap Snapshot, m *drain.Map) error {
	if m == nil {
		return errors.New("no drain map")
	}
	step := dumpStep(m.Cols())
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, "=== DRAIN MAP DUMP ===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "--- Metadata ---")
	fmt.Fprintf(w, "level: %d\n", snap.Level)
	fmt.Fprintf(w, "seed: %d\n", snap.Seed)
	fmt.Fprintf(w, "frame: %d\n", snap.Number)
	fmt.Fprintf(w, "image: %dx%d\n", m.Width(), m.Height())
	fmt.Fprintf(w, "quality: %d\n", m.Quality())
	fmt.Fprintf(w, "cells: %dx%d\n", m.Cols(), m.Rows())
	fmt.Fprintf(w, "drained: %d/%d (%.2f%%)\n", snap.Progress.Drained, snap.Progress.Total, snap.Progress.Percentage()*100)
	fmt.Fprintf(w, "target: %.0f%%\n", snap.Target)
	fmt.Fprintf(w, "complete: %v\n", snap.Complete)
	fmt.Fprintf(w, "game over: %v (%d lives)\n", snap.GameOver, snap.Lives)
	fmt.Fprintf(w, "player: %.1f,%.1f\n", snap.PlayerX, snap.PlayerY)
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "--- Legend ---")
	fmt.Fprintf(w, "# = all drained  + = partly drained  . = colour  (1 char = %dx%d cells)\n", step, step)
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "--- Map ---")
	writeDrainGrid(w, m, step)
	return errors.Wrap(w.Flush(), "write drain dump")
}

// DumpDrainMapToFile writes DumpDrainMap output to drainmap.txt in dir and
// returns the absolute path.
func DumpDrainMapToFile(dir string, snap Snapshot, m *drain.Map) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(dir, drainDumpFilename))
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", errors.Wrap(err, "create drain dump")
	}
	if err := DumpDrainMap(f, snap, m); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close drain dump")
	}
	return absPath, nil
}
