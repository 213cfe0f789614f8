package skyline

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"chromatica/pkg/engine/bitmap"
)

func TestGenerate_RejectsInvalidSize(t *testing.T) {
	for _, g := range []Generator{City, Plain} {
		for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
			_, err := g.Generate(size[0], size[1], rand.New(rand.NewSource(1)))
			if errors.Cause(err) != ErrInvalidSize {
				t.Errorf("%s.Generate(%d,%d) err = %v, want ErrInvalidSize", g.Name(), size[0], size[1], err)
			}
		}
	}
}

func TestCity_DeterministicForSeed(t *testing.T) {
	a, err := City.Generate(160, 90, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := City.Generate(160, 90, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a.Color().Pix, b.Color().Pix) {
		t.Error("same seed produced different cities")
	}

	c, err := City.Generate(160, 90, rand.New(rand.NewSource(43)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(a.Color().Pix, c.Color().Pix) {
		t.Error("different seeds produced identical cities")
	}
}

func TestCity_OpaqueWithGrayscalePair(t *testing.T) {
	img, err := City.Generate(120, 80, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if img.Width() != 120 || img.Height() != 80 {
		t.Fatalf("size = %dx%d, want 120x80", img.Width(), img.Height())
	}
	col, gray := img.Color().Pix, img.Gray().Pix
	for i := 0; i < len(col); i += 4 {
		if col[i+3] != 255 {
			t.Fatalf("pixel %d alpha = %d, want opaque", i/4, col[i+3])
		}
		want := bitmap.Luminance(col[i], col[i+1], col[i+2])
		if gray[i] != want || gray[i+1] != want || gray[i+2] != want {
			t.Fatalf("pixel %d gray = %v, want %d", i/4, gray[i:i+3], want)
		}
	}
}

func TestCity_HasGroundAndColor(t *testing.T) {
	img, err := City.Generate(200, 100, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := img.Color().RGBAAt(100, 99); got.R != 0x22 || got.G != 0x22 || got.B != 0x22 {
		t.Errorf("bottom row = %v, want ground #222222", got)
	}

	colorful := 0
	pix := img.Color().Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+1] || pix[i+1] != pix[i+2] {
			colorful++
		}
	}
	if colorful < len(pix)/8 {
		t.Errorf("only %d colored pixels; the city would be invisible when drained", colorful)
	}
}

func TestPlain_IgnoresRNG(t *testing.T) {
	a, err := Plain.Generate(50, 40, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Plain.Generate(50, 40, rand.New(rand.NewSource(77)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a.Color().Pix, b.Color().Pix) {
		t.Error("plain background depends on the rng")
	}
}

func TestByName(t *testing.T) {
	if ByName("city") != City || ByName("plain") != Plain {
		t.Error("ByName did not find the built-in generators")
	}
	if ByName("forest") != nil {
		t.Error("ByName(forest) != nil")
	}
}
