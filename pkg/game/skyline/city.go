package skyline

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/bradfitz/iter"

	"chromatica/pkg/engine/bitmap"
)

// Building palette, light to dark.
var buildingColors = []color.NRGBA{
	{0xff, 0xff, 0xff, 0xff},
	{0xf0, 0xf0, 0xf0, 0xff},
	{0xe0, 0xe0, 0xe0, 0xff},
	{0xa9, 0xa9, 0xa9, 0xff},
	{0x80, 0x80, 0x80, 0xff},
	{0x69, 0x69, 0x69, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0x33, 0x33, 0x33, 0xff},
}

var (
	windowColor  = color.NRGBA{255, 255, 0, 204}
	outlineColor = color.NRGBA{50, 50, 50, 178}
	starBase     = color.NRGBA{255, 255, 255, 0}
	moonColor    = color.NRGBA{255, 255, 255, 230}
	moonGlow     = color.NRGBA{255, 255, 255, 77}
)

// CityGenerator paints a night skyline: sky gradient, stars, a moon, two
// rows of buildings with lit windows, and the ground.
type CityGenerator struct{}

// Name returns the generator name.
func (*CityGenerator) Name() string {
	return "city"
}

// Generate paints a city of the given size. The result depends only on the
// size and the state of rng.
func (*CityGenerator) Generate(width, height int, rng *rand.Rand) (*bitmap.BackgroundImage, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	c := bitmap.NewCanvas(width, height)
	w, h := float64(width), float64(height)

	paintSky(c)
	paintStars(c, rng, w, h)
	paintMoon(c, w, h)
	paintBuildings(c, rng, w, h)
	paintForeground(c, rng, w, h)
	paintGround(c)

	return bitmap.New(c.Image())
}

func paintStars(c *bitmap.Canvas, rng *rand.Rand, w, h float64) {
	n := int(w * h / 2000)
	for range iter.N(n) {
		x := rng.Float64() * w
		y := rng.Float64() * h * 0.7
		size := rng.Float64()*2 + 0.5
		star := starBase
		star.A = uint8((rng.Float64()*0.5 + 0.3) * 255)
		c.Disc(x, y, size, star)
	}
}

func paintMoon(c *bitmap.Canvas, w, h float64) {
	x, y := w*0.8, h*0.2
	r := math.Min(w, h) * 0.05
	c.RadialGlow(x, y, r*3, moonGlow)
	c.Disc(x, y, r, moonColor)
}

// rect converts a float rectangle to pixels, rounding edges down.
func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Floor(x+w)), int(math.Floor(y+h)))
}

func paintBuildings(c *bitmap.Canvas, rng *rand.Rand, w, h float64) {
	spacing := math.Max(10, w/80)
	maxHeight, minHeight := h*0.7, h*0.2
	windowSize := math.Max(4, h/100)
	windowSpacing := windowSize * 2

	for x := 0.0; x < w; x += spacing {
		bw := rng.Float64()*(w/30) + w/60
		bh := rng.Float64()*(maxHeight-minHeight) + minHeight

		// darker tones are more common
		var idx int
		if rng.Float64() > 0.4 {
			idx = rng.Intn(5) + 3
		} else {
			idx = rng.Intn(3)
		}
		top := h - bh
		c.FillRect(rect(x, top, bw, bh), buildingColors[idx])

		for wy := top + windowSpacing; wy < h-windowSpacing; wy += windowSpacing * 1.5 {
			for wx := x + windowSpacing/2; wx < x+bw-windowSpacing/2; wx += windowSpacing {
				if rng.Float64() > 0.3 {
					c.FillRect(rect(wx, wy, windowSize, windowSize*1.5), windowColor)
				}
			}
		}
		c.StrokeRect(rect(x, top, bw, bh), outlineColor)

		if rng.Float64() > 0.7 {
			roof := buildingColors[rng.Intn(3)+5]
			c.FillRect(rect(x+bw/4, top-windowSize*2, bw/2, windowSize*2), roof)
		}
	}
}

func paintForeground(c *bitmap.Canvas, rng *rand.Rand, w, h float64) {
	spacing := math.Max(10, w/80) * 1.5
	maxHeight := h * 0.3
	windowSize := math.Max(3, h/120)
	windowSpacing := windowSize * 1.5

	for x := 0.0; x < w; x += spacing {
		bw := rng.Float64()*(w/40) + w/80
		bh := rng.Float64()*maxHeight + h*0.05
		shade := color.NRGBA{
			R: uint8(rng.Intn(50) + 30),
			G: uint8(rng.Intn(50) + 30),
			B: uint8(rng.Intn(50) + 30),
			A: 230,
		}
		top := h - bh
		c.FillRect(rect(x, top, bw, bh), shade)

		for wy := top + windowSpacing; wy < h-windowSpacing; wy += windowSpacing * 1.5 {
			for wx := x + windowSpacing/2; wx < x+bw-windowSpacing/2; wx += windowSpacing {
				if rng.Float64() > 0.4 {
					c.FillRect(rect(wx, wy, windowSize, windowSize), windowColor)
				}
			}
		}
	}
}
