package ebiten

import "image/color"

// Color palette
var (
	colorBackground      = color.RGBA{10, 12, 28, 255}    // Night sky above the city
	colorGround          = color.RGBA{34, 34, 34, 255}    // Matches the city's ground strip
	colorPlatform        = color.RGBA{90, 90, 120, 255}   // Floating platform body
	colorPlatformEdge    = color.RGBA{170, 170, 210, 255} // Top edge highlight
	colorPlatformVisited = color.RGBA{120, 150, 130, 255} // Platforms already stood on
	colorPlayer          = color.RGBA{240, 240, 250, 255} // Stick figure
	colorDrainGlow       = color.RGBA{255, 255, 255, 40}  // Halo while draining
	colorText            = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorSubtle          = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorAction          = color.RGBA{180, 150, 250, 255} // Blue-purple
	colorValue           = color.RGBA{120, 220, 255, 255} // Cyan for numbers
	colorTitle           = color.RGBA{150, 170, 255, 255}
	colorDenied          = color.RGBA{255, 100, 100, 255} // Bright red
	colorSuccess         = color.RGBA{100, 255, 150, 255} // Green for success
	colorPanelBackground = color.RGBA{30, 30, 50, 220}    // Semi-transparent dark
	colorPanelBorder     = color.RGBA{80, 80, 100, 255}
	colorBarEmpty        = color.RGBA{60, 60, 80, 255}
	colorBarFilled       = color.RGBA{200, 200, 200, 255} // Gray: drained
	colorBarTarget       = color.RGBA{255, 220, 100, 255}
	colorOverlay         = color.RGBA{0, 0, 0, 150}
	colorLaser           = color.RGBA{255, 0, 0, 255}
	colorLaserCore       = color.RGBA{255, 200, 200, 204}
	colorDog             = color.RGBA{139, 69, 19, 255} // Saddle brown
	colorDogEye          = color.RGBA{255, 255, 255, 255}
)

// Stick figure proportions, in pixels.
const (
	lineWidth   = 3
	neckLength  = 4
	armSpan     = 12
	legSpread   = 8
	strideSwing = 6
	glowRadius  = 22
	// Frames per on/off phase of the invulnerability blink.
	blinkFrames = 12
)

// HUD layout
const (
	panelPadding   = 10
	panelMargin    = 12
	barHeight      = 8
	minFontSize    = 12.0
	maxFontSize    = 24.0
	fontSizeDivide = 40.0 // window height / fontSizeDivide = UI font size
)
