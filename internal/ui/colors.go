package ui

import "image/color"

// Palette.
var (
	ColorLight       = color.RGBA{224, 215, 210, 255}
	ColorRed         = color.RGBA{168, 66, 28, 255}
	ColorOrange      = color.RGBA{225, 138, 50, 255}
	ColorDark        = color.RGBA{26, 56, 28, 255}
	ColorDarkBlue    = color.RGBA{24, 30, 48, 255}
	ColorBlackNice   = color.RGBA{20, 20, 24, 255}
	ColorWhiteNice   = color.RGBA{245, 242, 238, 255}
	ColorTransparent = color.RGBA{}
)

// AlphaOver returns c with its alpha replaced by a (0..1).
func AlphaOver(c color.RGBA, a float32) color.RGBA {
	switch {
	case a <= 0:
		a = 0
	case a >= 1:
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}
