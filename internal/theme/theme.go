// Package theme holds the colour palettes of the editor window and the
// artboard.
package theme

import (
	"image/color"
)

// Theme defines the colour palette of the editor.
type Theme struct {
	Name string

	// Window
	Backdrop   color.RGBA // Area around the artboard
	Foreground color.RGBA // Status text

	// Artboard
	Artboard     color.RGBA // Fill of the background object
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Objects
	Ink    color.RGBA // Freehand strokes and new text
	Border color.RGBA // Selection outline
	Corner color.RGBA // Selection handles

	// Toolbar
	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA
	ButtonText        color.RGBA
	ButtonTextActive  color.RGBA
	ButtonBorder      color.RGBA
	Progress          color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Backdrop:          color.RGBA{200, 200, 200, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		Artboard:          color.RGBA{255, 255, 255, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		Ink:               color.RGBA{255, 0, 0, 255},
		Border:            color.RGBA{0, 0, 0, 255},
		Corner:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 150, 150, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonTextActive:  color.RGBA{255, 255, 255, 255},
		ButtonBorder:      color.RGBA{0, 0, 0, 255},
		Progress:          color.RGBA{40, 120, 220, 255},
	}
}
