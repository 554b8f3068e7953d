package core

import "fmt"

// Color is an RGB series color.
type Color struct {
	R, G, B uint8
}

// Series colors in assignment order: blue, red, green, yellow, purple, orange.
var palette = []Color{
	{54, 162, 235},
	{255, 99, 132},
	{75, 192, 192},
	{255, 206, 86},
	{153, 102, 255},
	{255, 159, 64},
}

// Alpha values for dataset borders and fills.
const (
	BorderAlpha     = 1.0
	BackgroundAlpha = 0.2
)

// SeriesColor returns the palette color for the i-th dataset, cycling after
// the last color.
func SeriesColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// RGBA renders c as a CSS rgba() value.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}
