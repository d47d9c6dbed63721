package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Icon data (generated at init time)
var (
	// iconActive is a green icon shown while a profile is active
	iconActive []byte

	// iconIdle is a gray icon shown when no profile is active
	iconIdle []byte
)

func init() {
	iconActive = createIcon(color.RGBA{R: 16, G: 185, B: 129, A: 255}) // Green
	iconIdle = createIcon(color.RGBA{R: 209, G: 213, B: 219, A: 255})  // Gray
}

// createIcon creates a 64x64 PNG icon with a filled circle of the given color.
// Larger icons scale better on Windows high-DPI displays.
func createIcon(c color.Color) []byte {
	const size = 64
	const radius = 28
	const centerX, centerY = size / 2, size / 2

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.Transparent)
		}
	}

	// Filled circle with a soft anti-aliased edge
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - centerX)
			dy := float64(y - centerY)
			dist := dx*dx + dy*dy
			r2 := float64(radius * radius)

			if dist <= r2 {
				img.Set(x, y, c)
			} else if dist <= float64((radius+1)*(radius+1)) {
				alpha := 1.0 - (dist-r2)/float64(2*radius+1)
				if alpha > 0 {
					rc, gc, bc, _ := c.RGBA()
					img.Set(x, y, color.RGBA{
						R: uint8(rc >> 8),
						G: uint8(gc >> 8),
						B: uint8(bc >> 8),
						A: uint8(alpha * 255),
					})
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
