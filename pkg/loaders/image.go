package loaders

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/output"
)

// LoadImage loads a PPM, PNG, JPEG or BMP image into a pixel grid with
// channels on the 0-255 scale
func LoadImage(filename string) (*core.PixelGrid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	if magic, err := r.Peek(2); err == nil && bytes.Equal(magic, []byte("P3")) {
		grid, err := output.ParsePPM(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return grid, nil
	}

	// Auto-detects the remaining formats from the file header
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts an image to a pixel grid, dropping alpha
func FromImage(img image.Image) *core.PixelGrid {
	bounds := img.Bounds()
	grid := core.NewPixelGrid(bounds.Dx(), bounds.Dy())

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			grid.Set(x, y, core.NewVec3(
				float64(r>>8),
				float64(g>>8),
				float64(b>>8),
			))
		}
	}

	return grid
}
