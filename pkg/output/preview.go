package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Format identifies an output encoding
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatJPEG Format = "jpeg"
)

// JPEGQuality is the quality used for JPEG previews
const JPEGQuality = 90

// ErrUnknownFormat is returned for unsupported output formats
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a format name or file extension to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/x-portable-pixmap"
	}
}

// ToPixmap converts the grid to an opaque raster, clamping and rounding each
// channel exactly as the PPM writer does
func ToPixmap(grid *core.PixelGrid) *gg.Pixmap {
	pm := gg.NewPixmap(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			pm.SetPixelPremul(x, y, ChannelByte(c.X), ChannelByte(c.Y), ChannelByte(c.Z), 0xff)
		}
	}
	return pm
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling.
// Factors below 2 return img unchanged.
func Upscale(img image.Image, scale int) image.Image {
	if scale < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePreview writes the grid in the given format, upscaled by scale.
// PPM output is never upscaled.
func EncodePreview(w io.Writer, grid *core.PixelGrid, format Format, scale int) error {
	if format == FormatPPM {
		return WritePPM(w, grid)
	}

	pm := ToPixmap(grid)
	if scale < 2 {
		switch format {
		case FormatPNG:
			return pm.EncodePNG(w)
		case FormatJPEG:
			return pm.EncodeJPEG(w, JPEGQuality)
		case FormatBMP:
			return bmp.Encode(w, pm)
		}
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	img := Upscale(pm, scale)
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// SaveFile writes the grid to path, choosing the format from the extension
func SaveFile(path string, grid *core.PixelGrid, scale int) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if err := EncodePreview(bw, grid, format, scale); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
