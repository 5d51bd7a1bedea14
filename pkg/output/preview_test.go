package output

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func testGrid() *core.PixelGrid {
	grid := core.NewPixelGrid(3, 2)
	grid.Set(0, 0, core.NewVec3(51, 0, 0))
	grid.Set(1, 0, core.NewVec3(0, 127.6, 0))
	grid.Set(2, 0, core.NewVec3(0, 0, 999))
	grid.Set(0, 1, core.NewVec3(255, 255, 255))
	grid.Set(1, 1, core.NewVec3(-5, 12.4, 200))
	return grid
}

func checkImageMatchesGrid(t *testing.T, img image.Image, grid *core.PixelGrid, scale int) {
	t.Helper()

	b := img.Bounds()
	if b.Dx() != grid.Width*scale || b.Dy() != grid.Height*scale {
		t.Fatalf("Expected %dx%d image, got %dx%d", grid.Width*scale, grid.Height*scale, b.Dx(), b.Dy())
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := grid.At(x/scale, y/scale)
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			got := [4]uint32{r >> 8, g >> 8, bl >> 8, a >> 8}
			want := [4]uint32{uint32(ChannelByte(c.X)), uint32(ChannelByte(c.Y)), uint32(ChannelByte(c.Z)), 255}
			if got != want {
				t.Fatalf("Pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestToPixmap(t *testing.T) {
	grid := testGrid()
	pm := ToPixmap(grid)

	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("Expected 3x2 pixmap, got %dx%d", pm.Width(), pm.Height())
	}
	checkImageMatchesGrid(t, pm, grid, 1)
}

func TestEncodePreview_PNG(t *testing.T) {
	for _, scale := range []int{1, 3} {
		var buf bytes.Buffer
		if err := EncodePreview(&buf, testGrid(), FormatPNG, scale); err != nil {
			t.Fatalf("scale %d: EncodePreview() error: %v", scale, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("scale %d: output is not a PNG: %v", scale, err)
		}
		checkImageMatchesGrid(t, img, testGrid(), scale)
	}
}

func TestEncodePreview_BMP(t *testing.T) {
	for _, scale := range []int{1, 2} {
		var buf bytes.Buffer
		if err := EncodePreview(&buf, testGrid(), FormatBMP, scale); err != nil {
			t.Fatalf("scale %d: EncodePreview() error: %v", scale, err)
		}
		img, err := bmp.Decode(&buf)
		if err != nil {
			t.Fatalf("scale %d: output is not a BMP: %v", scale, err)
		}
		checkImageMatchesGrid(t, img, testGrid(), scale)
	}
}

func TestEncodePreview_PPMIgnoresScale(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePreview(&buf, testGrid(), FormatPPM, 4); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "P3 3 2 255\n") {
		t.Errorf("Expected unscaled PPM header, got %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"ppm":  FormatPPM,
		".PNG": FormatPNG,
		"bmp":  FormatBMP,
		".jpg": FormatJPEG,
		"jpeg": FormatJPEG,
	}
	for in, expected := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != expected {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, expected)
		}
	}

	if _, err := ParseFormat(".gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	grid := testGrid()

	ppmPath := filepath.Join(dir, "nested", "out.ppm")
	if err := SaveFile(ppmPath, grid, 1); err != nil {
		t.Fatalf("SaveFile(ppm) error: %v", err)
	}
	data, err := os.ReadFile(ppmPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != EncodePPM(grid) {
		t.Errorf("PPM file content differs from EncodePPM")
	}

	pngPath := filepath.Join(dir, "out.png")
	if err := SaveFile(pngPath, grid, 2); err != nil {
		t.Fatalf("SaveFile(png) error: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved PNG does not decode: %v", err)
	}
	checkImageMatchesGrid(t, img, grid, 2)

	if err := SaveFile(filepath.Join(dir, "out.tga"), grid, 1); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
