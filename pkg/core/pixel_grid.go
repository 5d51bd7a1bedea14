package core

// PixelGrid is a height x width grid of colors stored row-major.
// Row 0 is the top of the image.
type PixelGrid struct {
	Width  int
	Height int
	Pixels []Vec3
}

// NewPixelGrid creates a black grid of the given size
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pixels: make([]Vec3, width*height),
	}
}

// At returns the color at column x, row y
func (g *PixelGrid) At(x, y int) Vec3 {
	return g.Pixels[y*g.Width+x]
}

// Set stores the color at column x, row y
func (g *PixelGrid) Set(x, y int, c Vec3) {
	g.Pixels[y*g.Width+x] = c
}
