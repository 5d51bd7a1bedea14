package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// MaxChannel is the largest channel value written to 8-bit outputs
const MaxChannel = 255

// MaxPPMSize bounds the pixel count accepted by ParsePPM
const MaxPPMSize = 1 << 28

// ErrMalformedPPM is returned when P3 input cannot be parsed
var ErrMalformedPPM = errors.New("malformed PPM")

// ChannelByte clamps a channel to [0, 255] and rounds it to the nearest integer
func ChannelByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= MaxChannel {
		return MaxChannel
	}
	return uint8(math.Round(v))
}

// EncodePPM renders the grid as P3 text: a "P3 <w> <h> 255" header line and
// one line of space-separated "R G B" triples per row. There is no trailing newline.
func EncodePPM(grid *core.PixelGrid) string {
	var sb strings.Builder
	// Header plus up to 12 bytes per pixel
	sb.Grow(32 + grid.Width*grid.Height*12)
	_ = writePPM(&sb, grid)
	return sb.String()
}

// WritePPM writes the grid to w in the EncodePPM format
func WritePPM(w io.Writer, grid *core.PixelGrid) error {
	bw := bufio.NewWriter(w)
	if err := writePPM(bw, grid); err != nil {
		return err
	}
	return bw.Flush()
}

func writePPM(w io.Writer, grid *core.PixelGrid) error {
	if _, err := fmt.Fprintf(w, "P3 %d %d %d", grid.Width, grid.Height, MaxChannel); err != nil {
		return err
	}

	buf := make([]byte, 0, grid.Width*12+1)
	for y := 0; y < grid.Height; y++ {
		buf = append(buf[:0], '\n')
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			if x > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(ChannelByte(c.X)), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(ChannelByte(c.Y)), 10)
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(ChannelByte(c.Z)), 10)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ParsePPM reads P3 text back into a pixel grid. Whitespace layout and
// "#" comments are accepted; channels are rescaled from the file's max value
// to the 0-255 scale.
func ParsePPM(r io.Reader) (*core.PixelGrid, error) {
	var tokens []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read PPM: %w", err)
	}

	pos := 0
	nextInt := func(what string) (int, error) {
		if pos >= len(tokens) {
			return 0, fmt.Errorf("%w: missing %s", ErrMalformedPPM, what)
		}
		tok := tokens[pos]
		pos++
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: invalid %s %q", ErrMalformedPPM, what, tok)
		}
		return n, nil
	}

	if len(tokens) == 0 || tokens[0] != "P3" {
		return nil, fmt.Errorf("%w: expected P3 magic", ErrMalformedPPM)
	}
	pos = 1

	width, err := nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := nextInt("height")
	if err != nil {
		return nil, err
	}
	maxVal, err := nextInt("max value")
	if err != nil {
		return nil, err
	}
	if maxVal == 0 || maxVal > 65535 {
		return nil, fmt.Errorf("%w: max value %d out of range", ErrMalformedPPM, maxVal)
	}
	if width == 0 || height == 0 || height > MaxPPMSize/width {
		return nil, fmt.Errorf("%w: image size %dx%d out of range", ErrMalformedPPM, width, height)
	}
	if want := pos + width*height*3; len(tokens) != want {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrMalformedPPM, width*height*3, len(tokens)-pos)
	}

	grid := core.NewPixelGrid(width, height)
	scale := float64(MaxChannel) / float64(maxVal)
	for i := range grid.Pixels {
		var rgb [3]float64
		for c := range rgb {
			v, err := nextInt("sample")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			if v > maxVal {
				return nil, fmt.Errorf("%w: sample %d exceeds max value %d", ErrMalformedPPM, v, maxVal)
			}
			rgb[c] = float64(v) * scale
		}
		grid.Pixels[i] = core.NewVec3(rgb[0], rgb[1], rgb[2])
	}

	return grid, nil
}
