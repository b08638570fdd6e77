// Package draw rasterises the arena onto a half-block terminal canvas.
package draw

import (
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/tomz197/driftroids/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// It maps a square of arena coordinates (origin at the centre, +Y up) onto
// the largest square of pixels that fits the terminal.
type Canvas struct {
	cols   int    // terminal columns
	rows   int    // terminal rows
	height int    // rows * 2 sub-pixels
	pixels []bool // flat slice: [y*cols + x]

	extent float64 // arena units visible across the shorter pixel axis
	scale  float64 // pixels per arena unit
	cx, cy float64 // pixel coordinates of the arena origin

	scaledBuf       []Point   // reusable buffer for fillPolygon
	intersectionBuf []float64 // reusable buffer for scanline intersections
	renderBuf       []byte
}

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// NewCanvas creates a canvas for a terminal of cols x rows that shows extent
// arena units across its shorter axis.
func NewCanvas(cols, rows int, extent float64) *Canvas {
	c := &Canvas{extent: extent}
	c.Resize(cols, rows)
	return c
}

// Resize updates the canvas for new terminal dimensions, keeping the extent.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows, c.height = cols, rows, rows*2
		c.pixels = make([]bool, c.height*c.cols)
	}
	c.scale = float64(min(c.cols, c.height)) / c.extent
	c.cx = float64(c.cols) / 2
	c.cy = float64(c.height) / 2
}

// Size returns the terminal dimensions.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ToPixel converts arena coordinates to pixel space.
func (c *Canvas) ToPixel(p physics.Vec2) Point {
	return Point{X: c.cx + p.X*c.scale, Y: c.cy - p.Y*c.scale}
}

// Scale returns pixels per arena unit.
func (c *Canvas) Scale() float64 {
	return c.scale
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.height {
		c.pixels[y*c.cols+x] = true
	}
}

// Pixel reports whether the pixel at (x, y) is set. Out of range pixels are unset.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.cols || y < 0 || y >= c.height {
		return false
	}
	return c.pixels[y*c.cols+x]
}

// Plot sets the pixel under an arena position.
func (c *Canvas) Plot(p physics.Vec2) {
	px := c.ToPixel(p)
	c.setPixel(int(math.Floor(px.X)), int(math.Floor(px.Y)))
}

// Line draws an arena-space segment using Bresenham's algorithm.
func (c *Canvas) Line(a, b physics.Vec2) {
	c.line(c.ToPixel(a), c.ToPixel(b))
}

func (c *Canvas) line(p1, p2 Point) {
	x1, y1 := int(math.Floor(p1.X)), int(math.Floor(p1.Y))
	x2, y2 := int(math.Floor(p2.X)), int(math.Floor(p2.Y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Polygon draws a closed arena-space polygon, filling the interior if filled.
func (c *Canvas) Polygon(points []physics.Vec2, filled bool) {
	if len(points) < 3 {
		return
	}

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = c.ToPixel(p)
	}

	if filled {
		c.fillPolygon(scaled)
	}
	n := len(scaled)
	for i := 0; i < n; i++ {
		c.line(scaled[i], scaled[(i+1)%n])
	}
}

// fillPolygon fills a pixel-space polygon using a scanline algorithm.
func (c *Canvas) fillPolygon(scaled []Point) {
	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.height-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Cell returns the half-block character for a terminal cell (0-based).
func (c *Canvas) Cell(col, row int) rune {
	top := c.Pixel(col, row*2)
	bottom := c.Pixel(col, row*2+1)
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	}
	return BlockEmpty
}

// Cells calls fn for every non-empty terminal cell.
func (c *Canvas) Cells(fn func(col, row int, ch rune)) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if ch := c.Cell(col, row); ch != BlockEmpty {
				fn(col, row, ch)
			}
		}
	}
}

// Render writes every row of the canvas, blanks included, so the previous
// frame needs no separate clear. Output goes out in MTU-sized chunks.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.renderBuf[:0]
	for row := 0; row < c.rows; row++ {
		buf = appendMoveCursor(buf, 1, row+1)
		for col := 0; col < c.cols; col++ {
			buf = utf8.AppendRune(buf, c.Cell(col, row))
		}
	}
	c.renderBuf = buf

	for len(buf) > 0 {
		chunk := buf[:min(len(buf), maxChunkSize)]
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		buf = buf[len(chunk):]
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
