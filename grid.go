package chunkview

import (
	"image"

	"github.com/pkg/errors"
)

// MaxGridCells is the most cells a loaded grid may have (width * height).
const MaxGridCells = 1 << 20

// ErrTooLarge is returned when a grid or canvas would be bigger than we allow.
var ErrTooLarge = errors.New("too large")

// Coord is a chunks (column, row) on the grid
type Coord struct {
	X int
	Y int
}

// Cell is a single grid position. A cell either holds a decoded chunk
// (Present) or is absent, in which case Image is nil.
type Cell struct {
	Image   image.Image
	Present bool

	// Source is the file the chunk was read from, if any
	Source string
}

// Empty returns if no chunk was placed here
func (c Cell) Empty() bool {
	return !c.Present
}

// Grid is a dense Width x Height arrangement of chunks.
// Cells are stored row major: index = y * width + x
type Grid struct {
	Width  int
	Height int
	cells  []Cell
}

// NewGrid returns a grid where every cell is absent.
// Use CheckGridSize first if width & height come from untrusted input.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// Set places a chunk at (x,y), replacing whatever was there.
// Setting a nil image marks the cell absent again.
func (g *Grid) Set(x, y int, im image.Image) error {
	if !g.inBounds(x, y) {
		return errors.Errorf("(%d,%d) is out of bounds for a %dx%d grid", x, y, g.Width, g.Height)
	}
	g.cells[y*g.Width+x] = Cell{Image: im, Present: im != nil}
	return nil
}

// SetFile is Set, also recording which file the chunk came from.
func (g *Grid) SetFile(x, y int, im image.Image, src string) error {
	err := g.Set(x, y, im)
	if err != nil || im == nil {
		return err
	}
	g.cells[y*g.Width+x].Source = src
	return nil
}

// At returns the cell at (x,y). Out of bounds positions are absent.
func (g *Grid) At(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Cell{}
	}
	return g.cells[y*g.Width+x]
}

// Populated returns how many cells hold a chunk
func (g *Grid) Populated() int {
	n := 0
	for _, c := range g.cells {
		if c.Present {
			n++
		}
	}
	return n
}

// Coords returns the coordinates of populated cells, row by row.
func (g *Grid) Coords() []Coord {
	out := []Coord{}
	for index, c := range g.cells {
		if !c.Present {
			continue
		}
		// the reverse of index = y * width + x
		out = append(out, Coord{X: index % g.Width, Y: index / g.Width})
	}
	return out
}

// CheckGridSize returns ErrTooLarge if a width x height grid would hold
// more than MaxGridCells cells.
func CheckGridSize(width, height int) error {
	if width < 0 || height < 0 {
		return errors.Errorf("grid size %dx%d is negative", width, height)
	}
	if width == 0 || height == 0 {
		return nil
	}
	if width > MaxGridCells || height > MaxGridCells/width {
		return errors.Wrapf(ErrTooLarge, "grid of %dx%d chunks (max %d cells)", width, height, MaxGridCells)
	}
	return nil
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}
