package chunkview

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
)

// Compose pastes every chunk in `g` onto a single canvas of
// (g.Width * tileSize) x (g.Height * tileSize) pixels.
//
// Chunks are copied verbatim (alpha included) with their top left corner at
// (x * tileSize, y * tileSize), row by row. Absent cells are left as the
// `bg` fill. A chunk bigger than the stride spills into its right/lower
// neighbour's space until that neighbour is pasted over it.
func Compose(g *Grid, tileSize int, bg color.Color) (*image.RGBA, error) {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return nil, errors.Wrap(ErrNoChunks, "nothing to compose")
	}
	if tileSize <= 0 {
		return nil, errors.Errorf("tile size must be positive, got %d", tileSize)
	}
	if err := checkCanvasSize(g.Width, g.Height, tileSize); err != nil {
		return nil, err
	}
	if bg == nil {
		bg = color.Black
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.Width*tileSize, g.Height*tileSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cell := g.At(x, y)
			if cell.Empty() {
				continue
			}

			src := cell.Image.Bounds()
			dst := image.Rect(x*tileSize, y*tileSize, x*tileSize+src.Dx(), y*tileSize+src.Dy())
			draw.Draw(canvas, dst, cell.Image, src.Min, draw.Src)
		}
	}

	return canvas, nil
}

// MaxCanvasPixels is the largest canvas Compose will allocate (1 GiB of RGBA).
const MaxCanvasPixels = 1 << 28

// checkCanvasSize returns ErrTooLarge if a width x height grid of tileSize
// chunks needs more than MaxCanvasPixels pixels.
func checkCanvasSize(width, height, tileSize int) error {
	if width > MaxCanvasPixels/tileSize || height > MaxCanvasPixels/tileSize {
		return errors.Wrapf(ErrTooLarge, "canvas of %dx%d chunks at %dpx", width, height, tileSize)
	}
	wpx, hpx := width*tileSize, height*tileSize
	if wpx > MaxCanvasPixels/hpx {
		return errors.Wrapf(ErrTooLarge, "canvas of %dx%d px (max %d pixels)", wpx, hpx, MaxCanvasPixels)
	}
	return nil
}

// clone returns a deep copy of `in` so overlays can draw without touching it
func clone(in *image.RGBA) *image.RGBA {
	out := image.NewRGBA(in.Bounds())
	copy(out.Pix, in.Pix)
	return out
}
