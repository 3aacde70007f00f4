package chunkview

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	colA = color.RGBA{R: 200, G: 10, B: 10, A: 255}
	colB = color.RGBA{R: 10, G: 200, B: 10, A: 255}
	colC = color.RGBA{R: 10, G: 10, B: 200, A: 255}
	red  = color.RGBA{R: 255, A: 255}
)

// solid returns a w x h image filled with c
func solid(w, h int, c color.Color) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(im, im.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return im
}

// writeChunk saves a solid square chunk named for (x,y) into dir
func writeChunk(t *testing.T, dir string, x, y, size int, c color.Color) string {
	t.Helper()
	fname := filepath.Join(dir, ChunkName(x, y))
	require.NoError(t, WriteFile(fname, solid(size, size, c)))
	return fname
}

// threeChunks builds the A / B / C layout used throughout the tests:
//
//	(0,0)=A (1,0)=B
//	(0,1)=C (1,1)=absent
func threeChunks(t *testing.T, size int) string {
	t.Helper()
	dir := t.TempDir()
	writeChunk(t, dir, 0, 0, size, colA)
	writeChunk(t, dir, 1, 0, size, colB)
	writeChunk(t, dir, 0, 1, size, colC)
	return dir
}

func writeText(t *testing.T, fpath, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(fpath, []byte(data), 0644))
}

const oneCityWorld = `{
	"islands": [
		{"region_id": 7, "size": 12, "tiles": [[50, 50], [51, 50]], "city_slots": [{"x": 50, "y": 50, "region_id": 7}]}
	]
}`
