package chunkview

import (
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SplitResult reports what Split did
type SplitResult struct {
	Width   int // in chunks
	Height  int // in chunks
	Written []string
	Skipped []string // existed & overwrite wasn't set
}

// Split cuts `in` into tileSize x tileSize chunks written to `dir` as
// chunk_<x>_<y>.png. Chunks on the right / bottom edge are padded with
// transparent pixels when the image isn't a whole number of chunks.
// Existing files are kept unless overwrite is set.
func Split(in image.Image, tileSize int, dir string, overwrite bool) (*SplitResult, error) {
	if tileSize <= 0 {
		return nil, errors.Errorf("tile size must be positive, got %d", tileSize)
	}

	bnds := in.Bounds()
	if bnds.Empty() {
		return nil, errors.New("input image is empty")
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	res := &SplitResult{
		Width:  (bnds.Dx() + tileSize - 1) / tileSize,
		Height: (bnds.Dy() + tileSize - 1) / tileSize,
	}

	for y := 0; y < res.Height; y++ { // for each chunk row
		for x := 0; x < res.Width; x++ { // for each chunk column
			fname := filepath.Join(dir, ChunkName(x, y))
			if fileExists(fname) && !overwrite {
				res.Skipped = append(res.Skipped, fname)
				continue
			}

			t := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
			spnt := bnds.Min.Add(image.Pt(x*tileSize, y*tileSize))
			draw.Draw(t, t.Bounds(), in, spnt, draw.Src)

			err = WriteFile(fname, t)
			if err != nil {
				return res, err
			}
			res.Written = append(res.Written, fname)
		}
	}

	return res, nil
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
