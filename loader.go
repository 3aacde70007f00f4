package chunkview

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// ErrNoChunks is returned when a folder is missing or has no chunk files in it.
// It's a "nothing to do" signal rather than a failure.
var ErrNoChunks = errors.New("no chunk files found")

var chunkName = regexp.MustCompile(`^chunk_(\d+)_(\d+)\.png$`)

// ParseChunkName returns the grid coords encoded in a filename
// of the form chunk_<x>_<y>.png
func ParseChunkName(name string) (Coord, bool) {
	m := chunkName.FindStringSubmatch(name)
	if m == nil {
		return Coord{}, false
	}

	x, err := strconv.Atoi(m[1])
	if err != nil {
		return Coord{}, false // overflow
	}
	y, err := strconv.Atoi(m[2])
	if err != nil {
		return Coord{}, false
	}

	return Coord{X: x, Y: y}, true
}

// ChunkName is the inverse of ParseChunkName
func ChunkName(x, y int) string {
	return "chunk_" + strconv.Itoa(x) + "_" + strconv.Itoa(y) + ".png"
}

// LoadChunks reads all chunk files in `dir` into a grid sized to fit the
// largest x & y found. Files not named like chunks are ignored. If two
// names resolve to the same coords (eg. chunk_1_1.png & chunk_01_1.png)
// the last in filename order wins. Coordinates needing a grid of more than
// MaxGridCells cells give ErrTooLarge.
func LoadChunks(dir string) (*Grid, error) {
	entries, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNoChunks, "folder %s does not exist", dir)
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading folder %s", dir)
	}

	names := []string{}
	coords := map[string]Coord{}
	width, height := 0, 0

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		c, ok := ParseChunkName(e.Name())
		if !ok {
			continue
		}

		if c.X >= MaxGridCells || c.Y >= MaxGridCells {
			return nil, errors.Wrapf(ErrTooLarge, "%s in %s", e.Name(), dir)
		}

		names = append(names, e.Name())
		coords[e.Name()] = c
		if c.X+1 > width {
			width = c.X + 1
		}
		if c.Y+1 > height {
			height = c.Y + 1
		}
	}
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrNoChunks, "in %s", dir)
	}
	sort.Strings(names)

	if err := CheckGridSize(width, height); err != nil {
		return nil, errors.Wrapf(err, "in %s", dir)
	}

	grid := NewGrid(width, height)
	for _, name := range names {
		im, err := OpenImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		c := coords[name]
		if err := grid.SetFile(c.X, c.Y, im, name); err != nil {
			return nil, err
		}
	}

	return grid, nil
}

// OpenImage reads an image from disk in any registered format
// (png, gif, jpeg, webp)
func OpenImage(fpath string) (image.Image, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	im, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fpath)
	}
	return im, nil
}
