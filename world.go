package chunkview

import (
	"encoding/json"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

// ErrNoWorld is returned when the world data file isn't there.
// Callers carry on without an overlay.
var ErrNoWorld = errors.New("world data file not found")

// World is the saved output of the world generator; we only read it.
type World struct {
	Islands []*Island `json:"islands" yaml:"islands"`
}

// Island is a connected land region & the city slots found on it
type Island struct {
	RegionID  int     `json:"region_id" yaml:"region_id"`
	Tiles     [][]int `json:"tiles,omitempty" yaml:"tiles,omitempty"`
	CitySlots []*City `json:"city_slots" yaml:"city_slots"`
	Size      int     `json:"size,omitempty" yaml:"size,omitempty"`
}

// City is a single city slot. X,Y are already canvas pixels.
type City struct {
	X        int `json:"x" yaml:"x"`
	Y        int `json:"y" yaml:"y"`
	RegionID int `json:"region_id" yaml:"region_id"`
}

// IslandSummary is one line of the island report
type IslandSummary struct {
	RegionID int
	Cities   int
}

// LoadWorld reads a world file. Files ending .yaml / .yml are read as yaml,
// anything else as json.
func LoadWorld(fpath string) (*World, error) {
	data, err := ioutil.ReadFile(fpath)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNoWorld, fpath)
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading world %s", fpath)
	}
	return DecodeWorld(data, filepath.Ext(fpath))
}

// DecodeWorld parses world data given the extension it came with.
func DecodeWorld(data []byte, ext string) (*World, error) {
	w := &World{}

	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, w)
	default:
		err = json.Unmarshal(data, w)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decoding world data")
	}

	for i, is := range w.Islands {
		if is == nil {
			return nil, errors.Errorf("island %d is null", i)
		}
		for j, c := range is.CitySlots {
			if c == nil {
				return nil, errors.Errorf("island %d (region %d) city %d is null", i, is.RegionID, j)
			}
		}
	}

	return w, nil
}

// Cities returns the number of city slots across all islands
func (w *World) Cities() int {
	n := 0
	for _, is := range w.Islands {
		n += len(is.CitySlots)
	}
	return n
}

// Points flattens every city on every island into canvas points, in file order.
func (w *World) Points() []image.Point {
	pts := make([]image.Point, 0, w.Cities())
	for _, is := range w.Islands {
		for _, c := range is.CitySlots {
			pts = append(pts, image.Pt(c.X, c.Y))
		}
	}
	return pts
}

// TopIslands returns up to `n` islands with the most cities, most first.
// Islands with equal counts keep their file order.
func (w *World) TopIslands(n int) []IslandSummary {
	all := make([]IslandSummary, len(w.Islands))
	for i, is := range w.Islands {
		all[i] = IslandSummary{RegionID: is.RegionID, Cities: len(is.CitySlots)}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Cities > all[j].Cities
	})

	if n < 0 {
		n = 0
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Island returns the island with the given region id (or nil)
func (w *World) Island(regionID int) *Island {
	for _, is := range w.Islands {
		if is.RegionID == regionID {
			return is
		}
	}
	return nil
}
