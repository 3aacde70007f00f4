/* this file writes a grid of chunks out as a TMX map (doc.mapeditor.org/en/stable/)
so the stitched world can be opened in Tiled without re-encoding any image.

Every chunk file becomes one tile in a single "chunks" tileset, placed on one
tile layer. Cities (if given) are written as point objects in an object group.
We only write the small part of TMX we need.
*/
package chunkview

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// tmxMap is the top level TMX element. We only write orthogonal maps;
// Width & Height are in chunks, TileWidth & TileHeight in pixels.
type tmxMap struct {
	XMLName      xml.Name          `xml:"map"`
	Version      string            `xml:"version,attr"`
	Orientation  string            `xml:"orientation,attr"`
	RenderOrder  string            `xml:"renderorder,attr"`
	Width        int               `xml:"width,attr"`
	Height       int               `xml:"height,attr"`
	TileWidth    int               `xml:"tilewidth,attr"`
	TileHeight   int               `xml:"tileheight,attr"`
	NextObjectID int               `xml:"nextobjectid,attr"`
	Properties   []*tmxProperty    `xml:"properties>property,omitempty"`
	Tilesets     []*tmxTileset     `xml:"tileset"`
	Layers       []*tmxLayer       `xml:"layer"`
	ObjectGroups []*tmxObjectGroup `xml:"objectgroup,omitempty"`
}

type tmxProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr,omitempty"` // string (default), int, bool
}

type tmxTileset struct {
	FirstGID   uint       `xml:"firstgid,attr"`
	Name       string     `xml:"name,attr"`
	TileWidth  int        `xml:"tilewidth,attr"`
	TileHeight int        `xml:"tileheight,attr"`
	TileCount  int        `xml:"tilecount,attr"`
	Columns    int        `xml:"columns,attr"`
	Tiles      []*tmxTile `xml:"tile"`
}

type tmxTile struct {
	ID    uint      `xml:"id,attr"`
	Image *tmxImage `xml:"image"`
}

type tmxImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type tmxLayer struct {
	ID     uint    `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Width  int     `xml:"width,attr"`
	Height int     `xml:"height,attr"`
	Data   tmxData `xml:"data"`
}

type tmxData struct {
	Encoding string `xml:"encoding,attr"`
	RawData  []byte `xml:",innerxml"`
}

type tmxObjectGroup struct {
	ID      uint         `xml:"id,attr"`
	Name    string       `xml:"name,attr"`
	Objects []*tmxObject `xml:"object"`
}

type tmxObject struct {
	ID         uint           `xml:"id,attr"`
	Name       string         `xml:"name,attr,omitempty"`
	X          int            `xml:"x,attr"`
	Y          int            `xml:"y,attr"`
	Properties []*tmxProperty `xml:"properties>property,omitempty"`
	Point      *struct{}      `xml:"point"`
}

// EncodeTMX writes `g` as a TMX map to `w`. Chunk images are referenced by the
// file they were loaded from, joined onto imageDir (which should be relative
// to wherever the map is saved). Absent cells are the empty tile.
// Cities from `world` (may be nil) become point objects.
func EncodeTMX(w io.Writer, g *Grid, tileSize int, world *World, imageDir string) error {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return errors.Wrap(ErrNoChunks, "nothing to export")
	}

	ts := &tmxTileset{
		FirstGID:   1,
		Name:       "chunks",
		TileWidth:  tileSize,
		TileHeight: tileSize,
		Tiles:      []*tmxTile{},
	}

	// one tile per distinct source, ids in grid order
	idBySrc := map[string]uint{}
	gids := make([]uint, g.Width*g.Height)
	for _, c := range g.Coords() {
		cell := g.At(c.X, c.Y)
		src := cell.Source
		if src == "" {
			src = ChunkName(c.X, c.Y)
		}
		src = path.Join(filepath.ToSlash(imageDir), src)

		id, ok := idBySrc[src]
		if !ok {
			id = uint(len(ts.Tiles))
			idBySrc[src] = id
			b := cell.Image.Bounds()
			ts.Tiles = append(ts.Tiles, &tmxTile{
				ID:    id,
				Image: &tmxImage{Source: src, Width: b.Dx(), Height: b.Dy()},
			})
		}
		// the reverse of index = y * width + x
		gids[c.Y*g.Width+c.X] = id + ts.FirstGID
	}
	ts.TileCount = len(ts.Tiles)

	m := &tmxMap{
		Version:      "1.2",
		Orientation:  "orthogonal",
		RenderOrder:  "right-down",
		Width:        g.Width,
		Height:       g.Height,
		TileWidth:    tileSize,
		TileHeight:   tileSize,
		NextObjectID: 1,
		Tilesets:     []*tmxTileset{ts},
		Layers: []*tmxLayer{{
			ID:     1,
			Name:   "chunks",
			Width:  g.Width,
			Height: g.Height,
			Data:   tmxData{Encoding: "csv", RawData: encodeCSV(g.Width, g.Height, gids)},
		}},
	}

	if world != nil {
		m.Properties = []*tmxProperty{
			{Name: "islands", Value: strconv.Itoa(len(world.Islands)), Type: "int"},
			{Name: "cities", Value: strconv.Itoa(world.Cities()), Type: "int"},
		}

		group := &tmxObjectGroup{ID: 2, Name: "cities", Objects: []*tmxObject{}}
		for _, is := range world.Islands {
			for _, c := range is.CitySlots {
				group.Objects = append(group.Objects, &tmxObject{
					ID:   uint(m.NextObjectID),
					Name: fmt.Sprintf("city %d", m.NextObjectID),
					X:    c.X,
					Y:    c.Y,
					Properties: []*tmxProperty{
						{Name: "region_id", Value: strconv.Itoa(is.RegionID), Type: "int"},
					},
					Point: &struct{}{},
				})
				m.NextObjectID++
			}
		}
		m.ObjectGroups = []*tmxObjectGroup{group}
	}

	_, err := io.WriteString(w, xml.Header)
	if err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	return enc.Encode(m)
}

// WriteTMX is EncodeTMX to a file on disk. Image sources are made relative to
// the map file, given the folder the chunks were loaded from.
func WriteTMX(fpath string, g *Grid, tileSize int, world *World, chunkDir string) error {
	imageDir, err := filepath.Rel(filepath.Dir(fpath), chunkDir)
	if err != nil {
		// eg. one path is absolute & the other isn't
		imageDir, err = filepath.Abs(chunkDir)
		if err != nil {
			return err
		}
	}

	buff := bytes.Buffer{}
	err = EncodeTMX(&buff, g, tileSize, world, imageDir)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// encodeCSV lays tile ids out one map row per line
func encodeCSV(width, height int, in []uint) []byte {
	values := make([]string, height)

	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.Itoa(int(in[row*width+col]))
		}
		values[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(values, ",\n") + "\n")
}
