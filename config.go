package chunkview

import (
	"image/color"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Config includes settings for loading & rendering a chunk folder
type Config struct {
	// where chunk_<x>_<y>.png files live
	Folder string `yaml:"folder"`

	// world save with islands & city slots (json or yaml)
	DataFile string `yaml:"data_file"`

	// in pixels, the stride between chunks on the canvas
	TileSize int `yaml:"tile_size"`

	// canvas colour where no chunk is set (a name from x/image/colornames)
	Background string `yaml:"background"`

	// city marker
	MarkerRadius float64 `yaml:"marker_radius"`
	MarkerColor  string  `yaml:"marker_color"`

	// how many islands the summary reports
	TopIslands int `yaml:"top_islands"`

	// longest side (px) of the image sent to the viewer, 0 means no limit
	MaxViewSide int `yaml:"max_view_side"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		Folder:       "chunks",
		DataFile:     "world.json",
		TileSize:     250,
		Background:   "black",
		MarkerRadius: 3,
		MarkerColor:  "red",
		TopIslands:   5,
		MaxViewSide:  4096,
	}
}

// LoadConfig reads a yaml config file over the defaults.
// Unset keys keep their default values.
func LoadConfig(fpath string) (*Config, error) {
	cfg := DefaultConfig()

	fpath, err := homedir.Expand(fpath)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", fpath)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fpath)
	}

	return cfg, cfg.Validate()
}

// Validate checks values we can't render with
func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return errors.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.MarkerRadius < 0 {
		return errors.Errorf("marker radius must not be negative, got %v", c.MarkerRadius)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return err
	}
	if _, err := ParseColor(c.MarkerColor); err != nil {
		return err
	}
	return nil
}

// ExpandPaths replaces a leading ~ in Folder & DataFile with the users home dir
func (c *Config) ExpandPaths() error {
	var err error
	c.Folder, err = homedir.Expand(c.Folder)
	if err != nil {
		return err
	}
	c.DataFile, err = homedir.Expand(c.DataFile)
	return err
}

// MarkerStyle returns the marker settings of this config
// (the default colour if MarkerColor is unknown)
func (c *Config) MarkerStyle() MarkerStyle {
	style := DefaultMarkerStyle()
	style.Radius = c.MarkerRadius

	col, err := ParseColor(c.MarkerColor)
	if err == nil {
		style.Color = col
	}
	return style
}

// BackgroundColor returns the canvas fill (black if the name is unknown)
func (c *Config) BackgroundColor() color.Color {
	col, err := ParseColor(c.Background)
	if err != nil {
		return color.Black
	}
	return col
}

// ParseColor accepts an SVG colour name ("red") or a hex value ("#ff0000").
func ParseColor(in string) (color.RGBA, error) {
	in = strings.ToLower(strings.TrimSpace(in))
	if c, ok := colornames.Map[in]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(in, "#")
	if len(hex) != 6 {
		return color.RGBA{}, errors.Errorf("unknown colour %q", in)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Errorf("unknown colour %q", in)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
