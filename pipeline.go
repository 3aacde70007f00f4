package chunkview

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/voidshard/chunkview/internal/ctxlog"
)

// Pipeline is one run: load chunks, stitch them, maybe overlay cities, then
// save or display the result.
type Pipeline struct {
	Config *Config

	// Output is where to save the canvas. Empty means display it instead.
	Output string

	// draw city markers from Config.DataFile
	Markers bool

	// report the islands with the most cities
	Summary bool

	// also draw markers into the saved file (by default only the
	// displayed image has them)
	SaveMarkers bool

	// required when Output is empty
	Display Displayer

	// also write a Tiled (.tmx) map of the chunk layout here
	TMX string

	// where the summary is printed; nil discards it
	Report io.Writer
}

// Result describes what a run produced
type Result struct {
	// nil if no chunks were found
	Grid *Grid

	// the stitched chunks without any overlay
	Canvas *image.RGBA

	// the image that was saved or displayed
	Rendered image.Image

	// number of city markers drawn on Rendered, not counting any that fell
	// entirely off the canvas
	Markers int

	Summaries []IslandSummary
}

// Run executes the pipeline. Finding no chunks isn't an error: Run logs a
// notice & returns an empty Result without composing or displaying anything.
// A missing world file only disables markers & the summary.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	report := p.Report
	if report == nil {
		report = ioutil.Discard
	}
	if p.Output == "" && p.Display == nil {
		return nil, errors.New("no output file given & no display configured")
	}

	res := &Result{}

	grid, err := LoadChunks(cfg.Folder)
	if errors.Is(err, ErrNoChunks) {
		log.Warn("no chunk files found, nothing to do", "folder", cfg.Folder)
		return res, nil
	} else if err != nil {
		return nil, err
	}
	res.Grid = grid
	log.Info("loaded chunks", "folder", cfg.Folder, "width", grid.Width, "height", grid.Height, "chunks", grid.Populated())

	res.Canvas, err = Compose(grid, cfg.TileSize, cfg.BackgroundColor())
	if err != nil {
		return nil, err
	}

	var world *World
	if p.Markers || p.Summary {
		world, err = LoadWorld(cfg.DataFile)
		if errors.Is(err, ErrNoWorld) {
			log.Warn("world data file not found, city markers disabled", "file", cfg.DataFile)
			world = nil
		} else if err != nil {
			return nil, err
		} else {
			log.Info("loaded world", "file", cfg.DataFile, "islands", len(world.Islands), "cities", world.Cities())
		}
	}

	if p.Summary && world != nil {
		res.Summaries = world.TopIslands(cfg.TopIslands)
		writeSummary(report, res.Summaries)
	}

	markers := p.Markers && world != nil
	style := cfg.MarkerStyle()

	if p.TMX != "" {
		var cities *World
		if markers {
			cities = world
		}
		err = WriteTMX(p.TMX, grid, cfg.TileSize, cities, cfg.Folder)
		if err != nil {
			return nil, errors.Wrapf(err, "saving %s", p.TMX)
		}
		log.Info("saved tmx map", "file", p.TMX)
	}

	if p.Output != "" {
		res.Rendered = res.Canvas
		if markers && p.SaveMarkers {
			res.Rendered = Overlay(res.Canvas, world, style, nil)
			res.Markers = MarkersOnCanvas(res.Canvas.Bounds(), world.Points(), style)
		}

		err = WriteFile(p.Output, res.Rendered)
		if err != nil {
			return nil, errors.Wrapf(err, "saving %s", p.Output)
		}
		log.Info("saved canvas", "file", p.Output, "markers", res.Markers)
		return res, nil
	}

	var rendered *image.RGBA
	if markers {
		rendered = Overlay(res.Canvas, world, style, res.Summaries)
		res.Markers = MarkersOnCanvas(res.Canvas.Bounds(), world.Points(), style)
	} else {
		rendered = clone(res.Canvas)
	}
	res.Rendered = rendered

	view := Thumbnail(rendered, cfg.MaxViewSide)
	if view != image.Image(rendered) {
		b := view.Bounds()
		log.Info("scaled canvas for display", "width", b.Dx(), "height", b.Dy())
	}

	return res, p.Display.Display(ctx, view)
}

// writeSummary prints the island report
func writeSummary(w io.Writer, in []IslandSummary) {
	fmt.Fprintf(w, "top %d islands by city count:\n", len(in))
	for i, s := range in {
		fmt.Fprintf(w, "%2d. island %d: %d cities\n", i+1, s.RegionID, s.Cities)
	}
}
