package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/chunkview"
	"github.com/voidshard/chunkview/internal/ctxlog"
	"github.com/voidshard/chunkview/internal/viewer"
)

const desc = `Stitches a folder of map chunks (chunk_<x>_<y>.png) back into one image.

Chunks are placed on a grid by the x,y in their filename, each taking up tile-size
pixels. Cities from the world data file can be drawn on top & the islands with the
most cities reported. Without --output the result is shown in your browser; the
command returns once the page is closed.`

const defaultConfig = "~/.chunkview.yaml"

var cli struct {
	// settings file, flags given on the command line win
	Config string `short:"c" help:"yaml config file (default ~/.chunkview.yaml if it exists)"`

	Verbose bool `short:"v" help:"debug logging"`

	Show  showCmd  `cmd:"" default:"withargs" help:"stitch chunks & show or save the result"`
	Split splitCmd `cmd:"" help:"cut a large image into chunk files"`
}

type showCmd struct {
	Folder   string `arg:"" optional:"" help:"folder holding chunk_<x>_<y>.png files (default: chunks)"`
	Data     string `short:"d" help:"world data file with islands & city slots (default: world.json)"`
	TileSize int    `short:"t" help:"chunk size in px (default: 250)"`

	NoCities bool `help:"don't draw city markers"`
	Islands  bool `help:"print the islands with the most cities"`

	// where to write the image, instead of showing it
	Output      string `short:"o" help:"save the stitched image here (.png or .jpg) instead of displaying it"`
	SaveMarkers bool   `help:"also draw city markers into the --output file"`
	TMX         string `help:"also write a Tiled .tmx map of the chunk layout"`

	Addr string `default:"127.0.0.1:0" help:"address the viewer listens on"`
}

type splitCmd struct {
	Input     string `arg:"" help:"image to cut up"`
	Folder    string `short:"f" help:"where to write chunks (default: chunks)"`
	TileSize  int    `short:"t" help:"chunk size in px (default: 250)"`
	Overwrite bool   `help:"overwrite existing chunk file(s) if found"`
	DryRun    bool   `help:"print out what you're planning"`
}

func (s *showCmd) Run(ctx context.Context, cfg *chunkview.Config) error {
	if s.Folder != "" {
		cfg.Folder = s.Folder
	}
	if s.Data != "" {
		cfg.DataFile = s.Data
	}
	if s.TileSize != 0 {
		cfg.TileSize = s.TileSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}

	output, err := homedir.Expand(s.Output)
	if err != nil {
		return err
	}
	tmx, err := homedir.Expand(s.TMX)
	if err != nil {
		return err
	}

	v := viewer.New("chunkview: " + cfg.Folder)
	v.Addr = s.Addr

	p := &chunkview.Pipeline{
		Config:      cfg,
		Output:      output,
		Markers:     !s.NoCities,
		Summary:     s.Islands,
		SaveMarkers: s.SaveMarkers,
		Display:     v,
		TMX:         tmx,
		Report:      os.Stdout,
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if res.Canvas == nil {
		fmt.Println("No chunk files found.")
	}
	return nil
}

func (s *splitCmd) Run(ctx context.Context, cfg *chunkview.Config) error {
	log := ctxlog.FromContext(ctx)

	if s.Folder != "" {
		cfg.Folder = s.Folder
	}
	if s.TileSize != 0 {
		cfg.TileSize = s.TileSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}

	input, err := homedir.Expand(s.Input)
	if err != nil {
		return err
	}
	in, err := chunkview.OpenImage(input)
	if err != nil {
		return err
	}

	b := in.Bounds()
	wide := (b.Dx() + cfg.TileSize - 1) / cfg.TileSize
	high := (b.Dy() + cfg.TileSize - 1) / cfg.TileSize
	fmt.Printf("read %dx%d px from %s, making %dx%d chunks of %dpx in %s\n", b.Dx(), b.Dy(), input, wide, high, cfg.TileSize, cfg.Folder)

	if s.DryRun {
		fmt.Println("dry-run detected: doing nothing")
		return nil
	}

	res, err := chunkview.Split(in, cfg.TileSize, cfg.Folder, s.Overwrite)
	if err != nil {
		return err
	}
	for _, fname := range res.Skipped {
		fmt.Println("skipping", fname, "exists")
	}
	log.Info("split image", "written", len(res.Written), "skipped", len(res.Skipped))
	return nil
}

// loadConfig reads the --config file, or the default one if it's there
func loadConfig(fpath string) (*chunkview.Config, error) {
	if fpath != "" {
		return chunkview.LoadConfig(fpath)
	}

	def, err := homedir.Expand(defaultConfig)
	if err != nil {
		return chunkview.DefaultConfig(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return chunkview.DefaultConfig(), nil
	}
	return chunkview.LoadConfig(def)
}

func main() {
	kctx := kong.Parse(
		&cli,
		kong.Name("chunkview"),
		kong.Description(desc),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	cfg, err := loadConfig(cli.Config)
	kctx.FatalIfErrorf(err)

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(cfg)
	kctx.FatalIfErrorf(err)
}
