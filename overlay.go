package chunkview

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// MarkerStyle is how a city is drawn
type MarkerStyle struct {
	Radius float64
	Color  color.Color
}

// DefaultMarkerStyle matches the red dots the world generator stamps into chunks
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{Radius: 3, Color: color.RGBA{R: 255, A: 255}}
}

// DrawMarkers draws a filled circle centred on each point.
// Points are canvas pixels, nothing is scaled. Markers hanging off the
// canvas edge are clipped.
func DrawMarkers(canvas *image.RGBA, pts []image.Point, style MarkerStyle) {
	if len(pts) == 0 {
		return
	}
	if style.Color == nil {
		style.Color = DefaultMarkerStyle().Color
	}

	if style.Radius <= 0 {
		for _, p := range pts {
			if p.In(canvas.Bounds()) {
				canvas.Set(p.X, p.Y, style.Color)
			}
		}
		return
	}

	dc := gg.NewContextForRGBA(canvas)
	dc.SetColor(style.Color)
	for _, p := range pts {
		// +0.5 puts the circle centre in the middle of the pixel
		dc.DrawCircle(float64(p.X)+0.5, float64(p.Y)+0.5, style.Radius)
	}
	dc.Fill()
}

// MarkersOnCanvas returns how many of the markers DrawMarkers would draw for
// `pts` reach into `bounds`. Markers entirely off the canvas aren't counted.
func MarkersOnCanvas(bounds image.Rectangle, pts []image.Point, style MarkerStyle) int {
	r := 0
	if style.Radius > 0 {
		r = int(math.Ceil(style.Radius))
	}

	n := 0
	for _, p := range pts {
		box := image.Rect(p.X-r, p.Y-r, p.X+r+1, p.Y+r+1)
		if box.Overlaps(bounds) {
			n++
		}
	}
	return n
}

// DrawLabels writes "#<region> (<cities>)" just above the first city of each
// summarised island. Islands without cities get no label.
func DrawLabels(canvas *image.RGBA, w *World, summaries []IslandSummary) {
	if w == nil || len(summaries) == 0 {
		return
	}

	dc := gg.NewContextForRGBA(canvas)
	dc.SetFontFace(basicfont.Face7x13)

	for _, s := range summaries {
		is := w.Island(s.RegionID)
		if is == nil || len(is.CitySlots) == 0 {
			continue
		}
		c := is.CitySlots[0]
		text := fmt.Sprintf("#%d (%d)", s.RegionID, s.Cities)
		x, y := float64(c.X), float64(c.Y-6)

		// outline
		dc.SetColor(color.Black)
		for _, d := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			dc.DrawStringAnchored(text, x+d[0], y+d[1], 0.5, 0)
		}
		dc.SetColor(color.White)
		dc.DrawStringAnchored(text, x, y, 0.5, 0)
	}
}

// Overlay returns a copy of `canvas` with city markers (and optionally labels
// for the given summaries) drawn on. `canvas` itself is not changed.
func Overlay(canvas *image.RGBA, w *World, style MarkerStyle, summaries []IslandSummary) *image.RGBA {
	out := clone(canvas)
	if w == nil {
		return out
	}
	DrawMarkers(out, w.Points(), style)
	DrawLabels(out, w, summaries)
	return out
}
