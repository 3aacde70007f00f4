package chunkview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawMarkers(t *testing.T) {
	canvas := solid(100, 100, colB)

	DrawMarkers(canvas, []image.Point{{50, 50}, {10, 80}}, MarkerStyle{Radius: 3, Color: red})

	assert.Equal(t, red, canvas.RGBAAt(50, 50))
	assert.Equal(t, red, canvas.RGBAAt(51, 50))
	assert.Equal(t, red, canvas.RGBAAt(50, 48))
	assert.Equal(t, red, canvas.RGBAAt(10, 80))

	// well outside the radius
	assert.Equal(t, colB, canvas.RGBAAt(50, 56))
	assert.Equal(t, colB, canvas.RGBAAt(44, 50))
	assert.Equal(t, colB, canvas.RGBAAt(0, 0))
}

func TestDrawMarkersClipped(t *testing.T) {
	canvas := solid(20, 20, colB)

	assert.NotPanics(t, func() {
		DrawMarkers(canvas, []image.Point{{0, 0}, {19, 19}, {-50, 5}, {500, 500}}, DefaultMarkerStyle())
	})
	assert.Equal(t, red, canvas.RGBAAt(0, 0))
	assert.Equal(t, red, canvas.RGBAAt(19, 19))
	assert.Equal(t, colB, canvas.RGBAAt(10, 10))
}

func TestDrawMarkersZeroRadius(t *testing.T) {
	canvas := solid(10, 10, colB)

	DrawMarkers(canvas, []image.Point{{3, 4}, {-1, 0}}, MarkerStyle{Color: red})

	assert.Equal(t, red, canvas.RGBAAt(3, 4))
	assert.Equal(t, colB, canvas.RGBAAt(4, 4))
}

func TestOverlayLeavesCanvas(t *testing.T) {
	w, err := DecodeWorld([]byte(oneCityWorld), ".json")
	require.NoError(t, err)

	canvas := solid(100, 100, colA)
	before := append([]uint8{}, canvas.Pix...)

	out := Overlay(canvas, w, DefaultMarkerStyle(), w.TopIslands(5))

	assert.Equal(t, before, canvas.Pix)
	assert.Equal(t, red, out.RGBAAt(50, 50))
	assert.NotEqual(t, canvas.Pix, out.Pix)
}

func TestDrawLabels(t *testing.T) {
	w, err := DecodeWorld([]byte(oneCityWorld), ".json")
	require.NoError(t, err)

	canvas := solid(100, 100, colA)
	DrawLabels(canvas, w, w.TopIslands(5))

	// some text was written in the band above the city
	changed := 0
	for y := 30; y < 45; y++ {
		for x := 20; x < 80; x++ {
			if canvas.RGBAAt(x, y) != colA {
				changed++
			}
		}
	}
	assert.True(t, changed > 0)
	assert.Equal(t, colA, canvas.RGBAAt(50, 50))

	// nothing to label
	untouched := solid(10, 10, colA)
	DrawLabels(untouched, nil, nil)
	assert.Equal(t, colA, untouched.RGBAAt(5, 5))
}

func TestMarkersOnCanvas(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	pts := []image.Point{
		{50, 50},
		{-2, 50},  // hangs over the left edge
		{101, 99}, // hangs over the right edge
		{-10, 50},
		{500, 500},
	}

	assert.Equal(t, 3, MarkersOnCanvas(bounds, pts, MarkerStyle{Radius: 3}))
	assert.Equal(t, 1, MarkersOnCanvas(bounds, pts, MarkerStyle{}))
	assert.Equal(t, 0, MarkersOnCanvas(bounds, nil, DefaultMarkerStyle()))
}
