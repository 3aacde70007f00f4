package chunkview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkName(t *testing.T) {
	cases := []struct {
		Name   string
		Expect Coord
		OK     bool
	}{
		{"chunk_0_0.png", Coord{0, 0}, true},
		{"chunk_12_3.png", Coord{12, 3}, true},
		{"chunk_007_1.png", Coord{7, 1}, true},
		{"chunk_1.png", Coord{}, false},
		{"chunk_1_2_3.png", Coord{}, false},
		{"chunk_-1_2.png", Coord{}, false},
		{"chunk_a_b.png", Coord{}, false},
		{"chunk_1_2.jpg", Coord{}, false},
		{"chunk_1_2.png.bak", Coord{}, false},
		{"xchunk_1_2.png", Coord{}, false},
		{"chunk_99999999999999999999_1.png", Coord{}, false},
	}

	for _, tt := range cases {
		c, ok := ParseChunkName(tt.Name)
		assert.Equal(t, tt.OK, ok, tt.Name)
		assert.Equal(t, tt.Expect, c, tt.Name)
	}
}

func TestChunkNameRoundTrip(t *testing.T) {
	c, ok := ParseChunkName(ChunkName(4, 9))
	assert.True(t, ok)
	assert.Equal(t, Coord{4, 9}, c)
}

func TestLoadChunks(t *testing.T) {
	dir := threeChunks(t, 10)

	g, err := LoadChunks(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, 3, g.Populated())
	assert.Equal(t, []Coord{{0, 0}, {1, 0}, {0, 1}}, g.Coords())
	assert.True(t, g.At(1, 1).Empty())

	assert.Equal(t, colB, g.At(1, 0).Image.At(0, 0))
	assert.Equal(t, "chunk_0_1.png", g.At(0, 1).Source)
}

func TestLoadChunksSparse(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 4, 0, 5, colA)
	writeChunk(t, dir, 0, 2, 5, colB)

	g, err := LoadChunks(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, g.Width)
	assert.Equal(t, 3, g.Height)
	assert.Equal(t, 2, g.Populated())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			present := (x == 4 && y == 0) || (x == 0 && y == 2)
			assert.Equal(t, present, !g.At(x, y).Empty(), "(%d,%d)", x, y)
		}
	}
}

func TestLoadChunksIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 0, 0, 5, colA)
	writeText(t, filepath.Join(dir, "notes.txt"), "hello")
	writeText(t, filepath.Join(dir, "chunk_9_9.png.bak"), "not an image")
	require.NoError(t, WriteFile(filepath.Join(dir, "chunk_5_5.jpg"), solid(5, 5, colB)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "chunk_3_3.png"), 0755))

	g, err := LoadChunks(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, g.Width)
	assert.Equal(t, 1, g.Height)
	assert.Equal(t, 1, g.Populated())
}

func TestLoadChunksDuplicateCoords(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(filepath.Join(dir, "chunk_01_0.png"), solid(5, 5, colA)))
	require.NoError(t, WriteFile(filepath.Join(dir, "chunk_1_0.png"), solid(5, 5, colB)))

	g, err := LoadChunks(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Width)
	assert.Equal(t, 1, g.Populated())
	// chunk_1_0.png sorts after chunk_01_0.png so it wins
	assert.Equal(t, colB, g.At(1, 0).Image.At(0, 0))
}

func TestLoadChunksNoData(t *testing.T) {
	_, err := LoadChunks(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, ErrNoChunks))

	dir := t.TempDir()
	writeText(t, filepath.Join(dir, "readme.md"), "# nothing here")
	_, err = LoadChunks(dir)
	assert.True(t, errors.Is(err, ErrNoChunks))
}

func TestLoadChunksCorrupt(t *testing.T) {
	dir := t.TempDir()
	writeChunk(t, dir, 0, 0, 5, colA)
	writeText(t, filepath.Join(dir, "chunk_1_0.png"), "definitely not a png")

	_, err := LoadChunks(dir)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoChunks))
	assert.Contains(t, err.Error(), "chunk_1_0.png")
}

func TestLoadChunksHugeCoords(t *testing.T) {
	for _, name := range []string{
		"chunk_4294967295_4294967295.png",
		"chunk_100000_100000.png",
		"chunk_0_1048576.png",
	} {
		dir := t.TempDir()
		writeChunk(t, dir, 0, 0, 5, colA)
		require.NoError(t, WriteFile(filepath.Join(dir, name), solid(5, 5, colB)))

		var err error
		assert.NotPanics(t, func() { _, err = LoadChunks(dir) }, name)
		assert.True(t, errors.Is(err, ErrTooLarge), name)
		assert.False(t, errors.Is(err, ErrNoChunks), name)
	}
}
