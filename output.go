package chunkview

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Encode writes `in` to `w` in the format implied by ext (".png", ".jpg", ".jpeg").
// An empty ext means png.
func Encode(w io.Writer, ext string, in image.Image) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, in)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, in, &jpeg.Options{Quality: 95})
	default:
		return errors.Errorf("unsupported output format %q", ext)
	}
}

// WriteFile encodes `in` by the extension of fpath & writes it to disk
func WriteFile(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := Encode(buff, filepath.Ext(fpath), in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// Thumbnail shrinks `in` so neither side exceeds maxSide, keeping the aspect
// ratio. Images that already fit (or maxSide <= 0) are returned as is.
func Thumbnail(in image.Image, maxSide int) image.Image {
	b := in.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return in
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), in, resize.Lanczos3)
}
