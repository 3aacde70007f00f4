package chunkview

import (
	"context"
	"image"
)

// Displayer shows a finished canvas to a user
type Displayer interface {
	// Display blocks until the user is done looking at `im`
	// (or ctx is cancelled).
	Display(ctx context.Context, im image.Image) error
}

// DisplayFunc adapts a plain function to a Displayer
type DisplayFunc func(ctx context.Context, im image.Image) error

// Display calls f(ctx, im)
func (f DisplayFunc) Display(ctx context.Context, im image.Image) error {
	return f(ctx, im)
}
