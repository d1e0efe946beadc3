package caption

import "context"

// Provider produces a one-line caption for an image raster.
type Provider interface {
	Caption(ctx context.Context, raster []byte, mimeType string) (string, error)
}
