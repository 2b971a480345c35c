package plain

import (
	"context"
	"io"

	"github.com/w-h-a/ragchat/extractor"
)

type plainExtractor struct {
	options extractor.Options
}

func (e *plainExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	return &plainExtractor{
		options: options,
	}
}
