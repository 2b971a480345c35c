package extractor

import "context"

type Option func(*Options)

type Options struct {
	Binary  string
	Context context.Context
}

func WithBinary(binary string) Option {
	return func(o *Options) {
		o.Binary = binary
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
