package chunker

const (
	DefaultMaxSize = 800
	DefaultOverlap = 100
)

type Option func(*Options)

type Options struct {
	MaxSize int
	Overlap int
}

func WithMaxSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.MaxSize = size
		}
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		if overlap >= 0 {
			o.Overlap = overlap
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxSize: DefaultMaxSize,
		Overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Overlap >= options.MaxSize {
		options.Overlap = options.MaxSize / 4
	}
	return options
}
