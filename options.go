package ragchat

import (
	"time"

	"github.com/w-h-a/ragchat/chunker"
	"github.com/w-h-a/ragchat/chunker/character"
	"github.com/w-h-a/ragchat/extractor"
	"github.com/w-h-a/ragchat/extractor/pdftotext"
	"github.com/w-h-a/ragchat/extractor/plain"
)

type Option func(*Options)

type Options struct {
	Extractors map[string]extractor.Extractor
	Chunker    chunker.Chunker
	Workers    int
	BatchSize  int
	Timeout    time.Duration
	TopK       int
	Policy     string
	Topic      string
}

// WithExtractor registers an extractor for a file extension, for
// example ".pdf". The empty extension is the fallback for files whose
// extension has no extractor of its own.
func WithExtractor(ext string, e extractor.Extractor) Option {
	return func(o *Options) {
		if e != nil {
			o.Extractors[ext] = e
		}
	}
}

func WithChunker(c chunker.Chunker) Option {
	return func(o *Options) {
		if c != nil {
			o.Chunker = c
		}
	}
}

func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

func WithBatchSize(size int) Option {
	return func(o *Options) {
		o.BatchSize = size
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

func WithPolicy(policy string) Option {
	return func(o *Options) {
		o.Policy = policy
	}
}

func WithTopic(topic string) Option {
	return func(o *Options) {
		o.Topic = topic
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Extractors: map[string]extractor.Extractor{
			".pdf": pdftotext.NewExtractor(),
			"":     plain.NewExtractor(),
		},
		Chunker: character.NewChunker(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	return options
}
