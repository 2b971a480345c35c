package index

import "context"

const DefaultMetric = "cosine"

type Option func(*Options)

type Options struct {
	Name     string
	Metric   string
	Location string
	ApiKey   string
	Cloud    string
	Region   string
	Context  context.Context
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithMetric(metric string) Option {
	return func(o *Options) {
		o.Metric = metric
	}
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithCloud(cloud string, region string) Option {
	return func(o *Options) {
		o.Cloud = cloud
		o.Region = region
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Metric:  DefaultMetric,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
