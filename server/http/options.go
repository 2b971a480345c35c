package http

import "net/http"

const DefaultAddress = ":8080"

type Option func(*Options)

type Options struct {
	Address    string
	Middleware []func(h http.Handler) http.Handler
}

func WithAddress(address string) Option {
	return func(o *Options) {
		if len(address) > 0 {
			o.Address = address
		}
	}
}

func WithMiddleware(ms ...func(h http.Handler) http.Handler) Option {
	return func(o *Options) {
		for _, m := range ms {
			o.Middleware = append(o.Middleware, m)
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address: DefaultAddress,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
