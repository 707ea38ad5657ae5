package provider

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultConcurrency bounds how many automations are fetched at once.
	DefaultConcurrency = 4
	// DefaultRequestTimeout bounds a single backend request.
	DefaultRequestTimeout = 15 * time.Second
	// DefaultUserAgent identifies the client to CI backends.
	DefaultUserAgent = "devopswatch"
)

// Options holds the settings shared by every backend adapter.
type Options struct {
	Concurrency    int
	RequestTimeout time.Duration
	UserAgent      string
	// HTTPClient must be safe for concurrent use; nil means a fresh client.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// WithDefaults returns a copy of o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return o
}
