package sdk

import (
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// Every velocity tool recomputes the projection from local files, so a call
// that has not answered within a few seconds is stuck, not busy.
const (
	defaultTimeout      = 10 * time.Second
	defaultMaxAttempts  = 3
	defaultInitialDelay = 200 * time.Millisecond
)

type options struct {
	timeout      time.Duration
	maxAttempts  int
	initialDelay time.Duration
	schemaCheck  bool
}

func defaultOptions() options {
	return options{
		timeout:      defaultTimeout,
		maxAttempts:  defaultMaxAttempts,
		initialDelay: defaultInitialDelay,
	}
}

func (o options) retryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:   max(1, o.maxAttempts),
		InitialDelay:  o.initialDelay,
		BackoffPolicy: retry.BackoffExponential,
	}
}

// Option configures the SDK client.
type Option func(*options)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetry configures retry of transport failures. Attempts below one are
// treated as one. Tool errors are never retried.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *options) {
		o.maxAttempts = maxAttempts
		o.initialDelay = initialDelay
	}
}

// WithSchemaCheck makes Initialize fail when the server's tool schema has a
// different major version than this SDK.
func WithSchemaCheck() Option {
	return func(o *options) { o.schemaCheck = true }
}
