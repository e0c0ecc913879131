package keyring

import (
	"gopkg.in/op/go-logging.v1"

	"confidant/internal/log"
	"confidant/internal/protocol/ratchet"
)

const (
	// DefaultLowWaterMark is the pool size below which a Counselor asks to be
	// replenished.
	DefaultLowWaterMark = 20

	// DefaultMaxPoolSize caps the number of one-time keys a Counselor holds.
	DefaultMaxPoolSize = 1000
)

type options struct {
	log          *logging.Logger
	maxLookahead int
	lowWaterMark int
	maxPoolSize  int
}

// Option configures a Guest or a Counselor.
type Option func(*options)

// WithLogger sets the logger. Keyrings log fingerprints, never keys.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxLookahead bounds the reordering tolerated by session decryptors.
func WithMaxLookahead(n int) Option {
	return func(o *options) { o.maxLookahead = n }
}

// WithLowWaterMark sets the threshold used by NeedsReplenish.
func WithLowWaterMark(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.lowWaterMark = n
		}
	}
}

// WithMaxPoolSize caps the one-time pool. Replenish refuses to grow the pool
// past n.
func WithMaxPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPoolSize = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		maxLookahead: ratchet.DefaultMaxLookahead,
		lowWaterMark: DefaultLowWaterMark,
		maxPoolSize:  DefaultMaxPoolSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = log.Discard("keyring")
	}
	return o
}
