package idgenerator

import "io"

// WithReader sets the source of randomness used to generate ids.
func WithReader(r io.Reader) Option {
	return func(g *IDGenerator) {
		g.reader = r
	}
}

// Option configures id generation through the functional options pattern.
type Option func(*IDGenerator)
