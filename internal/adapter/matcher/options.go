package matcher

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithDocumentFactory sets the document factory for creating documents during
// matching.
func WithDocumentFactory(d domain.DocumentFactory) Option {
	return func(m *Matcher) {
		m.documentFactory = d
	}
}

// WithComparer sets the comparer implementation for value comparisons during
// matching.
func WithComparer(c domain.Comparer) Option {
	return func(m *Matcher) {
		m.comparer = c
	}
}

// WithFieldNavigator sets the field navigator for accessing document fields
// during matching.
func WithFieldNavigator(f domain.FieldNavigator) Option {
	return func(m *Matcher) {
		m.fieldNavigator = f
	}
}

// Option configures matcher behavior through the functional options pattern.
type Option func(*Matcher)
