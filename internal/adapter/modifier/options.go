package modifier

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithComparer sets the comparer used by $addToSet, $pullAll and the _id
// check.
func WithComparer(c domain.Comparer) Option {
	return func(m *Modifier) {
		m.comp = c
	}
}

// WithDocumentFactory sets the factory used to copy documents.
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(m *Modifier) {
		m.docFac = df
	}
}

// WithFieldNavigator sets the field navigator used to resolve fields.
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(m *Modifier) {
		m.fieldNavigator = fn
	}
}

// WithMatcher sets the matcher used by $pull.
func WithMatcher(mt domain.Matcher) Option {
	return func(m *Modifier) {
		m.matcher = mt
	}
}

// Option configures modifier behavior through the functional options pattern.
type Option func(*Modifier)
