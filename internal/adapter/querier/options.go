package querier

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithMatcher sets the [domain.Matcher] used to filter documents.
func WithMatcher(m domain.Matcher) Option {
	return func(q *Querier) {
		q.mtchr = m
	}
}

// WithComparer sets the [domain.Comparer] used to sort documents.
func WithComparer(c domain.Comparer) Option {
	return func(q *Querier) {
		q.cmpr = c
	}
}

// WithFieldNavigator sets the [domain.FieldNavigator] that will be used by
// [Querier].
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(q *Querier) {
		q.fn = fn
	}
}

// WithProjector sets the [domain.Projector] applied to the results.
func WithProjector(p domain.Projector) Option {
	return func(q *Querier) {
		q.proj = p
	}
}

// WithDocumentFactory sets the [domain.Document] factory function that will be
// used by [Querier].
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(q *Querier) {
		q.docFac = df
	}
}

// Option configures querier behavior through the functional options pattern.
type Option func(*Querier)
