package repository

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// WithQueryTranslator sets the [domain.QueryTranslator] used to compile
// queries.
func WithQueryTranslator(t domain.QueryTranslator) Option {
	return func(r *Repository) {
		r.queryTranslator = t
	}
}

// WithUpdatesTranslator sets the [domain.UpdatesTranslator] used to compile
// updates.
func WithUpdatesTranslator(t domain.UpdatesTranslator) Option {
	return func(r *Repository) {
		r.updatesTranslator = t
	}
}

// WithQuerier sets the [domain.Querier] used by finds.
func WithQuerier(q domain.Querier) Option {
	return func(r *Repository) {
		r.querier = q
	}
}

// WithMatcher sets the [domain.Matcher] used by counts, updates and deletes.
func WithMatcher(m domain.Matcher) Option {
	return func(r *Repository) {
		r.matcher = m
	}
}

// WithModifier sets the [domain.Modifier] used by updates.
func WithModifier(m domain.Modifier) Option {
	return func(r *Repository) {
		r.modifier = m
	}
}

// WithDecoder sets the [domain.Decoder] used to fill find targets.
func WithDecoder(d domain.Decoder) Option {
	return func(r *Repository) {
		r.decoder = d
	}
}

// WithIDGenerator sets the [domain.IDGenerator] used for documents saved
// without _id.
func WithIDGenerator(g domain.IDGenerator) Option {
	return func(r *Repository) {
		r.idGenerator = g
	}
}

// WithSerializer sets the serializer used to write exported documents.
func WithSerializer(sr domain.Serializer) Option {
	return func(r *Repository) {
		r.serializer = sr
	}
}

// WithComparer sets the [domain.Comparer] used to compare ids and values.
func WithComparer(c domain.Comparer) Option {
	return func(r *Repository) {
		r.comparer = c
	}
}

// WithFieldNavigator sets the [domain.FieldNavigator] that will be used by
// [Repository].
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(r *Repository) {
		r.fieldNavigator = fn
	}
}

// WithDocumentFactory sets the [domain.Document] factory function that will be
// used by [Repository].
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(r *Repository) {
		r.documentFactory = df
	}
}

// WithDefaultCollection sets the collection used by calls without
// [domain.WithCollection].
func WithDefaultCollection(name string) Option {
	return func(r *Repository) {
		if name != "" {
			r.defaultCollection = name
		}
	}
}

// WithDefaultReadPreference sets the read preference of queries that do not
// set one. It has no effect when a query translator is also given.
func WithDefaultReadPreference(rp domain.ReadPreference) Option {
	return func(r *Repository) {
		r.readPreference = rp
	}
}

// WithConcurrentReaders sets how many read operations may run at once.
func WithConcurrentReaders(n int) Option {
	return func(r *Repository) {
		r.readers = n
	}
}

// WithLogger sets the logger that receives a debug record for every
// operation. Query values are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// Option configures repository behavior through the functional options
// pattern.
type Option func(*Repository)
