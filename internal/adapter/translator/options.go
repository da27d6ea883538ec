package translator

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithDocumentFactory sets the [domain.Document] factory function used to
// build filter documents.
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(t *Translator) {
		t.docFac = df
	}
}

// WithDefaultReadPreference sets the read preference reported for queries
// that do not set one.
func WithDefaultReadPreference(rp domain.ReadPreference) Option {
	return func(t *Translator) {
		t.rp = rp
	}
}

// Option configures translator behavior through the functional options
// pattern.
type Option func(*Translator)
