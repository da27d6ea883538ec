package updater

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithDocumentFactory sets the [domain.Document] factory function used to
// build update documents.
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(u *Updater) {
		u.docFac = df
	}
}

// Option configures updater behavior through the functional options pattern.
type Option func(*Updater)
