package serializer

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithDocumentFactory sets the [domain.Document] factory function used to
// copy documents before encoding.
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(s *Serializer) {
		s.docFac = df
	}
}

// WithTimeLayout sets the layout used to format time values.
func WithTimeLayout(layout string) Option {
	return func(s *Serializer) {
		s.timeLayout = layout
	}
}

// Option configures serializer behavior through the functional options
// pattern.
type Option func(*Serializer)
