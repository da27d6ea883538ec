package fieldnavigator

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// WithDocumentFactory sets the factory used to create the documents missing
// in a path passed to EnsureField.
func WithDocumentFactory(df domain.DocumentFactory) Option {
	return func(fn *FieldNavigator) {
		fn.docFac = df
	}
}

// Option configures field navigator behavior through the functional options
// pattern.
type Option func(*FieldNavigator)
