package decoder

// WithTagName sets the struct tag read for field names.
func WithTagName(name string) Option {
	return func(d *Decoder) {
		d.tagName = name
	}
}

// WithTimeLayout sets the layout used to parse strings into time values.
func WithTimeLayout(layout string) Option {
	return func(d *Decoder) {
		d.timeLayout = layout
	}
}

// Option configures decoder behavior through the functional options pattern.
type Option func(*Decoder)
