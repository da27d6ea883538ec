// Package decoder contains the default [domain.Decoder] implementation.
package decoder

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// ErrDecode wraps failures to convert a document into the target.
type ErrDecode struct {
	Err error
}

func (e ErrDecode) Error() string { return "decoding document: " + e.Err.Error() }

func (e ErrDecode) Unwrap() error { return e.Err }

// Decoder implements domain.Decoder.
type Decoder struct {
	tagName    string
	timeLayout string
}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder(opts ...Option) domain.Decoder {
	d := Decoder{
		tagName:    data.TagName,
		timeLayout: time.RFC3339Nano,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// Decode implements domain.Decoder. Strings are decoded into [time.Time]
// fields using the configured layout.
func (d *Decoder) Decode(src any, tgt any) error {
	if tgt == nil {
		return domain.ErrTargetNil{}
	}
	if v := reflect.ValueOf(tgt); v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", domain.ErrInvalidArgument, tgt)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    d.tagName,
		Result:     tgt,
		DecodeHook: mapstructure.StringToTimeHookFunc(d.timeLayout),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(src); err != nil {
		return ErrDecode{Err: err}
	}
	return nil
}
