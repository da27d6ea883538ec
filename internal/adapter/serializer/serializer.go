// Package serializer contains the default [domain.Serializer] implementation.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// ErrFieldName is returned when a document holds a field that could not be
// addressed by a query after being read back.
type ErrFieldName struct {
	Field  string
	Reason string
}

func (e ErrFieldName) Error() string {
	return fmt.Sprintf("field name %q %s", e.Field, e.Reason)
}

// Serializer implements [domain.Serializer].
type Serializer struct {
	docFac     domain.DocumentFactory
	timeLayout string
}

// NewSerializer returns a new implementation of [domain.Serializer].
func NewSerializer(opts ...Option) domain.Serializer {
	s := Serializer{
		docFac:     data.NewDocument,
		timeLayout: time.RFC3339Nano,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// Serialize implements [domain.Serializer]. Documents are copied with time
// values formatted as strings, so the result can be decoded back into time
// fields. The output never contains a newline.
func (s *Serializer) Serialize(ctx context.Context, obj any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc, ok := obj.(domain.Document); ok {
		cp, err := s.copyDoc(doc)
		if err != nil {
			return nil, err
		}
		obj = cp
	}
	return json.Marshal(obj)
}

func (s *Serializer) copyDoc(doc domain.Document) (domain.Document, error) {
	res, err := s.docFac(nil)
	if err != nil {
		return nil, err
	}

	for k, v := range doc.Iter() {
		if err := checkKey(k); err != nil {
			return nil, err
		}
		copied, err := s.copyAny(v)
		if err != nil {
			return nil, err
		}
		res.Set(k, copied)
	}
	return res, nil
}

func (s *Serializer) copyAny(v any) (any, error) {
	switch t := v.(type) {
	case domain.Document:
		return s.copyDoc(t)
	case []any:
		newList := make([]any, len(t))
		for n, itm := range t {
			newV, err := s.copyAny(itm)
			if err != nil {
				return nil, err
			}
			newList[n] = newV
		}
		return newList, nil
	case time.Time:
		return t.Format(s.timeLayout), nil
	default:
		return v, nil
	}
}

func checkKey(k string) error {
	if strings.ContainsRune(k, '.') {
		return ErrFieldName{Field: k, Reason: "cannot contain a '.'"}
	}
	if strings.HasPrefix(k, "$") {
		return ErrFieldName{Field: k, Reason: "cannot start with '$'"}
	}
	return nil
}
