// Package projector contains the default [domain.Projector] implementation.
package projector

import (
	"errors"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
)

// ErrMixedProjection is returned when a projection both keeps and omits
// fields other than _id.
var ErrMixedProjection = errors.New("can't both keep and omit fields except for _id")

// Projector implements [domain.Projector].
type Projector struct {
	fn     domain.FieldNavigator
	docFac domain.DocumentFactory
}

// NewProjector returns a new implementation of [domain.Projector].
func NewProjector(opts ...Option) domain.Projector {
	p := Projector{docFac: data.NewDocument}
	for _, opt := range opts {
		opt(&p)
	}
	if p.fn == nil {
		p.fn = fieldnavigator.NewFieldNavigator(
			fieldnavigator.WithDocumentFactory(p.docFac),
		)
	}
	return &p
}

// Project implements [domain.Projector]. The _id field is kept unless
// explicitly omitted.
func (p *Projector) Project(docs []domain.Document, proj map[string]uint8) ([]domain.Document, error) {
	if len(proj) == 0 {
		return docs, nil
	}

	id, idMentioned := proj["_id"]
	keepID := !idMentioned || id != 0

	addrs := make([][]string, 0, len(proj))
	keep, omit := 0, 0
	for field, value := range proj {
		if field == "_id" {
			continue
		}
		if value != 0 {
			keep++
		} else {
			omit++
		}
		addr, err := p.fn.GetAddress(field)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	if keep != 0 && omit != 0 {
		return nil, ErrMixedProjection
	}

	res := make([]domain.Document, len(docs))
	for n, doc := range docs {
		var projected domain.Document
		var err error
		if keep != 0 {
			projected, err = p.keep(doc, addrs)
		} else {
			projected, err = p.omit(doc, addrs)
		}
		if err != nil {
			return nil, err
		}
		if keepID && doc.Has("_id") {
			projected.Set("_id", doc.ID())
		} else {
			projected.Unset("_id")
		}
		res[n] = projected
	}
	return res, nil
}

func (p *Projector) keep(doc domain.Document, addrs [][]string) (domain.Document, error) {
	res, err := p.docFac(nil)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		values, expanded, err := p.fn.GetField(doc, addr...)
		if err != nil {
			return nil, err
		}
		value, ok := p.read(values, expanded)
		if !ok {
			continue
		}
		created, err := p.fn.EnsureField(res, addr...)
		if err != nil {
			return nil, err
		}
		for _, c := range created {
			c.Set(value)
		}
	}
	return res, nil
}

// read returns the value of a single field, or the list of values found in
// an expanded list.
func (p *Projector) read(fields []domain.GetSetter, expanded bool) (any, bool) {
	if !expanded {
		return fields[0].Get()
	}
	res := make([]any, 0, len(fields))
	for _, field := range fields {
		if value, defined := field.Get(); defined {
			res = append(res, value)
		}
	}
	return res, true
}

func (p *Projector) omit(doc domain.Document, addrs [][]string) (domain.Document, error) {
	res, err := p.docFac(doc)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		values, _, err := p.fn.GetField(res, addr...)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			value.Unset()
		}
	}
	return res, nil
}
