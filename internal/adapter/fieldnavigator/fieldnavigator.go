// Package fieldnavigator contains the default [domain.FieldNavigator]
// implementation, resolving dot-notation paths in documents and lists.
package fieldnavigator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// FieldNavigator implements [domain.FieldNavigator].
type FieldNavigator struct {
	docFac domain.DocumentFactory
}

// NewFieldNavigator returns a new instance of [domain.FieldNavigator].
func NewFieldNavigator(opts ...Option) domain.FieldNavigator {
	fn := FieldNavigator{docFac: data.NewDocument}
	for _, opt := range opts {
		opt(&fn)
	}
	return &fn
}

// GetAddress implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetAddress(field string) ([]string, error) {
	addr := strings.Split(field, ".")
	for _, part := range addr {
		if part == "" {
			return nil, fmt.Errorf("invalid field %q", field)
		}
	}
	return addr, nil
}

// GetField implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetField(obj any, addr ...string) ([]domain.GetSetter, bool, error) {
	w := walker{fn: fn}
	res, err := w.walk(undefined, obj, addr, true)
	return res, w.expanded, err
}

// EnsureField implements [domain.FieldNavigator].
func (fn *FieldNavigator) EnsureField(obj any, addr ...string) ([]domain.GetSetter, error) {
	w := walker{fn: fn, ensure: true}
	return w.walk(undefined, obj, addr, true)
}

type walker struct {
	fn       *FieldNavigator
	ensure   bool
	expanded bool
}

// walk resolves addr starting at v, which is stored at gs. Lists found midway
// are expanded once: lists inside expanded lists are not expanded again.
func (w *walker) walk(gs domain.GetSetter, v any, addr []string, expandable bool) ([]domain.GetSetter, error) {
	if len(addr) == 0 {
		if gs == undefined {
			return []domain.GetSetter{undefined}, nil
		}
		return []domain.GetSetter{gs}, nil
	}

	if v == nil && w.ensure && gs != undefined {
		doc, err := w.fn.docFac(nil)
		if err != nil {
			return nil, err
		}
		gs.Set(doc)
		v = doc
	}

	part := addr[0]
	switch t := v.(type) {
	case domain.Document:
		if !t.Has(part) {
			if !w.ensure {
				return []domain.GetSetter{undefined}, nil
			}
			t.Set(part, nil)
		}
		return w.walk(docField(t, part), t.Get(part), addr[1:], true)
	case []any:
		return w.walkList(gs, t, addr, expandable)
	default:
		return []domain.GetSetter{undefined}, nil
	}
}

func (w *walker) walkList(gs domain.GetSetter, list []any, addr []string, expandable bool) ([]domain.GetSetter, error) {
	i, err := strconv.Atoi(addr[0])
	if err == nil {
		if i < 0 {
			return []domain.GetSetter{undefined}, nil
		}
		if i >= len(list) {
			if !w.ensure || gs == undefined {
				return []domain.GetSetter{undefined}, nil
			}
			grown := make([]any, i+1)
			copy(grown, list)
			gs.Set(grown)
			list = grown
		}
		return w.walk(listItem(list, i), list[i], addr[1:], true)
	}

	if !expandable {
		return []domain.GetSetter{undefined}, nil
	}
	w.expanded = true
	res := make([]domain.GetSetter, 0, len(list))
	for n, item := range list {
		found, err := w.walk(listItem(list, n), item, addr, false)
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	return res, nil
}
