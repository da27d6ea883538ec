package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/unbalanced"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// valueComparer orders distinct values with a [domain.Comparer].
type valueComparer struct {
	comparer domain.Comparer
}

// CompareKeys implements bst.Comparer.
func (vc *valueComparer) CompareKeys(a any, b any) (int, error) {
	return vc.comparer.Compare(a, b)
}

// CompareValues implements bst.Comparer.
func (vc *valueComparer) CompareValues(a any, b any) (bool, error) {
	c, err := vc.comparer.Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// Distinct implements [domain.Repository]. Values found in lists are counted
// one by one. It cannot target a collection other than the default one.
func (r *Repository) Distinct(ctx context.Context, field string, q *domain.Query, opts ...domain.CallOption) ([]any, error) {
	name, override := r.collection(opts)
	if override {
		return nil, domain.ErrUnsupported{
			Operation: "distinct",
			Reason:    "distinct values of another collection are not supported",
		}
	}
	addr, err := r.fieldNavigator.GetAddress(field)
	if err != nil {
		return nil, err
	}

	if err := r.rlock(ctx); err != nil {
		return nil, err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "distinct", name, q, "field", field)
	docs := r.collections[name]
	if q != nil {
		filter, _, err := r.queryTranslator.Translate(q, name)
		if err != nil {
			return nil, fmt.Errorf("translating query: %w", err)
		}
		positions, err := r.matching(docs, filter)
		if err != nil {
			return nil, err
		}
		selected := make([]domain.Document, len(positions))
		for n, pos := range positions {
			selected[n] = docs[pos]
		}
		docs = selected
	}

	var cmp bst.Comparer[any, any] = &valueComparer{comparer: r.comparer}
	tree := unbalanced.NewBST(true, 8, cmp)
	for _, doc := range docs {
		fields, _, err := r.fieldNavigator.GetField(doc, addr...)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			value, defined := f.Get()
			if !defined {
				continue
			}
			values := []any{value}
			if list, ok := value.([]any); ok {
				values = list
			}
			for _, v := range values {
				if err := tree.Insert(v, v); err != nil {
					if errors.As(err, new(bst.ErrUniqueViolated)) {
						continue
					}
					return nil, err
				}
			}
		}
	}

	res := slices.Collect(tree.GetAll())
	slices.SortStableFunc(res, func(a, b any) int {
		c, _ := r.comparer.Compare(a, b)
		return c
	})
	return res, nil
}
