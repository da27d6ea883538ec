// Package querier contains the default [domain.Querier] implementation.
package querier

import (
	"fmt"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/projector"
)

// Querier implements [domain.Querier].
type Querier struct {
	mtchr  domain.Matcher
	cmpr   domain.Comparer
	fn     domain.FieldNavigator
	proj   domain.Projector
	docFac domain.DocumentFactory
}

// NewQuerier returns a new implementation of [domain.Querier].
func NewQuerier(opts ...Option) domain.Querier {
	q := Querier{
		docFac: data.NewDocument,
		cmpr:   comparer.NewComparer(),
	}
	for _, opt := range opts {
		opt(&q)
	}
	if q.fn == nil {
		q.fn = fieldnavigator.NewFieldNavigator(
			fieldnavigator.WithDocumentFactory(q.docFac),
		)
	}
	if q.proj == nil {
		q.proj = projector.NewProjector(
			projector.WithDocumentFactory(q.docFac),
			projector.WithFieldNavigator(q.fn),
		)
	}
	if q.mtchr == nil {
		q.mtchr = matcher.NewMatcher(
			matcher.WithComparer(q.cmpr),
			matcher.WithDocumentFactory(q.docFac),
			matcher.WithFieldNavigator(q.fn),
		)
	}
	return &q
}

// Query implements [domain.Querier]. Documents are filtered, sorted, paged
// and projected, in that order.
func (q *Querier) Query(docs []domain.Document, opts ...domain.QueryOption) ([]domain.Document, error) {
	var options domain.QueryOptions
	for _, opt := range opts {
		opt(&options)
	}

	res, err := q.filter(docs, options)
	if err != nil {
		return nil, err
	}

	if len(options.Sort) > 0 {
		if res, err = q.sort(res, options.Sort); err != nil {
			return nil, fmt.Errorf("sorting: %w", err)
		}
		res = skipAndLimit(res, options.Skip, options.Limit)
	}

	if res, err = q.proj.Project(res, options.Projection); err != nil {
		return nil, fmt.Errorf("projecting: %w", err)
	}
	return res, nil
}

// filter returns the matching documents. Without sorting, skip and limit are
// applied while scanning.
func (q *Querier) filter(docs []domain.Document, options domain.QueryOptions) ([]domain.Document, error) {
	paging := len(options.Sort) == 0

	var skipped int64
	res := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if paging && options.Limit > 0 && int64(len(res)) == options.Limit {
			break
		}
		if options.Query != nil {
			matches, err := q.mtchr.Match(doc, options.Query)
			if err != nil {
				return nil, fmt.Errorf("matching document: %w", err)
			}
			if !matches {
				continue
			}
		}
		if paging && skipped < options.Skip {
			skipped++
			continue
		}
		res = append(res, doc)
	}
	return res, nil
}

func (q *Querier) sort(docs []domain.Document, sort domain.Sort) ([]domain.Document, error) {
	addrs := make([][]string, len(sort))
	for n, crit := range sort {
		addr, err := q.fn.GetAddress(crit.Key)
		if err != nil {
			return nil, fmt.Errorf("getting address: %w", err)
		}
		addrs[n] = addr
	}

	res := slices.Clone(docs)
	var err error
	slices.SortStableFunc(res, func(a, b domain.Document) int {
		if err != nil {
			return 0
		}
		for n, crit := range sort {
			comp, cErr := q.compareBy(a, b, addrs[n])
			if cErr != nil {
				err = cErr
				return 0
			}
			if comp != 0 {
				return comp * int(crit.Order)
			}
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (q *Querier) compareBy(a, b domain.Document, addr []string) (int, error) {
	keyA, err := q.sortKey(a, addr)
	if err != nil {
		return 0, err
	}
	keyB, err := q.sortKey(b, addr)
	if err != nil {
		return 0, err
	}
	comp, err := q.cmpr.Compare(keyA, keyB)
	if err != nil {
		return 0, fmt.Errorf("comparing: %w", err)
	}
	return comp, nil
}

// sortKey returns the field getter, or the list of values when the address
// crosses a list.
func (q *Querier) sortKey(doc domain.Document, addr []string) (any, error) {
	fields, expanded, err := q.fn.GetField(doc, addr...)
	if err != nil {
		return nil, fmt.Errorf("getting field: %w", err)
	}
	if !expanded && len(fields) == 1 {
		return fields[0], nil
	}
	values := make([]any, 0, len(fields))
	for _, field := range fields {
		if v, ok := field.Get(); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

func skipAndLimit(docs []domain.Document, skip, limit int64) []domain.Document {
	length := int64(len(docs))

	skip = min(max(skip, 0), length)

	end := length
	if limit > 0 {
		end = min(skip+limit, length)
	}

	return docs[skip:end]
}
