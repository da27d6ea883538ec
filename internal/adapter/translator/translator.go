// Package translator contains the default [domain.QueryTranslator]
// implementation, which compiles a [domain.Query] into the filter document
// understood by the matcher package.
package translator

import (
	"fmt"
	"regexp"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/grouping"
)

// ErrNilQuery is returned when a nil query is translated.
var ErrNilQuery = fmt.Errorf("%w: query is nil", domain.ErrInvalidArgument)

// ErrCyclicQuery is returned when a query contains itself through an element
// match criterion.
var ErrCyclicQuery = fmt.Errorf("%w: query contains itself", domain.ErrInvalidArgument)

type compileFunc func(*compileContext, string, any) (domain.Document, error)

// Translator implements [domain.QueryTranslator].
type Translator struct {
	ops    map[domain.Operator]compileFunc
	docFac domain.DocumentFactory
	rp     domain.ReadPreference
}

// NewTranslator returns a new implementation of [domain.QueryTranslator].
func NewTranslator(opts ...Option) domain.QueryTranslator {
	t := Translator{docFac: data.NewDocument}
	for _, opt := range opts {
		opt(&t)
	}
	t.ops = map[domain.Operator]compileFunc{
		domain.Eq:                 t.eq,
		domain.EqIgnoreCase:       t.eqIgnoreCase,
		domain.Lt:                 t.comparison("$lt"),
		domain.Lte:                t.comparison("$lte"),
		domain.Gt:                 t.comparison("$gt"),
		domain.Gte:                t.comparison("$gte"),
		domain.Ne:                 t.comparison("$ne"),
		domain.Contains:           t.contains(domain.Contains, ""),
		domain.ContainsIgnoreCase: t.contains(domain.ContainsIgnoreCase, "(?i)"),
		domain.In:                 t.list("$in", domain.In),
		domain.NotIn:              t.list("$nin", domain.NotIn),
		domain.ElemMatch:          t.elemMatch,
		domain.Near:               t.near,
	}
	return &t
}

// compileContext holds the state of a single Translate call.
type compileContext struct {
	visiting map[*domain.Query]struct{}
}

// Translate implements [domain.QueryTranslator].
func (t *Translator) Translate(q *domain.Query, collection string) (domain.Document, domain.FindOptions, error) {
	var opts domain.FindOptions
	if q == nil {
		return nil, opts, ErrNilQuery
	}

	ctx := &compileContext{visiting: make(map[*domain.Query]struct{})}
	filter, err := t.query(ctx, q)
	if err != nil {
		return nil, opts, err
	}

	opts.Collection = collection
	opts.Skip, opts.Limit, err = paging(q)
	if err != nil {
		return nil, opts, err
	}
	opts.Sort = sorting(q.OrderBys())
	opts.Projection = projection(q.Fields())
	opts.ReadPreference = q.ReadPreference()
	if opts.ReadPreference == domain.ReadPreferenceUnset {
		opts.ReadPreference = t.rp
	}
	return filter, opts, nil
}

func (t *Translator) query(ctx *compileContext, q *domain.Query) (domain.Document, error) {
	if _, ok := ctx.visiting[q]; ok {
		return nil, ErrCyclicQuery
	}
	ctx.visiting[q] = struct{}{}
	defer delete(ctx.visiting, q)

	return grouping.Compile(q.Groups(), q.Combinators(), q.Content(), grouping.Funcs[*domain.CriteriaGroup, domain.Document]{
		Compile: func(g *domain.CriteriaGroup) (domain.Document, error) {
			return t.group(ctx, g)
		},
		And: t.logic("$and"),
		Or:  t.logic("$or"),
	})
}

func (t *Translator) group(ctx *compileContext, g *domain.CriteriaGroup) (domain.Document, error) {
	if g == nil {
		return nil, domain.ErrCombinatorCount{}
	}
	return grouping.Compile(g.Criteria(), g.Combinators(), g.Content(), grouping.Funcs[*domain.Criterion, domain.Document]{
		Compile: func(c *domain.Criterion) (domain.Document, error) {
			return t.criterion(ctx, c)
		},
		And: t.logic("$and"),
		Or:  t.logic("$or"),
	})
}

func (t *Translator) criterion(ctx *compileContext, c *domain.Criterion) (domain.Document, error) {
	compile, ok := t.ops[c.Operator()]
	if !ok {
		return nil, domain.ErrUnknownOperator{Operator: c.Operator()}
	}
	doc, err := compile(ctx, c.Field(), c.Value())
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", c.RenderTemplated(), err)
	}
	return doc, nil
}

func (t *Translator) logic(op string) func([]domain.Document) (domain.Document, error) {
	return func(children []domain.Document) (domain.Document, error) {
		list := make([]any, len(children))
		for n, child := range children {
			list[n] = child
		}
		return t.doc(op, list)
	}
}

// doc builds a single-field document.
func (t *Translator) doc(key string, value any) (domain.Document, error) {
	d, err := t.docFac(nil)
	if err != nil {
		return nil, err
	}
	d.Set(key, value)
	return d, nil
}

// nested builds {field: {op: value}}.
func (t *Translator) nested(field, op string, value any) (domain.Document, error) {
	inner, err := t.doc(op, value)
	if err != nil {
		return nil, err
	}
	return t.doc(field, inner)
}

func (t *Translator) eq(_ *compileContext, field string, value any) (domain.Document, error) {
	v, err := data.Normalize(value)
	if err != nil {
		return nil, err
	}
	return t.doc(field, v)
}

func (t *Translator) comparison(op string) compileFunc {
	return func(_ *compileContext, field string, value any) (domain.Document, error) {
		v, err := data.Normalize(value)
		if err != nil {
			return nil, err
		}
		return t.nested(field, op, v)
	}
}

func (t *Translator) eqIgnoreCase(_ *compileContext, field string, value any) (domain.Document, error) {
	var s string
	if str, ok := value.(string); ok {
		s = str
	} else {
		s = fmt.Sprint(value)
	}
	return t.regex(field, "(?i)^"+regexp.QuoteMeta(s)+"$")
}

func (t *Translator) contains(op domain.Operator, flags string) compileFunc {
	return func(_ *compileContext, field string, value any) (domain.Document, error) {
		s, ok := value.(string)
		if !ok {
			return nil, domain.ErrOperatorValue{Operator: op, Value: value, Want: "a string"}
		}
		return t.regex(field, flags+regexp.QuoteMeta(s))
	}
}

func (t *Translator) regex(field, expr string) (domain.Document, error) {
	rgx, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return t.nested(field, "$regex", rgx)
}

func (t *Translator) list(op string, operator domain.Operator) compileFunc {
	return func(_ *compileContext, field string, value any) (domain.Document, error) {
		if _, isBytes := value.([]byte); isBytes {
			return nil, domain.ErrOperatorValue{Operator: operator, Value: value, Want: "a collection"}
		}
		items, ok := data.AsList(value)
		if !ok {
			return nil, domain.ErrOperatorValue{Operator: operator, Value: value, Want: "a collection"}
		}
		list := make([]any, len(items))
		for n, item := range items {
			v, err := data.Normalize(item)
			if err != nil {
				return nil, err
			}
			list[n] = v
		}
		return t.nested(field, op, list)
	}
}

func (t *Translator) elemMatch(ctx *compileContext, field string, value any) (domain.Document, error) {
	var nested *domain.Query
	switch v := value.(type) {
	case *domain.Query:
		nested = v
	case domain.Query:
		nested = &v
	}
	if nested == nil {
		return nil, domain.ErrOperatorValue{Operator: domain.ElemMatch, Value: value, Want: "a query"}
	}
	sub, err := t.query(ctx, nested)
	if err != nil {
		return nil, err
	}
	return t.nested(field, "$elemMatch", sub)
}

func (t *Translator) near(_ *compileContext, field string, value any) (domain.Document, error) {
	var coord *domain.Coordinate
	switch v := value.(type) {
	case *domain.Coordinate:
		coord = v
	case domain.Coordinate:
		coord = &v
	}
	if coord == nil {
		return nil, domain.ErrOperatorValue{Operator: domain.Near, Value: value, Want: "a coordinate"}
	}
	geometry, err := t.doc("type", "Point")
	if err != nil {
		return nil, err
	}
	geometry.Set("coordinates", []any{coord.Longitude, coord.Latitude})
	near, err := t.doc("$geometry", geometry)
	if err != nil {
		return nil, err
	}
	near.Set("$maxDistance", coord.Radius)
	near.Set("$minDistance", 0.0)
	return t.nested(field, "$near", near)
}

// paging returns skip and limit. Page size and page number must be both set
// or both unset.
func paging(q *domain.Query) (skip, limit int64, err error) {
	size, number := q.PageSize(), q.PageNumber()
	if size == 0 && number == 0 {
		return 0, 0, nil
	}
	if size <= 0 || number <= 0 {
		return 0, 0, domain.ErrPagination{PageSize: size, PageNumber: number}
	}
	return int64(number-1) * int64(size), int64(size), nil
}

func sorting(obs []domain.OrderBy) domain.Sort {
	if len(obs) == 0 {
		return nil
	}
	res := make(domain.Sort, len(obs))
	for n, ob := range obs {
		order := int64(1)
		if ob.Direction == domain.Desc {
			order = -1
		}
		res[n] = domain.SortName{Key: ob.Field, Order: order}
	}
	return res
}

func projection(fields []string) map[string]uint8 {
	if len(fields) == 0 {
		return nil
	}
	res := make(map[string]uint8, len(fields))
	for _, f := range fields {
		res[f] = 1
	}
	return res
}
