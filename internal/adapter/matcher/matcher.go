// Package matcher contains the default [domain.Matcher] implementation. It
// evaluates the native filters produced by the query translator against
// documents.
package matcher

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
)

// earthRadius is the radius, in meters, used to compute $near distances.
const earthRadius = 6378100.0

var (
	// ErrMixedOperators is returned when user provides a query with mixed
	// use of normal fields and operators.
	ErrMixedOperators = errors.New("cannot mix operators and normal fields")
)

// ErrUnknownOperator is returned when user provides an unknown dollar field.
type ErrUnknownOperator struct {
	Operator string
}

// Error implements [error].
func (e ErrUnknownOperator) Error() string {
	return fmt.Sprintf("unknown operator %q", e.Operator)
}

// ErrCompArgType is returned when an operator is called with an argument of
// invalid type.
type ErrCompArgType struct {
	Comp   string
	Want   string
	Actual any
}

// Error implements [error].
func (e ErrCompArgType) Error() string {
	return fmt.Sprintf("%s value should be of type %s, got %T", e.Comp, e.Want, e.Actual)
}

type oper func(domain.Document, []string, any) (bool, error)

type matchFn func(value, param any) (bool, error)

// Matcher implements [domain.Matcher].
type Matcher struct {
	documentFactory domain.DocumentFactory
	comparer        domain.Comparer
	fieldNavigator  domain.FieldNavigator
	compFuncs       map[string]oper
	logicOps        map[string]func(domain.Document, any) (bool, error)
}

// NewMatcher returns a new implementation of domain.Matcher.
func NewMatcher(opts ...Option) domain.Matcher {
	m := &Matcher{
		documentFactory: data.NewDocument,
		comparer:        comparer.NewComparer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fieldNavigator == nil {
		m.fieldNavigator = fieldnavigator.NewFieldNavigator(
			fieldnavigator.WithDocumentFactory(m.documentFactory),
		)
	}

	m.logicOps = map[string]func(domain.Document, any) (bool, error){
		"$and": m.and,
		"$or":  m.or,
		"$not": m.not,
	}
	m.compFuncs = map[string]oper{
		"$regex":     m.regex,
		"$in":        m.in,
		"$nin":       m.nin,
		"$lt":        m.ordered(func(c int) bool { return c < 0 }),
		"$lte":       m.ordered(func(c int) bool { return c <= 0 }),
		"$gt":        m.ordered(func(c int) bool { return c > 0 }),
		"$gte":       m.ordered(func(c int) bool { return c >= 0 }),
		"$ne":        m.ne,
		"$exists":    m.exists,
		"$size":      m.size,
		"$elemMatch": m.elemMatch,
		"$near":      m.near,
	}
	return m
}

// Match implements [domain.Matcher].
func (m *Matcher) Match(val any, qry any) (bool, error) {
	if qry == nil {
		return true, nil
	}
	doc, ok := val.(domain.Document)
	if !ok {
		return m.nonDocMatch(val, qry)
	}
	query, ok := qry.(domain.Document)
	if !ok {
		return false, nil
	}
	return m.matchDocs(doc, query)
}

// nonDocMatch wraps val and qry in documents, so that primitive list items
// can be matched against comparison documents like {"$gt": 1}.
func (m *Matcher) nonDocMatch(val any, qry any) (bool, error) {
	valDoc, err := m.documentFactory(nil)
	if err != nil {
		return false, err
	}
	qryDoc, err := m.documentFactory(nil)
	if err != nil {
		return false, err
	}
	valDoc.Set("v", val)
	qryDoc.Set("v", qry)
	return m.matchDocs(valDoc, qryDoc)
}

func (m *Matcher) matchDocs(obj, qry domain.Document) (bool, error) {
	qryMap, hasOps, err := m.mapQuery(qry)
	if err != nil {
		return false, err
	}

	matchFunction := m.matchSimpleField
	if hasOps {
		matchFunction = m.matchDollarField
	}

	for field, value := range qryMap {
		matches, err := matchFunction(obj, field, value)
		if err != nil || !matches {
			return false, err
		}
	}
	return true, nil
}

func (m *Matcher) matchDollarField(obj domain.Document, field string, value any) (bool, error) {
	fn, ok := m.logicOps[field]
	if !ok {
		return false, ErrUnknownOperator{Operator: field}
	}
	return fn(obj, value)
}

func (m *Matcher) matchSimpleField(obj domain.Document, field string, value any) (bool, error) {
	addr, err := m.fieldNavigator.GetAddress(field)
	if err != nil {
		return false, err
	}

	valueDoc, ok := value.(domain.Document)
	if !ok {
		return m.eq(obj, addr, value)
	}

	qryMap, hasOps, err := m.mapQuery(valueDoc)
	if err != nil {
		return false, err
	}
	if !hasOps {
		return m.eq(obj, addr, value)
	}

	// checking every operator before running any of them
	for op := range qryMap {
		if _, ok := m.compFuncs[op]; !ok {
			return false, ErrUnknownOperator{Operator: op}
		}
	}

	for op, arg := range qryMap {
		matches, err := m.compFuncs[op](obj, addr, arg)
		if err != nil || !matches {
			return false, err
		}
	}
	return true, nil
}

func (m *Matcher) mapQuery(qry domain.Document) (map[string]any, bool, error) {
	queryMap := make(map[string]any, qry.Len())
	dollarFields := 0
	for field, value := range qry.Iter() {
		if strings.HasPrefix(field, "$") {
			dollarFields++
		}
		queryMap[field] = value
	}
	if dollarFields != 0 && dollarFields != len(queryMap) {
		return nil, false, ErrMixedOperators
	}
	return queryMap, dollarFields != 0, nil
}

func (m *Matcher) and(obj domain.Document, value any) (bool, error) {
	arr, ok := data.AsList(value)
	if !ok {
		return false, ErrCompArgType{Comp: "$and", Want: "list", Actual: value}
	}
	for _, item := range arr {
		matches, err := m.Match(obj, item)
		if err != nil || !matches {
			return false, err
		}
	}
	return true, nil
}

func (m *Matcher) or(obj domain.Document, value any) (bool, error) {
	arr, ok := data.AsList(value)
	if !ok {
		return false, ErrCompArgType{Comp: "$or", Want: "list", Actual: value}
	}
	for _, item := range arr {
		matches, err := m.Match(obj, item)
		if err != nil || matches {
			return matches, err
		}
	}
	return false, nil
}

func (m *Matcher) not(obj domain.Document, value any) (bool, error) {
	matches, err := m.Match(obj, value)
	if err != nil {
		return false, err
	}
	return !matches, nil
}

// matchList calls fn for every value found at addr. List values are checked
// item by item. It stops at the first match.
func (m *Matcher) matchList(obj domain.Document, addr []string, param any, fn matchFn) (bool, error) {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		value, _ := field.Get()
		arr, ok := value.([]any)
		if !ok {
			arr = []any{field}
		}
		for _, item := range arr {
			matches, err := fn(item, param)
			if err != nil || matches {
				return matches, err
			}
		}
	}
	return false, nil
}

func (m *Matcher) eq(obj domain.Document, addr []string, value any) (bool, error) {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		matches, err := m.equals(field, value)
		if err != nil || matches {
			return matches, err
		}
	}
	return false, nil
}

// equals compares a field with a value. A regular expression matches
// strings, a list value must equal the whole list and a scalar value matches
// any item of a list field.
func (m *Matcher) equals(field domain.Getter, value any) (bool, error) {
	fieldValue, _ := field.Get()
	arr, ok := fieldValue.([]any)
	if rgx, isRegex := value.(*regexp.Regexp); isRegex {
		if !ok {
			return m.regexValue(field, rgx), nil
		}
		return slices.ContainsFunc(arr, func(item any) bool {
			return m.regexValue(item, rgx)
		}), nil
	}
	if !ok {
		c, err := m.comparer.Compare(field, value)
		return c == 0, err
	}
	if valueArr, ok := value.([]any); ok {
		c, err := m.comparer.Compare(arr, valueArr)
		return c == 0, err
	}
	for _, item := range arr {
		c, err := m.comparer.Compare(item, value)
		if err != nil || c == 0 {
			return c == 0, err
		}
	}
	return false, nil
}

func (m *Matcher) regex(obj domain.Document, addr []string, param any) (bool, error) {
	rgx, ok := param.(*regexp.Regexp)
	if !ok {
		return false, ErrCompArgType{Comp: "$regex", Want: "*regexp.Regexp", Actual: param}
	}
	return m.matchList(obj, addr, rgx, func(value, _ any) (bool, error) {
		return m.regexValue(value, rgx), nil
	})
}

func (m *Matcher) regexValue(v any, rgx *regexp.Regexp) bool {
	if g, ok := v.(domain.Getter); ok {
		v, _ = g.Get()
	}
	str, ok := v.(string)
	return ok && rgx.MatchString(str)
}

func (m *Matcher) in(obj domain.Document, addr []string, param any) (bool, error) {
	arr, ok := data.AsList(param)
	if !ok {
		return false, ErrCompArgType{Comp: "$in", Want: "list", Actual: param}
	}
	return m.matchList(obj, addr, arr, func(value, _ any) (bool, error) {
		return m.contains(arr, value)
	})
}

func (m *Matcher) nin(obj domain.Document, addr []string, param any) (bool, error) {
	arr, ok := data.AsList(param)
	if !ok {
		return false, ErrCompArgType{Comp: "$nin", Want: "list", Actual: param}
	}
	found, err := m.matchList(obj, addr, arr, func(value, _ any) (bool, error) {
		return m.contains(arr, value)
	})
	return !found, err
}

func (m *Matcher) contains(arr []any, value any) (bool, error) {
	for _, item := range arr {
		c, err := m.comparer.Compare(item, value)
		if err != nil || c == 0 {
			return c == 0, err
		}
	}
	return false, nil
}

func (m *Matcher) ordered(accept func(int) bool) oper {
	return func(obj domain.Document, addr []string, param any) (bool, error) {
		return m.matchList(obj, addr, param, func(value, param any) (bool, error) {
			if !m.comparer.Comparable(value, param) {
				return false, nil
			}
			c, err := m.comparer.Compare(value, param)
			if err != nil {
				return false, err
			}
			return accept(c), nil
		})
	}
}

func (m *Matcher) ne(obj domain.Document, addr []string, param any) (bool, error) {
	matches, err := m.eq(obj, addr, param)
	return !matches, err
}

func (m *Matcher) exists(obj domain.Document, addr []string, param any) (bool, error) {
	want, ok := param.(bool)
	if !ok {
		return false, ErrCompArgType{Comp: "$exists", Want: "bool", Actual: param}
	}
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		if _, defined := field.Get(); defined {
			return want, nil
		}
	}
	return !want, nil
}

func (m *Matcher) size(obj domain.Document, addr []string, param any) (bool, error) {
	n, ok := asFloat(param)
	if !ok || n != math.Trunc(n) {
		return false, ErrCompArgType{Comp: "$size", Want: "integer", Actual: param}
	}
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		value, _ := field.Get()
		if arr, ok := value.([]any); ok && float64(len(arr)) == n {
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) elemMatch(obj domain.Document, addr []string, param any) (bool, error) {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		value, _ := field.Get()
		arr, ok := value.([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			matches, err := m.Match(item, param)
			if err != nil || matches {
				return matches, err
			}
		}
	}
	return false, nil
}

// near matches GeoJSON points, or [longitude, latitude] pairs, whose distance
// to $geometry is between $minDistance and $maxDistance meters.
func (m *Matcher) near(obj domain.Document, addr []string, param any) (bool, error) {
	cond, ok := param.(domain.Document)
	if !ok {
		return false, ErrCompArgType{Comp: "$near", Want: "document", Actual: param}
	}
	center, ok := point(cond.Get("$geometry"))
	if !ok {
		return false, ErrCompArgType{Comp: "$near", Want: "GeoJSON point", Actual: cond.Get("$geometry")}
	}
	maxDist := math.Inf(1)
	if cond.Has("$maxDistance") {
		if maxDist, ok = asFloat(cond.Get("$maxDistance")); !ok {
			return false, ErrCompArgType{Comp: "$maxDistance", Want: "number", Actual: cond.Get("$maxDistance")}
		}
	}
	minDist := 0.0
	if cond.Has("$minDistance") {
		if minDist, ok = asFloat(cond.Get("$minDistance")); !ok {
			return false, ErrCompArgType{Comp: "$minDistance", Want: "number", Actual: cond.Get("$minDistance")}
		}
	}

	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return false, err
	}
	for _, field := range fields {
		value, _ := field.Get()
		p, ok := point(value)
		if !ok {
			continue
		}
		dist := distance(center, p)
		if dist >= minDist && dist <= maxDist {
			return true, nil
		}
	}
	return false, nil
}

// point reads a GeoJSON point or a [longitude, latitude] pair.
func point(v any) ([2]float64, bool) {
	if doc, ok := v.(domain.Document); ok {
		if doc.Get("type") != "Point" {
			return [2]float64{}, false
		}
		v = doc.Get("coordinates")
	}
	arr, ok := data.AsList(v)
	if !ok || len(arr) != 2 {
		return [2]float64{}, false
	}
	lon, ok1 := asFloat(arr[0])
	lat, ok2 := asFloat(arr[1])
	return [2]float64{lon, lat}, ok1 && ok2
}

// distance returns the haversine distance in meters between two
// [longitude, latitude] points.
func distance(a, b [2]float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1, lat2 := toRad(a[1]), toRad(b[1])
	dLat := lat2 - lat1
	dLon := toRad(b[0] - a[0])
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
