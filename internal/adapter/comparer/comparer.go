// Package comparer contains the default [domain.Comparer] implementation.
//
// Values of different types are ordered by type: undefined, nil, numbers,
// strings, booleans, times, lists and documents. Numbers of any Go numeric
// type compare by value.
package comparer

import (
	"cmp"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

type rank uint8

const (
	rankUndefined rank = iota
	rankNil
	rankNumber
	rankString
	rankBool
	rankTime
	rankList
	rankDocument
	rankUnknown
)

// Comparer implements domain.Comparer.
type Comparer struct{}

// NewComparer returns a new implementation of domain.Comparer.
func NewComparer() domain.Comparer {
	return &Comparer{}
}

// Comparable implements domain.Comparer. Only numbers, strings and times can
// be compared by the ordering operators, and only with values of the same
// kind.
func (c *Comparer) Comparable(a, b any) bool {
	ra, rb := c.rank(a), c.rank(b)
	if ra != rb {
		return false
	}
	return ra == rankNumber || ra == rankString || ra == rankTime
}

// Compare implements domain.Comparer.
func (c *Comparer) Compare(a, b any) (int, error) {
	ra, rb := c.rank(a), c.rank(b)
	if ra == rankUnknown || rb == rankUnknown {
		return 0, fmt.Errorf("cannot compare unexpected types %T and %T", c.value(a), c.value(b))
	}
	if ra != rb {
		return cmp.Compare(ra, rb), nil
	}

	a, b = c.value(a), c.value(b)
	switch ra {
	case rankNumber:
		na, _ := asNumber(a)
		nb, _ := asNumber(b)
		return na.Cmp(nb), nil
	case rankString:
		return cmp.Compare(a.(string), b.(string)), nil
	case rankBool:
		return compareBool(a.(bool), b.(bool)), nil
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time)), nil
	case rankList:
		return c.compareList(a.([]any), b.([]any))
	case rankDocument:
		return c.compareDoc(a.(domain.Document), b.(domain.Document))
	default:
		return 0, nil
	}
}

func (c *Comparer) rank(v any) rank {
	if g, ok := v.(domain.Getter); ok {
		val, defined := g.Get()
		if !defined {
			return rankUndefined
		}
		v = val
	}
	if _, ok := asNumber(v); ok {
		return rankNumber
	}
	switch v.(type) {
	case nil:
		return rankNil
	case string:
		return rankString
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	case []any:
		return rankList
	case domain.Document:
		return rankDocument
	default:
		return rankUnknown
	}
}

func (c *Comparer) value(v any) any {
	if g, ok := v.(domain.Getter); ok {
		val, _ := g.Get()
		return val
	}
	return v
}

func (c *Comparer) compareList(a, b []any) (int, error) {
	for i := range min(len(a), len(b)) {
		comp, err := c.Compare(a[i], b[i])
		if err != nil || comp != 0 {
			return comp, err
		}
	}
	// common section was identical, longest one wins
	return cmp.Compare(len(a), len(b)), nil
}

func (c *Comparer) compareDoc(a, b domain.Document) (int, error) {
	aKeys := slices.Sorted(a.Keys())
	bKeys := slices.Sorted(b.Keys())

	for i := range min(len(aKeys), len(bKeys)) {
		if comp := cmp.Compare(aKeys[i], bKeys[i]); comp != 0 {
			return comp, nil
		}
		comp, err := c.Compare(a.Get(aKeys[i]), b.Get(bKeys[i]))
		if err != nil || comp != 0 {
			return comp, err
		}
	}
	return cmp.Compare(len(aKeys), len(bKeys)), nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// asNumber converts any Go number to a [big.Float], so that float64 and int64
// values compare without precision loss.
func asNumber(v any) (*big.Float, bool) {
	r := big.NewFloat(0)
	switch n := v.(type) {
	case int:
		r.SetInt64(int64(n))
	case int8:
		r.SetInt64(int64(n))
	case int16:
		r.SetInt64(int64(n))
	case int32:
		r.SetInt64(int64(n))
	case int64:
		r.SetInt64(n)
	case uint:
		r.SetUint64(uint64(n))
	case uint8:
		r.SetUint64(uint64(n))
	case uint16:
		r.SetUint64(uint64(n))
	case uint32:
		r.SetUint64(uint64(n))
	case uint64:
		r.SetUint64(n)
	case float32:
		r.SetFloat64(float64(n))
	case float64:
		r.SetFloat64(n)
	default:
		return nil, false
	}
	return r, true
}
