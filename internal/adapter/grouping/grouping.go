// Package grouping turns a flat sequence of items joined by [domain.And] and
// [domain.Or] into a boolean tree where AND binds tighter than OR. The same
// functions serve both criteria inside a group and groups inside a query.
package grouping

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// Funcs holds the backend-specific constructors used by [Compile]. Compile
// translates a single item, And and Or build a node from two or more
// translated children. Errors of any of them stop the compilation.
type Funcs[T, N any] struct {
	Compile func(T) (N, error)
	And     func([]N) (N, error)
	Or      func([]N) (N, error)
}

// Compile builds the tree for items joined by combs. content must be the
// classification of combs, as memoized by the caller. [domain.LopUnset] with
// more than one item is reclassified.
//
// A single item is returned as compiled, without any wrapping node. An
// AND-only sequence becomes a flat AND, an OR-only sequence a flat OR. Mixed
// sequences are split on OR into maximal AND runs and become an OR of those
// runs, with single-item runs unwrapped.
func Compile[T, N any](items []T, combs []domain.Combinator, content domain.LopContent, fn Funcs[T, N]) (N, error) {
	var zero N
	if err := check(items, combs); err != nil {
		return zero, err
	}

	if len(items) == 1 {
		return fn.Compile(items[0])
	}

	if content == domain.LopUnset {
		content = domain.ClassifyAll(combs)
	}

	switch content {
	case domain.LopAndOnly:
		children, err := compileAll(items, fn.Compile)
		if err != nil {
			return zero, err
		}
		return fn.And(children)
	case domain.LopOrOnly:
		children, err := compileAll(items, fn.Compile)
		if err != nil {
			return zero, err
		}
		return fn.Or(children)
	default:
		return compileRuns(Partition(items, combs), fn)
	}
}

func compileRuns[T, N any](runs [][]T, fn Funcs[T, N]) (N, error) {
	var zero N
	children := make([]N, len(runs))
	for n, run := range runs {
		compiled, err := compileAll(run, fn.Compile)
		if err != nil {
			return zero, err
		}
		if len(compiled) == 1 {
			children[n] = compiled[0]
			continue
		}
		if children[n], err = fn.And(compiled); err != nil {
			return zero, err
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return fn.Or(children)
}

// Partition splits items on every [domain.Or] combinator. Each returned run
// holds the items joined only by [domain.And]. The order of items is kept.
func Partition[T any](items []T, combs []domain.Combinator) [][]T {
	if len(items) == 0 {
		return nil
	}
	runs := [][]T{{items[0]}}
	for n, comb := range combs {
		if n+1 >= len(items) {
			break
		}
		item := items[n+1]
		if comb == domain.Or {
			runs = append(runs, []T{item})
			continue
		}
		last := len(runs) - 1
		runs[last] = append(runs[last], item)
	}
	return runs
}

func compileAll[T, N any](items []T, compile func(T) (N, error)) ([]N, error) {
	res := make([]N, len(items))
	for n, item := range items {
		compiled, err := compile(item)
		if err != nil {
			return nil, err
		}
		res[n] = compiled
	}
	return res, nil
}

func check[T any](items []T, combs []domain.Combinator) error {
	if len(items) == 0 || len(combs) != len(items)-1 {
		return domain.ErrCombinatorCount{Items: len(items), Combinators: len(combs)}
	}
	return nil
}
