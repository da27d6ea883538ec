package domain

import (
	"fmt"
	"strings"
)

// redacted replaces values in templated renderings.
const redacted = "<v>"

// Renderer is implemented by every composite of a query. Render includes the
// literal values and is meant for debugging. RenderTemplated replaces every
// value by "<v>", so its result is safe to be used in logs and as a
// cardinality-bounded metric label.
type Renderer interface {
	Render() string
	RenderTemplated() string
}

func renderSequence[T Renderer](items []T, combinators []Combinator, templated bool) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for n, item := range items {
		if templated {
			sb.WriteString(item.RenderTemplated())
		} else {
			sb.WriteString(item.Render())
		}
		if n < len(combinators) {
			sb.WriteString(combinators[n].String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func renderValue(v any) string {
	if r, ok := v.(Renderer); ok {
		return r.Render()
	}
	return fmt.Sprint(v)
}
