package domain

import "slices"

// CriteriaGroup is an ordered sequence of criteria joined by combinators. There
// is always one combinator less than criteria, and precedence is resolved when
// the group is translated: [And] binds tighter than [Or].
type CriteriaGroup struct {
	criteria    []*Criterion
	combinators []Combinator
	content     LopContent
}

// NewCriteriaGroup returns a group starting with first.
func NewCriteriaGroup(first *Criterion) *CriteriaGroup {
	return &CriteriaGroup{criteria: []*Criterion{first}}
}

// And appends c joined by [And] and returns g.
func (g *CriteriaGroup) And(c *Criterion) *CriteriaGroup {
	return g.add(And, c)
}

// Or appends c joined by [Or] and returns g.
func (g *CriteriaGroup) Or(c *Criterion) *CriteriaGroup {
	return g.add(Or, c)
}

func (g *CriteriaGroup) add(comb Combinator, c *Criterion) *CriteriaGroup {
	g.criteria = append(g.criteria, c)
	g.combinators = append(g.combinators, comb)
	g.content = Classify(g.content, comb)
	return g
}

// Criteria returns a copy of the criteria list.
func (g *CriteriaGroup) Criteria() []*Criterion {
	return slices.Clone(g.criteria)
}

// Combinators returns a copy of the combinators list.
func (g *CriteriaGroup) Combinators() []Combinator {
	return slices.Clone(g.combinators)
}

// Content returns the classification of the group combinators.
func (g *CriteriaGroup) Content() LopContent {
	return g.content
}

// Len returns the number of criteria in the group.
func (g *CriteriaGroup) Len() int {
	return len(g.criteria)
}

// Render implements [Renderer].
func (g *CriteriaGroup) Render() string {
	return renderSequence(g.criteria, g.combinators, false)
}

// RenderTemplated implements [Renderer].
func (g *CriteriaGroup) RenderTemplated() string {
	return renderSequence(g.criteria, g.combinators, true)
}
