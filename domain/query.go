package domain

import "slices"

// Query is an ordered sequence of criteria groups joined by combinators, plus
// ordering, pagination, projection and read preference. Groups follow the same
// precedence rule used inside a [CriteriaGroup].
type Query struct {
	groups         []*CriteriaGroup
	combinators    []Combinator
	content        LopContent
	orderBys       []OrderBy
	pageSize       int
	pageNumber     int
	fields         []string
	readPreference ReadPreference
}

// NewQuery returns a query starting with first.
func NewQuery(first *CriteriaGroup) *Query {
	return &Query{groups: []*CriteriaGroup{first}}
}

// And appends g joined by [And] and returns q.
func (q *Query) And(g *CriteriaGroup) *Query {
	return q.add(And, g)
}

// Or appends g joined by [Or] and returns q.
func (q *Query) Or(g *CriteriaGroup) *Query {
	return q.add(Or, g)
}

func (q *Query) add(comb Combinator, g *CriteriaGroup) *Query {
	q.groups = append(q.groups, g)
	q.combinators = append(q.combinators, comb)
	q.content = Classify(q.content, comb)
	return q
}

// Groups returns a copy of the group list.
func (q *Query) Groups() []*CriteriaGroup {
	return slices.Clone(q.groups)
}

// Combinators returns a copy of the combinators list.
func (q *Query) Combinators() []Combinator {
	return slices.Clone(q.combinators)
}

// Content returns the classification of the query combinators.
func (q *Query) Content() LopContent {
	return q.content
}

// OrderBy appends a sort key and returns q. The first key added is the primary
// one.
func (q *Query) OrderBy(ob OrderBy) *Query {
	q.orderBys = append(q.orderBys, ob)
	return q
}

// OrderBys returns a copy of the sort keys, in priority order.
func (q *Query) OrderBys() []OrderBy {
	return slices.Clone(q.orderBys)
}

// SetPageNumber sets the 1-based page to be fetched. Zero disables paging and
// negative values are rejected with [ErrPageValue].
func (q *Query) SetPageNumber(n int) error {
	if n < 0 {
		return ErrPageValue{Name: "page number", Value: n}
	}
	q.pageNumber = n
	return nil
}

// PageNumber returns the page number, or zero when unset.
func (q *Query) PageNumber() int {
	return q.pageNumber
}

// SetPageSize sets the number of items per page. Zero disables paging and
// negative values are rejected with [ErrPageValue].
func (q *Query) SetPageSize(n int) error {
	if n < 0 {
		return ErrPageValue{Name: "page size", Value: n}
	}
	q.pageSize = n
	return nil
}

// PageSize returns the page size, or zero when unset.
func (q *Query) PageSize() int {
	return q.pageSize
}

// SetFields restricts the fields to be fetched and returns q. An empty list
// removes the restriction.
func (q *Query) SetFields(fields ...string) *Query {
	q.fields = slices.Clone(fields)
	return q
}

// Fields returns a copy of the projected fields. An empty slice means every
// field should be fetched.
func (q *Query) Fields() []string {
	if q.fields == nil {
		return []string{}
	}
	return slices.Clone(q.fields)
}

// SetReadPreference sets the replica read preference hint and returns q.
func (q *Query) SetReadPreference(rp ReadPreference) *Query {
	q.readPreference = rp
	return q
}

// ReadPreference returns the replica read preference hint.
func (q *Query) ReadPreference() ReadPreference {
	return q.readPreference
}

// Render implements [Renderer].
func (q *Query) Render() string {
	return renderSequence(q.groups, q.combinators, false)
}

// RenderTemplated implements [Renderer].
func (q *Query) RenderTemplated() string {
	return renderSequence(q.groups, q.combinators, true)
}
