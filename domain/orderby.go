package domain

// Direction is the sort direction of an [OrderBy].
type Direction int8

// Sort directions. Ascending is the zero value.
const (
	Asc Direction = iota
	Desc
)

// String implements [fmt.Stringer].
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// OrderBy is one sort key of a [Query].
type OrderBy struct {
	Field     string
	Direction Direction
}

// NewOrderBy returns an ascending sort key on field.
func NewOrderBy(field string) OrderBy {
	return OrderBy{Field: field}
}

// Asc returns a copy of o sorting in ascending order.
func (o OrderBy) Asc() OrderBy {
	o.Direction = Asc
	return o
}

// Desc returns a copy of o sorting in descending order.
func (o OrderBy) Desc() OrderBy {
	o.Direction = Desc
	return o
}
