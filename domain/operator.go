package domain

import "fmt"

// Operator identifies the comparison a [Criterion] applies between a field and
// its value.
type Operator uint8

// Supported operators. The zero value is not a valid operator.
const (
	// Eq matches values equal to the criterion value.
	Eq Operator = iota + 1
	// EqIgnoreCase matches strings equal to the criterion value, ignoring
	// case.
	EqIgnoreCase
	// Lt matches values lower than the criterion value.
	Lt
	// Lte matches values lower than or equal to the criterion value.
	Lte
	// Gt matches values greater than the criterion value.
	Gt
	// Gte matches values greater than or equal to the criterion value.
	Gte
	// Ne matches values different from the criterion value.
	Ne
	// Contains matches strings containing the criterion value.
	Contains
	// ContainsIgnoreCase matches strings containing the criterion value,
	// ignoring case.
	ContainsIgnoreCase
	// In matches values present in the criterion value, which must be a
	// list.
	In
	// NotIn matches values absent from the criterion value, which must be a
	// list.
	NotIn
	// ElemMatch matches array fields with at least one element matching the
	// nested [Query] given as criterion value.
	ElemMatch
	// Near matches points within the radius of the [Coordinate] given as
	// criterion value.
	Near
)

var operatorTokens = map[Operator]string{
	Eq:                 "=",
	EqIgnoreCase:       "equalsIgnoreCase",
	Lt:                 "<",
	Lte:                "<=",
	Gt:                 ">",
	Gte:                ">=",
	Ne:                 "!=",
	Contains:           "contains",
	ContainsIgnoreCase: "containsIgnoreCase",
	In:                 "in",
	NotIn:              "notIn",
	ElemMatch:          "elementMatch",
	Near:               "near",
}

// String implements [fmt.Stringer]. It returns the display token used when
// rendering a [Criterion].
func (o Operator) String() string {
	if token, ok := operatorTokens[o]; ok {
		return token
	}
	return fmt.Sprintf("Operator(%d)", uint8(o))
}

// Valid reports whether o is one of the declared operators.
func (o Operator) Valid() bool {
	_, ok := operatorTokens[o]
	return ok
}

// Operators returns every declared operator, in declaration order.
func Operators() []Operator {
	res := make([]Operator, 0, len(operatorTokens))
	for o := Eq; o <= Near; o++ {
		res = append(res, o)
	}
	return res
}

// Combinator joins two adjacent items of a [CriteriaGroup] or a [Query].
type Combinator uint8

// Supported combinators.
const (
	And Combinator = iota + 1
	Or
)

// String implements [fmt.Stringer].
func (c Combinator) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("Combinator(%d)", uint8(c))
	}
}
