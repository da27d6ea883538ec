package domain

// Criterion is a single predicate comparing a document field to a value. The
// value shape is only checked when the criterion is translated.
type Criterion struct {
	field string
	op    Operator
	val   any
}

// NewCriterion returns a criterion comparing field to val using op.
func NewCriterion(field string, op Operator, val any) *Criterion {
	return &Criterion{field: field, op: op, val: val}
}

// Field returns the dot-notation field name.
func (c *Criterion) Field() string { return c.field }

// Operator returns the comparison operator.
func (c *Criterion) Operator() Operator { return c.op }

// Value returns the value the field is compared to.
func (c *Criterion) Value() any { return c.val }

// WithField sets the field name and returns c.
func (c *Criterion) WithField(field string) *Criterion {
	c.field = field
	return c
}

// WithOperator sets the operator and returns c.
func (c *Criterion) WithOperator(op Operator) *Criterion {
	c.op = op
	return c
}

// WithValue sets the value and returns c.
func (c *Criterion) WithValue(val any) *Criterion {
	c.val = val
	return c
}

// Render implements [Renderer].
func (c *Criterion) Render() string {
	return "(" + c.field + c.op.String() + renderValue(c.val) + ")"
}

// RenderTemplated implements [Renderer].
func (c *Criterion) RenderTemplated() string {
	return "(" + c.field + c.op.String() + redacted + ")"
}
