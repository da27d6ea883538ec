package domain

// UpdateOp is a single update instruction. The set of implementations is
// closed: every operation is one of the *Op types declared in this package.
type UpdateOp interface {
	// FieldName returns the dot-notation field the operation targets.
	FieldName() string
	accept(UpdateVisitor) error
}

// FieldSetOp sets Field to Val.
type FieldSetOp struct {
	Field string
	Val   any
}

// FieldUnsetOp removes Field.
type FieldUnsetOp struct {
	Field string
}

// PushOp appends Val to the list under Field.
type PushOp struct {
	Field string
	Val   any
}

// PushMultiOp appends each of Vals to the list under Field.
type PushMultiOp struct {
	Field string
	Vals  []any
}

// AddToSetOp appends Val to the list under Field unless already present.
type AddToSetOp struct {
	Field string
	Val   any
}

// AddToSetMultiOp appends each of Vals not yet present in the list under
// Field.
type AddToSetMultiOp struct {
	Field string
	Vals  []any
}

// IncOp increments the number under Field by By.
type IncOp struct {
	Field string
	By    int64
}

// DecOp decrements the number under Field by By.
type DecOp struct {
	Field string
	By    int64
}

// RemoveOp removes values from a list. When Val is a collection every one of
// its elements is removed from the list under Field. Otherwise Field is read
// as "list.attribute" and every element of list whose attribute equals Val is
// removed.
type RemoveOp struct {
	Field string
	Val   any
}

func (o FieldSetOp) FieldName() string      { return o.Field }
func (o FieldUnsetOp) FieldName() string    { return o.Field }
func (o PushOp) FieldName() string          { return o.Field }
func (o PushMultiOp) FieldName() string     { return o.Field }
func (o AddToSetOp) FieldName() string      { return o.Field }
func (o AddToSetMultiOp) FieldName() string { return o.Field }
func (o IncOp) FieldName() string           { return o.Field }
func (o DecOp) FieldName() string           { return o.Field }
func (o RemoveOp) FieldName() string        { return o.Field }

func (o FieldSetOp) accept(v UpdateVisitor) error      { return v.VisitFieldSet(o) }
func (o FieldUnsetOp) accept(v UpdateVisitor) error    { return v.VisitFieldUnset(o) }
func (o PushOp) accept(v UpdateVisitor) error          { return v.VisitPush(o) }
func (o PushMultiOp) accept(v UpdateVisitor) error     { return v.VisitPushMulti(o) }
func (o AddToSetOp) accept(v UpdateVisitor) error      { return v.VisitAddToSet(o) }
func (o AddToSetMultiOp) accept(v UpdateVisitor) error { return v.VisitAddToSetMulti(o) }
func (o IncOp) accept(v UpdateVisitor) error           { return v.VisitIncrement(o) }
func (o DecOp) accept(v UpdateVisitor) error           { return v.VisitDecrement(o) }
func (o RemoveOp) accept(v UpdateVisitor) error        { return v.VisitRemove(o) }

// UpdateVisitor receives every operation of an [Updates] in insertion order.
// Returning an error stops the traversal.
type UpdateVisitor interface {
	VisitFieldSet(FieldSetOp) error
	VisitFieldUnset(FieldUnsetOp) error
	VisitPush(PushOp) error
	VisitPushMulti(PushMultiOp) error
	VisitAddToSet(AddToSetOp) error
	VisitAddToSetMulti(AddToSetMultiOp) error
	VisitIncrement(IncOp) error
	VisitDecrement(DecOp) error
	VisitRemove(RemoveOp) error
}

// Updates is an ordered list of update operations. Operations are kept as
// added, without merging or deduplication.
type Updates struct {
	ops []UpdateOp
}

// NewUpdates returns an empty update list.
func NewUpdates() *Updates {
	return &Updates{}
}

func (u *Updates) add(op UpdateOp) *Updates {
	u.ops = append(u.ops, op)
	return u
}

// AddFieldSet sets field to val.
func (u *Updates) AddFieldSet(field string, val any) *Updates {
	return u.add(FieldSetOp{Field: field, Val: val})
}

// AddFieldUnset removes field.
func (u *Updates) AddFieldUnset(field string) *Updates {
	return u.add(FieldUnsetOp{Field: field})
}

// AddListAppend appends val to the list under field.
func (u *Updates) AddListAppend(field string, val any) *Updates {
	return u.add(PushOp{Field: field, Val: val})
}

// AddListAppendMulti appends every value in vals to the list under field.
func (u *Updates) AddListAppendMulti(field string, vals ...any) *Updates {
	return u.add(PushMultiOp{Field: field, Vals: vals})
}

// AddSetAppend appends val to the list under field if not yet present.
func (u *Updates) AddSetAppend(field string, val any) *Updates {
	return u.add(AddToSetOp{Field: field, Val: val})
}

// AddSetAppendMulti appends every value in vals not yet present in the list
// under field.
func (u *Updates) AddSetAppendMulti(field string, vals ...any) *Updates {
	return u.add(AddToSetMultiOp{Field: field, Vals: vals})
}

// AddIncr increments field by one.
func (u *Updates) AddIncr(field string) *Updates {
	return u.AddIncrBy(field, 1)
}

// AddIncrBy increments field by n.
func (u *Updates) AddIncrBy(field string, n int64) *Updates {
	return u.add(IncOp{Field: field, By: n})
}

// AddDecr decrements field by one.
func (u *Updates) AddDecr(field string) *Updates {
	return u.AddDecrBy(field, 1)
}

// AddDecrBy decrements field by n.
func (u *Updates) AddDecrBy(field string, n int64) *Updates {
	return u.add(DecOp{Field: field, By: n})
}

// AddRemoveOp removes val from a list. See [RemoveOp].
func (u *Updates) AddRemoveOp(field string, val any) *Updates {
	return u.add(RemoveOp{Field: field, Val: val})
}

// Len returns the number of operations.
func (u *Updates) Len() int {
	return len(u.ops)
}

// Traverse calls the visitor method matching each operation, in insertion
// order, and returns the first error found.
func (u *Updates) Traverse(v UpdateVisitor) error {
	for _, op := range u.ops {
		if err := op.accept(v); err != nil {
			return err
		}
	}
	return nil
}
