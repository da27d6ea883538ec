// Package updater contains the default [domain.UpdatesTranslator]
// implementation, which turns [domain.Updates] into the update documents
// understood by the modifier package.
package updater

import (
	"fmt"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// ErrNilUpdates is returned when nil updates are translated.
var ErrNilUpdates = fmt.Errorf("%w: updates are nil", domain.ErrInvalidArgument)

// Updater implements [domain.UpdatesTranslator].
type Updater struct {
	docFac domain.DocumentFactory
}

// NewUpdater returns a new implementation of [domain.UpdatesTranslator].
func NewUpdater(opts ...Option) domain.UpdatesTranslator {
	u := Updater{docFac: data.NewDocument}
	for _, opt := range opts {
		opt(&u)
	}
	return &u
}

// Translate implements [domain.UpdatesTranslator]. Each operation becomes
// one update document, in the order the operations were added.
func (u *Updater) Translate(updates *domain.Updates, _ string) ([]domain.Document, error) {
	if updates == nil {
		return nil, ErrNilUpdates
	}
	v := &visitor{u: u, res: make([]domain.Document, 0, updates.Len())}
	if err := updates.Traverse(v); err != nil {
		return nil, err
	}
	return v.res, nil
}

func (u *Updater) doc(key string, value any) (domain.Document, error) {
	d, err := u.docFac(nil)
	if err != nil {
		return nil, err
	}
	d.Set(key, value)
	return d, nil
}

// op builds {mod: {field: value}}.
func (u *Updater) op(mod, field string, value any) (domain.Document, error) {
	inner, err := u.doc(field, value)
	if err != nil {
		return nil, err
	}
	return u.doc(mod, inner)
}

// each builds {"$each": values}.
func (u *Updater) each(values []any) (domain.Document, error) {
	list := make([]any, len(values))
	for n, v := range values {
		norm, err := data.Normalize(v)
		if err != nil {
			return nil, err
		}
		list[n] = norm
	}
	return u.doc("$each", list)
}

type visitor struct {
	u   *Updater
	res []domain.Document
}

func (v *visitor) add(doc domain.Document, err error) error {
	if err != nil {
		return err
	}
	v.res = append(v.res, doc)
	return nil
}

func (v *visitor) value(mod, field string, value any) error {
	norm, err := data.Normalize(value)
	if err != nil {
		return err
	}
	return v.add(v.u.op(mod, field, norm))
}

func (v *visitor) multi(mod, field string, values []any) error {
	each, err := v.u.each(values)
	if err != nil {
		return err
	}
	return v.add(v.u.op(mod, field, each))
}

// VisitFieldSet implements [domain.UpdateVisitor].
func (v *visitor) VisitFieldSet(op domain.FieldSetOp) error {
	return v.value("$set", op.Field, op.Val)
}

// VisitFieldUnset implements [domain.UpdateVisitor].
func (v *visitor) VisitFieldUnset(op domain.FieldUnsetOp) error {
	return v.add(v.u.op("$unset", op.Field, true))
}

// VisitPush implements [domain.UpdateVisitor]. A collection value appends
// each of its items.
func (v *visitor) VisitPush(op domain.PushOp) error {
	if items, ok := collection(op.Val); ok {
		return v.multi("$push", op.Field, items)
	}
	return v.value("$push", op.Field, op.Val)
}

// VisitPushMulti implements [domain.UpdateVisitor].
func (v *visitor) VisitPushMulti(op domain.PushMultiOp) error {
	return v.multi("$push", op.Field, op.Vals)
}

// VisitAddToSet implements [domain.UpdateVisitor]. The value is added as a
// single item even when it is a collection.
func (v *visitor) VisitAddToSet(op domain.AddToSetOp) error {
	return v.value("$addToSet", op.Field, op.Val)
}

// VisitAddToSetMulti implements [domain.UpdateVisitor].
func (v *visitor) VisitAddToSetMulti(op domain.AddToSetMultiOp) error {
	return v.multi("$addToSet", op.Field, op.Vals)
}

// VisitIncrement implements [domain.UpdateVisitor]. Amounts lower than one
// increment by one.
func (v *visitor) VisitIncrement(op domain.IncOp) error {
	return v.add(v.u.op("$inc", op.Field, amount(op.By)))
}

// VisitDecrement implements [domain.UpdateVisitor]. Amounts lower than one
// decrement by one.
func (v *visitor) VisitDecrement(op domain.DecOp) error {
	return v.add(v.u.op("$inc", op.Field, -amount(op.By)))
}

// VisitRemove implements [domain.UpdateVisitor]. A collection value removes
// all of its items from the list at op.Field. Otherwise op.Field is split on
// its first dot into a list and an attribute, and list items whose attribute
// equals the value are removed. Without a dot, items equal to the value are
// removed.
func (v *visitor) VisitRemove(op domain.RemoveOp) error {
	if items, ok := collection(op.Val); ok {
		list := make([]any, len(items))
		for n, item := range items {
			norm, err := data.Normalize(item)
			if err != nil {
				return err
			}
			list[n] = norm
		}
		return v.add(v.u.op("$pullAll", op.Field, list))
	}

	norm, err := data.Normalize(op.Val)
	if err != nil {
		return err
	}

	parent, child, nested := strings.Cut(op.Field, ".")
	if parent == "" || (nested && child == "") {
		return domain.ErrRemoveField{Field: op.Field}
	}
	if !nested {
		return v.add(v.u.op("$pull", parent, norm))
	}
	cond, err := v.u.doc(child, norm)
	if err != nil {
		return err
	}
	return v.add(v.u.op("$pull", parent, cond))
}

func amount(by int64) int64 {
	if by > 0 {
		return by
	}
	return 1
}

// collection reports whether v is a slice or array other than []byte.
func collection(v any) ([]any, bool) {
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	return data.AsList(v)
}
