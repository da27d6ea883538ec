// Package modifier contains the default [domain.Modifier] implementation. It
// applies the native update operators produced by the updates translator.
package modifier

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/matcher"
)

var (
	// ErrMixedModifiers is returned when an update mixes operators and
	// plain fields.
	ErrMixedModifiers = errors.New("cannot mix modifiers and normal fields")
)

// ErrUnknownModifier is returned for an unknown dollar field.
type ErrUnknownModifier struct {
	Modifier string
}

// Error implements [error].
func (e ErrUnknownModifier) Error() string {
	return fmt.Sprintf("unknown modifier %q", e.Modifier)
}

// ErrModArgType is returned when a modifier is called with an argument, or
// applied to a field, of invalid type.
type ErrModArgType struct {
	Modifier string
	Want     string
	Actual   any
}

// Error implements [error].
func (e ErrModArgType) Error() string {
	return fmt.Sprintf("%s requires %s, got %T", e.Modifier, e.Want, e.Actual)
}

type modFunc func(domain.Document, []string, any) error

// Modifier implements [domain.Modifier].
type Modifier struct {
	comp           domain.Comparer
	docFac         domain.DocumentFactory
	fieldNavigator domain.FieldNavigator
	matcher        domain.Matcher
	mods           map[string]modFunc
}

// NewModifier returns a new implementation of [domain.Modifier].
func NewModifier(opts ...Option) domain.Modifier {
	m := &Modifier{
		comp:   comparer.NewComparer(),
		docFac: data.NewDocument,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fieldNavigator == nil {
		m.fieldNavigator = fieldnavigator.NewFieldNavigator(
			fieldnavigator.WithDocumentFactory(m.docFac),
		)
	}
	if m.matcher == nil {
		m.matcher = matcher.NewMatcher(
			matcher.WithComparer(m.comp),
			matcher.WithDocumentFactory(m.docFac),
			matcher.WithFieldNavigator(m.fieldNavigator),
		)
	}

	m.mods = map[string]modFunc{
		"$set":      m.set,
		"$unset":    m.unset,
		"$inc":      m.inc,
		"$push":     m.push,
		"$addToSet": m.addToSet,
		"$pull":     m.pull,
		"$pullAll":  m.pullAll,
	}
	return m
}

// Modify implements [domain.Modifier]. An update without operators replaces
// the document, keeping its _id. The original document is never changed.
func (m *Modifier) Modify(obj domain.Document, update domain.Document) (domain.Document, error) {
	mods, replace, err := m.modQuery(update)
	if err != nil {
		return nil, err
	}

	var res domain.Document
	if replace {
		res, err = m.replace(obj, mods)
	} else {
		res, err = m.apply(obj, mods)
	}
	if err != nil {
		return nil, err
	}

	c, err := m.comp.Compare(obj.ID(), res.ID())
	if err != nil {
		return nil, err
	}
	if c != 0 {
		return nil, domain.ErrCannotModifyID
	}
	return res, nil
}

func (m *Modifier) modQuery(update domain.Document) (map[string]any, bool, error) {
	mods := make(map[string]any, update.Len())
	dollarFields := 0
	for k, v := range update.Iter() {
		if strings.HasPrefix(k, "$") {
			dollarFields++
		}
		mods[k] = v
	}
	if dollarFields != 0 && dollarFields != len(mods) {
		return nil, false, ErrMixedModifiers
	}
	return mods, dollarFields == 0, nil
}

func (m *Modifier) replace(obj domain.Document, fields map[string]any) (domain.Document, error) {
	res, err := m.docFac(fields)
	if err != nil {
		return nil, err
	}
	if !res.Has("_id") {
		res.Set("_id", obj.ID())
	}
	return res, nil
}

func (m *Modifier) apply(obj domain.Document, mods map[string]any) (domain.Document, error) {
	// validating every modifier before changing anything
	names := slices.Sorted(maps.Keys(mods))
	args := make([]domain.Document, len(names))
	for n, name := range names {
		if _, ok := m.mods[name]; !ok {
			return nil, ErrUnknownModifier{Modifier: name}
		}
		d, ok := mods[name].(domain.Document)
		if !ok {
			return nil, ErrModArgType{Modifier: name, Want: "a document", Actual: mods[name]}
		}
		args[n] = d
	}

	res, err := m.docFac(obj)
	if err != nil {
		return nil, err
	}

	for n, name := range names {
		for key, arg := range args[n].Iter() {
			addr, err := m.fieldNavigator.GetAddress(key)
			if err != nil {
				return nil, err
			}
			if err := m.mods[name](res, addr, arg); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (m *Modifier) set(obj domain.Document, addr []string, arg any) error {
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if _, defined := field.Get(); defined {
			field.Set(arg)
		}
	}
	return nil
}

func (m *Modifier) unset(obj domain.Document, addr []string, _ any) error {
	fields, _, err := m.fieldNavigator.GetField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if _, defined := field.Get(); defined {
			field.Unset()
		}
	}
	return nil
}

func (m *Modifier) inc(obj domain.Document, addr []string, arg any) error {
	if _, ok := asFloat(arg); !ok {
		return ErrModArgType{Modifier: "$inc", Want: "a number", Actual: arg}
	}
	fields, err := m.fieldNavigator.EnsureField(obj, addr...)
	if err != nil {
		return err
	}
	for _, field := range fields {
		value, defined := field.Get()
		if !defined {
			continue
		}
		if value == nil {
			value = int64(0)
		}
		sum, ok := add(value, arg)
		if !ok {
			return ErrModArgType{Modifier: "$inc", Want: "a number field", Actual: value}
		}
		field.Set(sum)
	}
	return nil
}

// listFields returns the list stored at every defined field of addr, creating
// missing ones when ensure is set.
func (m *Modifier) listFields(obj domain.Document, addr []string, name string, ensure bool) ([]domain.GetSetter, [][]any, error) {
	var fields []domain.GetSetter
	var err error
	if ensure {
		fields, err = m.fieldNavigator.EnsureField(obj, addr...)
	} else {
		fields, _, err = m.fieldNavigator.GetField(obj, addr...)
	}
	if err != nil {
		return nil, nil, err
	}

	resFields := make([]domain.GetSetter, 0, len(fields))
	lists := make([][]any, 0, len(fields))
	for _, field := range fields {
		value, defined := field.Get()
		if !defined || (value == nil && !ensure) {
			continue
		}
		if value == nil {
			value = []any{}
		}
		list, ok := value.([]any)
		if !ok {
			return nil, nil, ErrModArgType{Modifier: name, Want: "a list field", Actual: value}
		}
		resFields = append(resFields, field)
		lists = append(lists, list)
	}
	return resFields, lists, nil
}

// eachOf returns the values to be appended by $push and $addToSet. A document
// holding $each appends every item of it, anything else is a single value.
func (m *Modifier) eachOf(name string, arg any) ([]any, *int, error) {
	d, ok := arg.(domain.Document)
	if !ok || !d.Has("$each") {
		return []any{arg}, nil, nil
	}
	each, ok := data.AsList(d.Get("$each"))
	if !ok {
		return nil, nil, ErrModArgType{Modifier: name, Want: "a list in $each", Actual: d.Get("$each")}
	}
	used := 1
	var slice *int
	if d.Has("$slice") {
		n, ok := asFloat(d.Get("$slice"))
		if !ok || n != math.Trunc(n) || name != "$push" {
			return nil, nil, ErrModArgType{Modifier: name, Want: "an integer $slice", Actual: d.Get("$slice")}
		}
		used++
		i := int(n)
		slice = &i
	}
	if d.Len() > used {
		return nil, nil, ErrModArgType{Modifier: name, Want: "only $each and $slice", Actual: arg}
	}
	return each, slice, nil
}

func (m *Modifier) push(obj domain.Document, addr []string, arg any) error {
	values, slice, err := m.eachOf("$push", arg)
	if err != nil {
		return err
	}
	fields, lists, err := m.listFields(obj, addr, "$push", true)
	if err != nil {
		return err
	}
	for n, field := range fields {
		res := append(lists[n], values...)
		if slice != nil {
			res = sliceList(res, *slice)
		}
		field.Set(res)
	}
	return nil
}

func sliceList(l []any, n int) []any {
	if n >= 0 {
		return l[:min(n, len(l))]
	}
	return l[len(l)-min(-n, len(l)):]
}

func (m *Modifier) addToSet(obj domain.Document, addr []string, arg any) error {
	values, _, err := m.eachOf("$addToSet", arg)
	if err != nil {
		return err
	}
	fields, lists, err := m.listFields(obj, addr, "$addToSet", true)
	if err != nil {
		return err
	}
	for n, field := range fields {
		list := lists[n]
		for _, value := range values {
			found, err := m.contains(list, value)
			if err != nil {
				return err
			}
			if !found {
				list = append(list, value)
			}
		}
		field.Set(list)
	}
	return nil
}

func (m *Modifier) pull(obj domain.Document, addr []string, arg any) error {
	fields, lists, err := m.listFields(obj, addr, "$pull", false)
	if err != nil {
		return err
	}
	for n, field := range fields {
		res := make([]any, 0, len(lists[n]))
		for _, item := range lists[n] {
			matches, err := m.matcher.Match(item, arg)
			if err != nil {
				return err
			}
			if !matches {
				res = append(res, item)
			}
		}
		field.Set(res)
	}
	return nil
}

func (m *Modifier) pullAll(obj domain.Document, addr []string, arg any) error {
	values, ok := data.AsList(arg)
	if !ok {
		return ErrModArgType{Modifier: "$pullAll", Want: "a list", Actual: arg}
	}
	fields, lists, err := m.listFields(obj, addr, "$pullAll", false)
	if err != nil {
		return err
	}
	for n, field := range fields {
		res := make([]any, 0, len(lists[n]))
		for _, item := range lists[n] {
			found, err := m.contains(values, item)
			if err != nil {
				return err
			}
			if !found {
				res = append(res, item)
			}
		}
		field.Set(res)
	}
	return nil
}

func (m *Modifier) contains(list []any, value any) (bool, error) {
	for _, item := range list {
		c, err := m.comp.Compare(item, value)
		if err != nil {
			return false, err
		}
		if c == 0 {
			return true, nil
		}
	}
	return false, nil
}

// add sums two numbers. Integers stay int64 unless the other operand is a
// float.
func add(a, b any) (any, bool) {
	ai, aInt := asInt(a)
	bi, bInt := asInt(b)
	if aInt && bInt {
		return ai + bi, true
	}
	af, ok1 := asFloat(a)
	bf, ok2 := asFloat(b)
	return af + bf, ok1 && ok2
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
