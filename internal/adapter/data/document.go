// Package data contains [M], the map-based [domain.Document] used by the
// reference backend, and the conversion of Go values into documents.
package data

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	goreflect "github.com/goccy/go-reflect"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// TagName is the struct tag read when converting structs into documents.
const TagName = "gequery"

var timeTyp = goreflect.TypeOf(time.Time{})

// M implements domain.Document by using a hashed map. Duplicates replace old
// values.
type M map[string]any

// NewDocument returns a new instance of [domain.Document] holding the fields
// of in, which must be a map with string keys or a struct. Nested maps and
// structs become documents and slices become []any, at any depth.
func NewDocument(in any) (domain.Document, error) {
	if in == nil {
		return M{}, nil
	}
	if doc, ok := in.(domain.Document); ok {
		return Clone(doc), nil
	}

	r := goreflect.ValueNoEscapeOf(in)
	for r.Kind() == goreflect.Interface || r.Kind() == reflect.Pointer {
		if r.IsNil() {
			return M{}, nil
		}
		r = r.Elem()
	}
	if r.Kind() != goreflect.Struct && r.Kind() != goreflect.Map {
		return nil, fmt.Errorf("expected map or struct, got %s", r.Type().String())
	}
	if r.Type() == timeTyp {
		return nil, fmt.Errorf("expected map or struct, got %s", r.Type().String())
	}
	v, err := normalize(r)
	if err != nil {
		return nil, err
	}
	return v.(domain.Document), nil
}

// Normalize converts v into the representation used inside documents: maps
// and structs become [M], slices and arrays become []any. Other values are
// returned as they are.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, float64, int, int64, time.Time:
		return v, nil
	case domain.Document:
		return Clone(t), nil
	}
	return normalize(goreflect.ValueNoEscapeOf(v))
}

// AsList returns v as a []any if it is a slice or an array of any element
// type.
func AsList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	if v == nil {
		return nil, false
	}
	r := goreflect.ValueNoEscapeOf(v)
	if r.Kind() != goreflect.Slice && r.Kind() != goreflect.Array {
		return nil, false
	}
	res := make([]any, r.Len())
	for i := range res {
		res[i] = r.Index(i).Interface()
	}
	return res, true
}

// Clone returns a deep copy of doc as an [M]. Lists are copied too.
func Clone(doc domain.Document) M {
	res := make(M, doc.Len())
	for k, v := range doc.Iter() {
		res[k] = cloneValue(v)
	}
	return res
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case domain.Document:
		return Clone(t)
	case []any:
		res := make([]any, len(t))
		for n, item := range t {
			res[n] = cloneValue(item)
		}
		return res
	default:
		return v
	}
}

func normalize(r goreflect.Value) (any, error) {
	for r.Kind() == reflect.Pointer || r.Kind() == goreflect.Interface {
		if r.IsNil() {
			return nil, nil
		}
		r = r.Elem()
	}
	switch r.Kind() {
	case goreflect.Invalid:
		return nil, nil
	case goreflect.Slice:
		if r.IsNil() {
			return nil, nil
		}
		if r.Type().Elem().Kind() == reflect.Uint8 {
			return r.Interface(), nil
		}
		return normalizeList(r)
	case goreflect.Array:
		return normalizeList(r)
	case goreflect.Struct:
		if r.Type() == timeTyp {
			return r.Interface(), nil
		}
		if doc, ok := r.Interface().(domain.Document); ok {
			return Clone(doc), nil
		}
		return normalizeStruct(r)
	case goreflect.Map:
		if r.IsNil() {
			return nil, nil
		}
		if doc, ok := r.Interface().(domain.Document); ok {
			return Clone(doc), nil
		}
		if r.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("expected string map keys, got %s", r.Type().Key().String())
		}
		return normalizeMap(r)
	case goreflect.Chan, goreflect.Func:
		return nil, fmt.Errorf("cannot store value of type %s", r.Type().String())
	default:
		return r.Interface(), nil
	}
}

func normalizeList(r goreflect.Value) (any, error) {
	res := make([]any, r.Len())
	for i := range res {
		v, err := normalize(r.Index(i))
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func normalizeMap(r goreflect.Value) (M, error) {
	res := make(M, r.Len())
	for _, k := range r.MapKeys() {
		v, err := normalize(r.MapIndex(k))
		if err != nil {
			return nil, err
		}
		res[k.String()] = v
	}
	return res, nil
}

func normalizeStruct(r goreflect.Value) (M, error) {
	typ := r.Type()
	res := make(M, r.NumField())
	for n := range r.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name, omit := fieldName(field, r.Field(n))
		if omit {
			continue
		}
		v, err := normalize(r.Field(n))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		res[name] = v
	}
	return res, nil
}

func fieldName(field goreflect.StructField, r goreflect.Value) (string, bool) {
	tag, ok := field.Tag.Lookup(TagName)
	if !ok {
		return field.Name, false
	}
	if tag == "-" {
		return "", true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	flags := strings.Split(opts, ",")
	if slices.Contains(flags, "omitempty") && isNullable(field.Type) && r.IsNil() {
		return name, true
	}
	if slices.Contains(flags, "omitzero") && r.IsZero() {
		return name, true
	}
	return name, false
}

func isNullable(t goreflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}

// ID implements domain.Document
func (d M) ID() any {
	return d["_id"]
}

// Get implements domain.Document
func (d M) Get(key string) any {
	return d[key]
}

// Set implements domain.Document
func (d M) Set(key string, value any) {
	d[key] = value
}

// Unset implements domain.Document
func (d M) Unset(key string) {
	delete(d, key)
}

// D implements domain.Document
func (d M) D(key string) domain.Document {
	if doc, ok := d[key].(domain.Document); ok {
		return doc
	}
	return nil
}

// Iter implements domain.Document.
func (d M) Iter() iter.Seq2[string, any] {
	return maps.All(d)
}

// Keys implements domain.Document.
func (d M) Keys() iter.Seq[string] {
	return maps.Keys(d)
}

// Len implements domain.Document.
func (d M) Len() int {
	return len(d)
}

// Values implements domain.Document.
func (d M) Values() iter.Seq[any] {
	return maps.Values(d)
}

// Has implements domain.Document.
func (d M) Has(key string) bool {
	_, has := d[key]
	return has
}
