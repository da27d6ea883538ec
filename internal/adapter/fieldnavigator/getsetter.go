package fieldnavigator

import "github.com/vinicius-lino-figueiredo/gequery/domain"

// undefined is returned for paths that cannot be resolved.
var undefined domain.GetSetter = &getSetter{}

type getSetter struct {
	get   func() (any, bool)
	set   func(any)
	unset func()
}

func docField(doc domain.Document, key string) domain.GetSetter {
	return &getSetter{
		get:   func() (any, bool) { return doc.Get(key), doc.Has(key) },
		set:   func(value any) { doc.Set(key, value) },
		unset: func() { doc.Unset(key) },
	}
}

// listItem returns a [domain.GetSetter] for list[index]. Unsetting an item
// sets it to nil, so the other indexes don't move.
func listItem(list []any, index int) domain.GetSetter {
	valid := func() bool { return index >= 0 && index < len(list) }
	return &getSetter{
		get: func() (any, bool) {
			if valid() {
				return list[index], true
			}
			return nil, false
		},
		set: func(value any) {
			if valid() {
				list[index] = value
			}
		},
		unset: func() {
			if valid() {
				list[index] = nil
			}
		},
	}
}

// Get implements [domain.GetSetter].
func (gs *getSetter) Get() (any, bool) {
	if gs.get != nil {
		return gs.get()
	}
	return nil, false
}

// Set implements [domain.GetSetter].
func (gs *getSetter) Set(value any) {
	if gs.set != nil {
		gs.set(value)
	}
}

// Unset implements [domain.GetSetter].
func (gs *getSetter) Unset() {
	if gs.unset != nil {
		gs.unset()
	}
}
