package domain

// QueryOptions configures a [Querier] call.
type QueryOptions struct {
	Query      Document
	Sort       Sort
	Skip       int64
	Limit      int64
	Projection map[string]uint8
}

// QueryOption configures a [Querier] call through the functional options
// pattern.
type QueryOption func(*QueryOptions)

// WithQuery sets the filter documents must match.
func WithQuery(q Document) QueryOption {
	return func(o *QueryOptions) {
		o.Query = q
	}
}

// WithQuerySort sets the sort order.
func WithQuerySort(s Sort) QueryOption {
	return func(o *QueryOptions) {
		o.Sort = s
	}
}

// WithQuerySkip sets how many matching documents are skipped.
func WithQuerySkip(n int64) QueryOption {
	return func(o *QueryOptions) {
		o.Skip = n
	}
}

// WithQueryLimit sets the maximum number of documents returned. Zero means no
// limit.
func WithQueryLimit(n int64) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = n
	}
}

// WithQueryProjection sets the fields returned.
func WithQueryProjection(p map[string]uint8) QueryOption {
	return func(o *QueryOptions) {
		o.Projection = p
	}
}

// WithFindOptions applies the sort, paging and projection of a translated
// query.
func WithFindOptions(fo FindOptions) QueryOption {
	return func(o *QueryOptions) {
		o.Sort = fo.Sort
		o.Skip = fo.Skip
		o.Limit = fo.Limit
		o.Projection = fo.Projection
	}
}

// CallOptions configures a single [Repository] call.
type CallOptions struct {
	Collection string
}

// CallOption configures a single [Repository] call through the functional
// options pattern.
type CallOption func(*CallOptions)

// WithCollection targets the named collection instead of the repository
// default.
func WithCollection(name string) CallOption {
	return func(o *CallOptions) {
		o.Collection = name
	}
}
