// Package domain contains the query model and the interfaces that must be
// implemented by adapters.
//
// Criteria are combined with AND and OR without parentheses. AND binds
// tighter than OR, so "a and b or c" reads as "(a and b) or c". A translator
// turns the flat sequence into the native tree of a backend.
package domain

import (
	"context"
	"io"
	"iter"
)

// QueryTranslator compiles a [Query] into the native filter of a backend.
type QueryTranslator interface {
	// Translate returns the filter and find options for q. A non-empty
	// collection overrides the target collection. Implementations must
	// not keep state between calls.
	Translate(q *Query, collection string) (Document, FindOptions, error)
}

// UpdatesTranslator compiles [Updates] into native update operators, one per
// operation and in insertion order.
type UpdatesTranslator interface {
	Translate(u *Updates, collection string) ([]Document, error)
}

// Decoder converts between different data representations.
type Decoder interface {
	// Decode converts from one data format to another.
	Decode(any, any) error
}

// Comparer provides ordering and comparison operations for different data
// types.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(any, any) (int, error)
	// Comparable returns true if two values can be compared with the
	// lower and greater than operators.
	Comparable(any, any) bool
}

// Getter represents a value that can be treated as undefined.
type Getter interface {
	// Get returns the value and whether it is defined. Unset document
	// keys, out of bounds indexes and paths through primitive values are
	// undefined. An explicit nil is defined.
	Get() (value any, defined bool)
}

// GetSetter represents a value in a [Document] returned by
// [FieldNavigator]. It is not safe for concurrent use.
type GetSetter interface {
	Getter
	// Set will set a new value for the address.
	Set(any)
	// Unset removes the given value from the parent item.
	Unset()
}

// FieldNavigator provides field access operations with dot notation support.
type FieldNavigator interface {
	// GetAddress splits a dot-notation field into its path.
	GetAddress(field string) ([]string, error)
	// GetField returns the values found at the given path. When a list
	// is found midway, the remaining path is resolved for each of its
	// items and expanded is true.
	GetField(obj any, addr ...string) (fields []GetSetter, expanded bool, err error)
	// EnsureField works like GetField, creating missing documents and
	// keys along the path.
	EnsureField(obj any, addr ...string) ([]GetSetter, error)
}

// Document is the native record of the reference backend. It is read by one
// goroutine at a time and doesn't need to be concurrency safe.
type Document interface {
	// ID returns the document ID, if any.
	ID() any
	// D returns the subdocument for the given key, if any.
	D(string) Document
	// Get returns the value under the given key, or nil if unset.
	Get(string) any
	// Set sets the value under the given key.
	Set(string, any)
	// Unset unsets the value under the given key.
	Unset(string)
	// Iter returns an unordered sequence of key-value pairs.
	Iter() iter.Seq2[string, any]
	// Keys returns an unordered sequence of keys.
	Keys() iter.Seq[string]
	// Values returns an unordered sequence of values.
	Values() iter.Seq[any]
	// Has reports whether a value is set under the given key.
	Has(string) bool
	// Len returns the number of set fields.
	Len() int
}

// Matcher evaluates whether values match a native filter.
type Matcher interface {
	// Match returns true if the value matches the filter.
	Match(any, any) (bool, error)
}

// Modifier applies native update operators to documents.
type Modifier interface {
	// Modify applies an update document to a copy of a document and
	// returns the copy.
	Modify(Document, Document) (Document, error)
}

// Projector restricts the fields of documents.
type Projector interface {
	// Project returns copies of the documents holding only the projected
	// fields. 1 keeps a field, 0 omits it.
	Project([]Document, map[string]uint8) ([]Document, error)
}

// Querier filters, sorts, pages and projects a set of documents.
type Querier interface {
	Query([]Document, ...QueryOption) ([]Document, error)
}

// Serializer converts documents to bytes for export.
type Serializer interface {
	// Serialize converts a document to a single line of JSON.
	Serialize(context.Context, any) ([]byte, error)
}

// IDGenerator generates document IDs.
type IDGenerator interface {
	GenerateID() (string, error)
}

// Repository stores documents in named collections and runs queries and
// updates built with this package against them. Every method is safe for
// concurrent use.
type Repository interface {
	// Save inserts entity, or replaces the document with the same _id.
	// A missing _id is generated. Returns the document _id.
	Save(ctx context.Context, entity any, opts ...CallOption) (any, error)
	// SaveAll saves every entity, in order.
	SaveAll(ctx context.Context, entities []any, opts ...CallOption) ([]any, error)
	// FindByID decodes the document with the given _id into target.
	FindByID(ctx context.Context, id any, target any, opts ...CallOption) error
	// FindByIDs decodes every document with one of the given ids into
	// target, which must point to a slice.
	FindByIDs(ctx context.Context, ids []any, target any, opts ...CallOption) error
	// FindAll decodes every document into target.
	FindAll(ctx context.Context, target any, opts ...CallOption) error
	// Find decodes the documents matching q into target.
	Find(ctx context.Context, q *Query, target any, opts ...CallOption) error
	// FindWithPagingInfo returns the page selected by q and the number of
	// documents matching q regardless of paging.
	FindWithPagingInfo(ctx context.Context, q *Query, opts ...CallOption) (PagingInfo, error)
	// CountByQuery counts the documents matching q.
	CountByQuery(ctx context.Context, q *Query, opts ...CallOption) (int64, error)
	// CountAll counts every document.
	CountAll(ctx context.Context, opts ...CallOption) (int64, error)
	// Distinct returns the distinct values of field among the documents
	// matching q, in ascending order. A nil q matches everything.
	Distinct(ctx context.Context, field string, q *Query, opts ...CallOption) ([]any, error)
	// Update applies u to every document matching q.
	Update(ctx context.Context, q *Query, u *Updates, opts ...CallOption) (int64, error)
	// UpdateByID applies u to the document with the given _id.
	UpdateByID(ctx context.Context, id any, u *Updates, opts ...CallOption) error
	// Upsert works like Update, inserting a new document seeded with the
	// equality criteria of q when nothing matches.
	Upsert(ctx context.Context, q *Query, u *Updates, opts ...CallOption) (int64, error)
	// RemoveAll applies remove operations to every document matching q.
	// Any other kind of operation is rejected.
	RemoveAll(ctx context.Context, q *Query, u *Updates, opts ...CallOption) (int64, error)
	// DeleteByID deletes the document with the given _id.
	DeleteByID(ctx context.Context, id any, opts ...CallOption) (int64, error)
	// DeleteByIDs deletes every document with one of the given ids.
	DeleteByIDs(ctx context.Context, ids []any, opts ...CallOption) (int64, error)
	// DeleteByQuery deletes every document matching q.
	DeleteByQuery(ctx context.Context, q *Query, opts ...CallOption) (int64, error)
	// DeleteAll deletes every document.
	DeleteAll(ctx context.Context, opts ...CallOption) (int64, error)
	// Delete deletes the document with the same _id as entity.
	Delete(ctx context.Context, entity any, opts ...CallOption) (int64, error)
	// CollectionExists reports whether the collection holds documents.
	CollectionExists(ctx context.Context, opts ...CallOption) (bool, error)
	// Import saves every document of a newline-delimited JSON stream and
	// returns how many documents were written. Lines sharing an _id count
	// once.
	Import(ctx context.Context, r io.Reader, opts ...CallOption) (int64, error)
	// Export writes every document as one line of JSON, in the format read
	// by Import.
	Export(ctx context.Context, w io.Writer, opts ...CallOption) (int64, error)
}
