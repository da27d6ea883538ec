// Package gequery provides a fluent criteria API for building document
// queries and updates, and the translators that turn them into MongoDB-like
// filter and update documents.
//
// Criteria are joined with AND and OR without parentheses. AND binds tighter
// than OR, so the query
//
//	NewQuery(NewCriteriaGroup(a).And(b).Or(c))
//
// is read as "(a and b) or c". The translators returned by
// [NewQueryTranslator] and [NewUpdatesTranslator] compile queries and updates
// into native documents, and [NewRepository] runs them against an in-memory
// store.
package gequery

import (
	"log/slog"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/repository"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/translator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/updater"
)

var (
	// ErrInvalidArgument is wrapped by every error caused by a malformed
	// query, update or option.
	ErrInvalidArgument = domain.ErrInvalidArgument
	// ErrUnsupportedOperation is wrapped by errors returned when a
	// [Repository] cannot perform an operation with the given options.
	ErrUnsupportedOperation = domain.ErrUnsupportedOperation
	// ErrNotFound is returned by [Repository.FindByID] when no document has
	// the given _id.
	ErrNotFound = domain.ErrNotFound
	// ErrCannotModifyID is returned when an update would change the _id of
	// a document.
	ErrCannotModifyID = domain.ErrCannotModifyID
)

// ErrTargetNil is returned when a nil target is given to decode results.
type ErrTargetNil = domain.ErrTargetNil

// ErrPageValue is returned when a page number or size is negative.
type ErrPageValue = domain.ErrPageValue

// ErrPagination is returned by a [QueryTranslator] when only one of page
// number and page size is set.
type ErrPagination = domain.ErrPagination

// ErrOperatorValue is returned when a criterion value does not fit its
// operator.
type ErrOperatorValue = domain.ErrOperatorValue

// ErrUnknownOperator is returned for operators without a translation.
type ErrUnknownOperator = domain.ErrUnknownOperator

// ErrCombinatorCount is returned when a sequence does not have exactly one
// combinator less than items.
type ErrCombinatorCount = domain.ErrCombinatorCount

// ErrReadPreference is returned when parsing an unknown read preference.
type ErrReadPreference = domain.ErrReadPreference

// ErrRemoveField is returned for remove operations on fields that cannot be
// split into a parent and a child.
type ErrRemoveField = domain.ErrRemoveField

// ErrUnsupported is returned when an operation is not available.
type ErrUnsupported = domain.ErrUnsupported

// Operator identifies the comparison a [Criterion] applies.
type Operator = domain.Operator

// Supported operators.
const (
	Eq                 = domain.Eq
	EqIgnoreCase       = domain.EqIgnoreCase
	Lt                 = domain.Lt
	Lte                = domain.Lte
	Gt                 = domain.Gt
	Gte                = domain.Gte
	Ne                 = domain.Ne
	Contains           = domain.Contains
	ContainsIgnoreCase = domain.ContainsIgnoreCase
	In                 = domain.In
	NotIn              = domain.NotIn
	ElemMatch          = domain.ElemMatch
	Near               = domain.Near
)

// Combinator joins adjacent criteria or groups.
type Combinator = domain.Combinator

// Supported combinators.
const (
	And = domain.And
	Or  = domain.Or
)

// LopContent classifies the combinators of a group or query.
type LopContent = domain.LopContent

// Possible classifications.
const (
	LopUnset   = domain.LopUnset
	LopAndOnly = domain.LopAndOnly
	LopOrOnly  = domain.LopOrOnly
	LopMixed   = domain.LopMixed
)

// ReadPreference selects which replica a read should target.
type ReadPreference = domain.ReadPreference

// Read preferences. ReadPreferenceUnset falls back to the translator default.
const (
	ReadPreferenceUnset = domain.ReadPreferenceUnset
	Primary             = domain.Primary
	PrimaryPreferred    = domain.PrimaryPreferred
	Secondary           = domain.Secondary
	SecondaryPreferred  = domain.SecondaryPreferred
	Nearest             = domain.Nearest
)

// ParseReadPreference returns the read preference with the given name.
func ParseReadPreference(s string) (ReadPreference, error) {
	return domain.ParseReadPreference(s)
}

// Criterion is a single field/operator/value condition.
type Criterion = domain.Criterion

// NewCriterion returns a criterion comparing field with val using op.
func NewCriterion(field string, op Operator, val any) *Criterion {
	return domain.NewCriterion(field, op, val)
}

// CriteriaGroup is a flat sequence of criteria joined by combinators.
type CriteriaGroup = domain.CriteriaGroup

// NewCriteriaGroup returns a group starting with first.
func NewCriteriaGroup(first *Criterion) *CriteriaGroup {
	return domain.NewCriteriaGroup(first)
}

// Query is a flat sequence of criteria groups with sorting, paging,
// projection and read preference.
type Query = domain.Query

// NewQuery returns a query starting with first.
func NewQuery(first *CriteriaGroup) *Query {
	return domain.NewQuery(first)
}

// Direction is the direction of an [OrderBy].
type Direction = domain.Direction

// Sort directions.
const (
	Asc  = domain.Asc
	Desc = domain.Desc
)

// OrderBy is one sort key of a [Query].
type OrderBy = domain.OrderBy

// NewOrderBy returns an ascending sort key on field.
func NewOrderBy(field string) OrderBy {
	return domain.NewOrderBy(field)
}

// Coordinate is the value of a [Near] criterion.
type Coordinate = domain.Coordinate

// Updates is an ordered list of update operations.
type Updates = domain.Updates

// NewUpdates returns an empty list of updates.
func NewUpdates() *Updates {
	return domain.NewUpdates()
}

// UpdateOp is a single update operation.
type UpdateOp = domain.UpdateOp

// UpdateVisitor is implemented by anything that traverses [Updates].
type UpdateVisitor = domain.UpdateVisitor

// Update operations passed to an [UpdateVisitor].
type (
	FieldSetOp      = domain.FieldSetOp
	FieldUnsetOp    = domain.FieldUnsetOp
	PushOp          = domain.PushOp
	PushMultiOp     = domain.PushMultiOp
	AddToSetOp      = domain.AddToSetOp
	AddToSetMultiOp = domain.AddToSetMultiOp
	IncOp           = domain.IncOp
	DecOp           = domain.DecOp
	RemoveOp        = domain.RemoveOp
)

// Document is the native representation of filters, updates and stored
// data.
type Document = domain.Document

// DocumentFactory builds a [Document] from structured data.
type DocumentFactory = domain.DocumentFactory

// Sort is an ordered list of native sort keys.
type Sort = domain.Sort

// SortName is a native sort key.
type SortName = domain.SortName

// FindOptions carries everything a translated [Query] needs besides its
// filter.
type FindOptions = domain.FindOptions

// PagingInfo holds a page of documents and the total number of matches.
type PagingInfo = domain.PagingInfo

// QueryTranslator compiles a [Query] into a native filter.
type QueryTranslator = domain.QueryTranslator

// UpdatesTranslator compiles [Updates] into native update documents.
type UpdatesTranslator = domain.UpdatesTranslator

// Repository stores documents and runs queries and updates against them.
type Repository = domain.Repository

// CallOption configures a single [Repository] call.
type CallOption = domain.CallOption

// WithCollection targets the named collection in a single [Repository]
// call.
func WithCollection(name string) CallOption {
	return domain.WithCollection(name)
}

// Decoder decodes documents into user types.
type Decoder = domain.Decoder

// Comparer compares native values.
type Comparer = domain.Comparer

// FieldNavigator reads and writes dotted field addresses.
type FieldNavigator = domain.FieldNavigator

// Matcher evaluates native filters against documents.
type Matcher = domain.Matcher

// Modifier applies native update documents.
type Modifier = domain.Modifier

// Querier filters, sorts, pages and projects documents.
type Querier = domain.Querier

// IDGenerator generates _id values for new documents.
type IDGenerator = domain.IDGenerator

// Serializer encodes documents written by [Repository.Export].
type Serializer = domain.Serializer

// TranslatorOption configures the translator returned by
// [NewQueryTranslator].
type TranslatorOption = translator.Option

// WithTranslatorDocumentFactory sets the factory used to build filter
// documents.
func WithTranslatorDocumentFactory(df DocumentFactory) TranslatorOption {
	return translator.WithDocumentFactory(df)
}

// WithTranslatorReadPreference sets the read preference of queries that do
// not set one. Defaults to [ReadPreferenceUnset], leaving the choice to the
// backend.
func WithTranslatorReadPreference(rp ReadPreference) TranslatorOption {
	return translator.WithDefaultReadPreference(rp)
}

// NewQueryTranslator returns the default [QueryTranslator]. See
// [WithTranslatorDocumentFactory] and [WithTranslatorReadPreference].
func NewQueryTranslator(options ...TranslatorOption) QueryTranslator {
	return translator.NewTranslator(options...)
}

// UpdaterOption configures the translator returned by
// [NewUpdatesTranslator].
type UpdaterOption = updater.Option

// WithUpdaterDocumentFactory sets the factory used to build update
// documents.
func WithUpdaterDocumentFactory(df DocumentFactory) UpdaterOption {
	return updater.WithDocumentFactory(df)
}

// NewUpdatesTranslator returns the default [UpdatesTranslator].
func NewUpdatesTranslator(options ...UpdaterOption) UpdatesTranslator {
	return updater.NewUpdater(options...)
}

// Option configures the repository returned by [NewRepository].
type Option = repository.Option

// WithDefaultCollection sets the collection used when a call does not name
// one. Defaults to "documents".
func WithDefaultCollection(name string) Option {
	return repository.WithDefaultCollection(name)
}

// WithDefaultReadPreference sets the read preference of queries that do not
// set one.
func WithDefaultReadPreference(rp ReadPreference) Option {
	return repository.WithDefaultReadPreference(rp)
}

// WithConcurrentReaders sets the maximum number of simultaneous readers.
func WithConcurrentReaders(n int) Option {
	return repository.WithConcurrentReaders(n)
}

// WithLogger sets the logger receiving debug records of every operation.
func WithLogger(l *slog.Logger) Option {
	return repository.WithLogger(l)
}

// WithQueryTranslator replaces the default [QueryTranslator].
func WithQueryTranslator(t QueryTranslator) Option {
	return repository.WithQueryTranslator(t)
}

// WithUpdatesTranslator replaces the default [UpdatesTranslator].
func WithUpdatesTranslator(t UpdatesTranslator) Option {
	return repository.WithUpdatesTranslator(t)
}

// WithQuerier replaces the default [Querier].
func WithQuerier(q Querier) Option {
	return repository.WithQuerier(q)
}

// WithMatcher replaces the default [Matcher].
func WithMatcher(m Matcher) Option {
	return repository.WithMatcher(m)
}

// WithModifier replaces the default [Modifier].
func WithModifier(m Modifier) Option {
	return repository.WithModifier(m)
}

// WithDecoder replaces the default [Decoder].
func WithDecoder(d Decoder) Option {
	return repository.WithDecoder(d)
}

// WithIDGenerator replaces the default [IDGenerator].
func WithIDGenerator(g IDGenerator) Option {
	return repository.WithIDGenerator(g)
}

// WithComparer replaces the default [Comparer].
func WithComparer(c Comparer) Option {
	return repository.WithComparer(c)
}

// WithFieldNavigator replaces the default [FieldNavigator].
func WithFieldNavigator(fn FieldNavigator) Option {
	return repository.WithFieldNavigator(fn)
}

// WithSerializer replaces the default [Serializer].
func WithSerializer(sr Serializer) Option {
	return repository.WithSerializer(sr)
}

// WithDocumentFactory replaces the factory used to build stored documents.
func WithDocumentFactory(df DocumentFactory) Option {
	return repository.WithDocumentFactory(df)
}

// NewRepository returns an in-memory [Repository]. Every component can be
// replaced through the With* options of this package.
func NewRepository(options ...Option) Repository {
	return repository.NewRepository(options...)
}
