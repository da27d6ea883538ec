package domain

// Sort represents an ordered list of fields which should be used to sort query
// results, applied in sequence.
type Sort = []SortName

// SortName represents a single field and the order which should be used to sort
// it. A positive Order value means ascending order and a negative value means
// descending order.
type SortName struct {
	Key   string
	Order int64
}

// FindOptions carries everything a translated [Query] needs besides its
// filter. Skip and Limit are zero when paging is not used.
type FindOptions struct {
	Collection     string
	Projection     map[string]uint8
	Sort           Sort
	Skip           int64
	Limit          int64
	ReadPreference ReadPreference
}

// PagingInfo holds a page of documents and the number of documents matching
// the query regardless of paging.
type PagingInfo struct {
	Data  []Document
	Total int64
}

// DocumentFactory represents a function that constructs [Document] instances
// from structured data types. If nil is provided, returns an empty document.
type DocumentFactory = func(any) (Document, error)
