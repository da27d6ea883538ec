// Package repository contains an in-memory [domain.Repository] that executes
// translated queries and updates with the matcher, modifier and querier
// packages.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/modifier"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/querier"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/translator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/updater"
	"github.com/vinicius-lino-figueiredo/gequery/pkg/ctxsync"
)

// DefaultCollection is the collection used when neither the repository nor
// the call names one.
const DefaultCollection = "documents"

// Repository implements [domain.Repository].
type Repository struct {
	mu          *ctxsync.RWMutex
	collections map[string][]domain.Document

	defaultCollection string
	readPreference    domain.ReadPreference
	readers           int
	logger            *slog.Logger

	queryTranslator   domain.QueryTranslator
	updatesTranslator domain.UpdatesTranslator
	querier           domain.Querier
	matcher           domain.Matcher
	modifier          domain.Modifier
	decoder           domain.Decoder
	idGenerator       domain.IDGenerator
	serializer        domain.Serializer
	comparer          domain.Comparer
	fieldNavigator    domain.FieldNavigator
	documentFactory   domain.DocumentFactory
}

// NewRepository returns a new, empty, implementation of [domain.Repository].
func NewRepository(opts ...Option) domain.Repository {
	r := Repository{
		collections:       make(map[string][]domain.Document),
		defaultCollection: DefaultCollection,
		readers:           ctxsync.DefaultReaders,
		documentFactory:   data.NewDocument,
	}
	for _, opt := range opts {
		opt(&r)
	}

	r.mu = ctxsync.NewRWMutexSize(r.readers)
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.comparer == nil {
		r.comparer = comparer.NewComparer()
	}
	if r.fieldNavigator == nil {
		r.fieldNavigator = fieldnavigator.NewFieldNavigator(
			fieldnavigator.WithDocumentFactory(r.documentFactory),
		)
	}
	if r.matcher == nil {
		r.matcher = matcher.NewMatcher(
			matcher.WithComparer(r.comparer),
			matcher.WithDocumentFactory(r.documentFactory),
			matcher.WithFieldNavigator(r.fieldNavigator),
		)
	}
	if r.modifier == nil {
		r.modifier = modifier.NewModifier(
			modifier.WithComparer(r.comparer),
			modifier.WithDocumentFactory(r.documentFactory),
			modifier.WithFieldNavigator(r.fieldNavigator),
			modifier.WithMatcher(r.matcher),
		)
	}
	if r.querier == nil {
		r.querier = querier.NewQuerier(
			querier.WithComparer(r.comparer),
			querier.WithDocumentFactory(r.documentFactory),
			querier.WithFieldNavigator(r.fieldNavigator),
			querier.WithMatcher(r.matcher),
		)
	}
	if r.queryTranslator == nil {
		r.queryTranslator = translator.NewTranslator(
			translator.WithDocumentFactory(r.documentFactory),
			translator.WithDefaultReadPreference(r.readPreference),
		)
	}
	if r.updatesTranslator == nil {
		r.updatesTranslator = updater.NewUpdater(
			updater.WithDocumentFactory(r.documentFactory),
		)
	}
	if r.decoder == nil {
		r.decoder = decoder.NewDecoder()
	}
	if r.idGenerator == nil {
		r.idGenerator = idgenerator.NewIDGenerator()
	}
	if r.serializer == nil {
		r.serializer = serializer.NewSerializer(
			serializer.WithDocumentFactory(r.documentFactory),
		)
	}
	return &r
}

// collection returns the name targeted by a call and whether it was
// overridden.
func (r *Repository) collection(opts []domain.CallOption) (string, bool) {
	var options domain.CallOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Collection == "" {
		return r.defaultCollection, false
	}
	return options.Collection, true
}

func (r *Repository) rlock(ctx context.Context) error {
	if err := r.mu.RLock(ctx); err != nil {
		return fmt.Errorf("acquiring read lock: %w", err)
	}
	return nil
}

func (r *Repository) lock(ctx context.Context) error {
	if err := r.mu.Lock(ctx); err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	return nil
}

func (r *Repository) log(ctx context.Context, op, collection string, q *domain.Query, args ...any) {
	attrs := append([]any{"collection", collection}, args...)
	if q != nil {
		attrs = append(attrs, "query", q.RenderTemplated())
	}
	r.logger.DebugContext(ctx, op, attrs...)
}

// Save implements [domain.Repository].
func (r *Repository) Save(ctx context.Context, entity any, opts ...domain.CallOption) (any, error) {
	name, _ := r.collection(opts)
	doc, err := r.prepare(entity)
	if err != nil {
		return nil, err
	}

	if err := r.lock(ctx); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "save", name, nil, "id", doc.ID())
	if _, err := r.put(name, doc); err != nil {
		return nil, err
	}
	return doc.ID(), nil
}

// SaveAll implements [domain.Repository]. Nothing is saved if any entity
// fails.
func (r *Repository) SaveAll(ctx context.Context, entities []any, opts ...domain.CallOption) ([]any, error) {
	name, _ := r.collection(opts)
	docs := make([]domain.Document, len(entities))
	for n, entity := range entities {
		doc, err := r.prepare(entity)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", n, err)
		}
		docs[n] = doc
	}

	if err := r.lock(ctx); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "save all", name, nil, "count", len(docs))
	ids, _, err := r.putAll(name, docs)
	return ids, err
}

// prepare converts entity into a new document with an _id.
func (r *Repository) prepare(entity any) (domain.Document, error) {
	if entity == nil {
		return nil, domain.ErrTargetNil{}
	}
	doc, err := r.documentFactory(entity)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	if doc.ID() == nil {
		id, err := r.idGenerator.GenerateID()
		if err != nil {
			return nil, fmt.Errorf("generating id: %w", err)
		}
		doc.Set("_id", id)
	}
	return doc, nil
}

// putAll saves docs in order and returns their ids and the number of
// documents written, which is lower than len(docs) when ids repeat. The
// collection is only changed if every document is saved.
func (r *Repository) putAll(name string, docs []domain.Document) ([]any, int, error) {
	backup := r.collections[name]
	r.collections[name] = slices.Clone(backup)
	ids := make([]any, len(docs))
	written := make(map[int]struct{}, len(docs))
	for n, doc := range docs {
		pos, err := r.put(name, doc)
		if err != nil {
			r.collections[name] = backup
			return nil, 0, err
		}
		ids[n] = doc.ID()
		written[pos] = struct{}{}
	}
	return ids, len(written), nil
}

// put inserts doc, or replaces the document with the same _id, and returns
// its position.
func (r *Repository) put(name string, doc domain.Document) (int, error) {
	docs := r.collections[name]
	idx, err := r.indexOf(docs, doc.ID())
	if err != nil {
		return -1, err
	}
	if idx < 0 {
		r.collections[name] = append(docs, doc)
		return len(docs), nil
	}
	docs[idx] = doc
	return idx, nil
}

func (r *Repository) indexOf(docs []domain.Document, id any) (int, error) {
	for n, doc := range docs {
		c, err := r.comparer.Compare(doc.ID(), id)
		if err != nil {
			return -1, fmt.Errorf("comparing ids: %w", err)
		}
		if c == 0 {
			return n, nil
		}
	}
	return -1, nil
}

// byIDs returns the position of every document with one of ids.
func (r *Repository) byIDs(docs []domain.Document, ids []any) ([]int, error) {
	var res []int
	for n, doc := range docs {
		for _, id := range ids {
			c, err := r.comparer.Compare(doc.ID(), id)
			if err != nil {
				return nil, fmt.Errorf("comparing ids: %w", err)
			}
			if c == 0 {
				res = append(res, n)
				break
			}
		}
	}
	return res, nil
}

// FindByID implements [domain.Repository].
func (r *Repository) FindByID(ctx context.Context, id any, target any, opts ...domain.CallOption) error {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "find by id", name, nil, "id", id)
	docs := r.collections[name]
	idx, err := r.indexOf(docs, id)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: _id %v", domain.ErrNotFound, id)
	}
	return r.decoder.Decode(docs[idx], target)
}

// FindByIDs implements [domain.Repository].
func (r *Repository) FindByIDs(ctx context.Context, ids []any, target any, opts ...domain.CallOption) error {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "find by ids", name, nil, "count", len(ids))
	docs := r.collections[name]
	positions, err := r.byIDs(docs, ids)
	if err != nil {
		return err
	}
	found := make([]domain.Document, len(positions))
	for n, pos := range positions {
		found[n] = docs[pos]
	}
	return r.decodeAll(found, target)
}

// FindAll implements [domain.Repository].
func (r *Repository) FindAll(ctx context.Context, target any, opts ...domain.CallOption) error {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "find all", name, nil)
	return r.decodeAll(r.collections[name], target)
}

// Find implements [domain.Repository].
func (r *Repository) Find(ctx context.Context, q *domain.Query, target any, opts ...domain.CallOption) error {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "find", name, q)
	docs, err := r.find(q, name)
	if err != nil {
		return err
	}
	return r.decodeAll(docs, target)
}

// FindWithPagingInfo implements [domain.Repository]. The returned documents
// are copies.
func (r *Repository) FindWithPagingInfo(ctx context.Context, q *domain.Query, opts ...domain.CallOption) (domain.PagingInfo, error) {
	var res domain.PagingInfo
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return res, err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "find with paging info", name, q)
	page, err := r.find(q, name)
	if err != nil {
		return res, err
	}
	total, err := r.count(q, name)
	if err != nil {
		return res, err
	}

	res.Total = total
	res.Data = make([]domain.Document, len(page))
	for n, doc := range page {
		if res.Data[n], err = r.documentFactory(doc); err != nil {
			return domain.PagingInfo{}, err
		}
	}
	return res, nil
}

// find returns the documents selected by q, with sort, paging and projection
// applied.
func (r *Repository) find(q *domain.Query, name string) ([]domain.Document, error) {
	filter, fo, err := r.queryTranslator.Translate(q, name)
	if err != nil {
		return nil, fmt.Errorf("translating query: %w", err)
	}
	r.logger.Debug("find options",
		"readPreference", fo.ReadPreference.String(),
		"skip", fo.Skip,
		"limit", fo.Limit,
	)
	return r.querier.Query(r.collections[name],
		domain.WithQuery(filter),
		domain.WithFindOptions(fo),
	)
}

func (r *Repository) decodeAll(docs []domain.Document, target any) error {
	list := make([]any, len(docs))
	for n, doc := range docs {
		list[n] = doc
	}
	return r.decoder.Decode(list, target)
}

// CountByQuery implements [domain.Repository]. Paging is ignored.
func (r *Repository) CountByQuery(ctx context.Context, q *domain.Query, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "count", name, q)
	return r.count(q, name)
}

func (r *Repository) count(q *domain.Query, name string) (int64, error) {
	filter, _, err := r.queryTranslator.Translate(q, name)
	if err != nil {
		return 0, fmt.Errorf("translating query: %w", err)
	}
	matching, err := r.matching(r.collections[name], filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matching)), nil
}

// matching returns the position of every document matching filter.
func (r *Repository) matching(docs []domain.Document, filter domain.Document) ([]int, error) {
	var res []int
	for n, doc := range docs {
		ok, err := r.matcher.Match(doc, filter)
		if err != nil {
			return nil, fmt.Errorf("matching document: %w", err)
		}
		if ok {
			res = append(res, n)
		}
	}
	return res, nil
}

// CountAll implements [domain.Repository].
func (r *Repository) CountAll(ctx context.Context, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.RUnlock()

	r.log(ctx, "count all", name, nil)
	return int64(len(r.collections[name])), nil
}

// Update implements [domain.Repository].
func (r *Repository) Update(ctx context.Context, q *domain.Query, u *domain.Updates, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "update", name, q, "updates", opCount(u))
	return r.update(q, u, name)
}

func (r *Repository) update(q *domain.Query, u *domain.Updates, name string) (int64, error) {
	filter, _, err := r.queryTranslator.Translate(q, name)
	if err != nil {
		return 0, fmt.Errorf("translating query: %w", err)
	}
	docs := r.collections[name]
	positions, err := r.matching(docs, filter)
	if err != nil {
		return 0, err
	}
	return r.apply(name, positions, u)
}

// apply runs u on the documents at positions. The collection is only changed
// if every document is modified.
func (r *Repository) apply(name string, positions []int, u *domain.Updates) (int64, error) {
	updates, err := r.updatesTranslator.Translate(u, name)
	if err != nil {
		return 0, fmt.Errorf("translating updates: %w", err)
	}

	docs := r.collections[name]
	modified := make([]domain.Document, len(positions))
	for n, pos := range positions {
		if modified[n], err = r.modify(docs[pos], updates); err != nil {
			return 0, err
		}
	}
	for n, pos := range positions {
		docs[pos] = modified[n]
	}
	return int64(len(positions)), nil
}

func (r *Repository) modify(doc domain.Document, updates []domain.Document) (domain.Document, error) {
	for _, update := range updates {
		res, err := r.modifier.Modify(doc, update)
		if err != nil {
			return nil, fmt.Errorf("modifying document: %w", err)
		}
		doc = res
	}
	return doc, nil
}

// UpdateByID implements [domain.Repository].
func (r *Repository) UpdateByID(ctx context.Context, id any, u *domain.Updates, opts ...domain.CallOption) error {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return err
	}
	defer r.mu.Unlock()

	r.log(ctx, "update by id", name, nil, "id", id, "updates", opCount(u))
	idx, err := r.indexOf(r.collections[name], id)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: _id %v", domain.ErrNotFound, id)
	}
	_, err = r.apply(name, []int{idx}, u)
	return err
}

// Upsert implements [domain.Repository].
func (r *Repository) Upsert(ctx context.Context, q *domain.Query, u *domain.Updates, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "upsert", name, q, "updates", opCount(u))
	n, err := r.update(q, u, name)
	if err != nil || n > 0 {
		return n, err
	}

	filter, _, err := r.queryTranslator.Translate(q, name)
	if err != nil {
		return 0, fmt.Errorf("translating query: %w", err)
	}
	doc, err := r.documentFactory(nil)
	if err != nil {
		return 0, err
	}
	if err := r.seed(doc, filter); err != nil {
		return 0, err
	}
	updates, err := r.updatesTranslator.Translate(u, name)
	if err != nil {
		return 0, fmt.Errorf("translating updates: %w", err)
	}
	if doc, err = r.modify(doc, updates); err != nil {
		return 0, err
	}
	if doc.ID() == nil {
		id, err := r.idGenerator.GenerateID()
		if err != nil {
			return 0, fmt.Errorf("generating id: %w", err)
		}
		doc.Set("_id", id)
	}
	if _, err := r.put(name, doc); err != nil {
		return 0, err
	}
	return 1, nil
}

// seed copies the plain equality conditions of filter, including the ones
// inside $and, into doc.
func (r *Repository) seed(doc domain.Document, filter domain.Document) error {
	for key, value := range filter.Iter() {
		if key == "$and" {
			items, _ := data.AsList(value)
			for _, item := range items {
				if sub, ok := item.(domain.Document); ok {
					if err := r.seed(doc, sub); err != nil {
						return err
					}
				}
			}
			continue
		}
		if isOperator(key) || hasOperators(value) {
			continue
		}
		addr, err := r.fieldNavigator.GetAddress(key)
		if err != nil {
			return err
		}
		fields, err := r.fieldNavigator.EnsureField(doc, addr...)
		if err != nil {
			return err
		}
		for _, field := range fields {
			field.Set(value)
		}
	}
	return nil
}

func opCount(u *domain.Updates) int {
	if u == nil {
		return 0
	}
	return u.Len()
}

func isOperator(key string) bool {
	return len(key) > 0 && key[0] == '$'
}

func hasOperators(value any) bool {
	doc, ok := value.(domain.Document)
	if !ok {
		return false
	}
	for key := range doc.Keys() {
		if isOperator(key) {
			return true
		}
	}
	return false
}

// RemoveAll implements [domain.Repository].
func (r *Repository) RemoveAll(ctx context.Context, q *domain.Query, u *domain.Updates, opts ...domain.CallOption) (int64, error) {
	if u == nil {
		return 0, updater.ErrNilUpdates
	}
	if err := u.Traverse(removeOnly{}); err != nil {
		return 0, err
	}

	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "remove all", name, q, "updates", opCount(u))
	return r.update(q, u, name)
}

// DeleteByID implements [domain.Repository].
func (r *Repository) DeleteByID(ctx context.Context, id any, opts ...domain.CallOption) (int64, error) {
	return r.DeleteByIDs(ctx, []any{id}, opts...)
}

// DeleteByIDs implements [domain.Repository].
func (r *Repository) DeleteByIDs(ctx context.Context, ids []any, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "delete by ids", name, nil, "count", len(ids))
	positions, err := r.byIDs(r.collections[name], ids)
	if err != nil {
		return 0, err
	}
	return r.remove(name, positions), nil
}

// DeleteByQuery implements [domain.Repository]. Paging is ignored.
func (r *Repository) DeleteByQuery(ctx context.Context, q *domain.Query, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "delete by query", name, q)
	filter, _, err := r.queryTranslator.Translate(q, name)
	if err != nil {
		return 0, fmt.Errorf("translating query: %w", err)
	}
	positions, err := r.matching(r.collections[name], filter)
	if err != nil {
		return 0, err
	}
	return r.remove(name, positions), nil
}

// DeleteAll implements [domain.Repository].
func (r *Repository) DeleteAll(ctx context.Context, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)
	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "delete all", name, nil)
	n := int64(len(r.collections[name]))
	delete(r.collections, name)
	return n, nil
}

// Delete implements [domain.Repository]. It cannot target a collection other
// than the default one.
func (r *Repository) Delete(ctx context.Context, entity any, opts ...domain.CallOption) (int64, error) {
	if _, override := r.collection(opts); override {
		return 0, domain.ErrUnsupported{
			Operation: "delete",
			Reason:    "deleting an entity from another collection is not supported",
		}
	}
	if entity == nil {
		return 0, domain.ErrTargetNil{}
	}
	doc, err := r.documentFactory(entity)
	if err != nil {
		return 0, fmt.Errorf("creating document: %w", err)
	}
	if doc.ID() == nil {
		return 0, fmt.Errorf("%w: entity has no _id", domain.ErrInvalidArgument)
	}
	return r.DeleteByID(ctx, doc.ID())
}

// remove deletes the documents at the given ascending positions.
func (r *Repository) remove(name string, positions []int) int64 {
	if len(positions) == 0 {
		return 0
	}
	docs := r.collections[name]
	res := make([]domain.Document, 0, len(docs)-len(positions))
	next := 0
	for n, doc := range docs {
		if next < len(positions) && positions[next] == n {
			next++
			continue
		}
		res = append(res, doc)
	}
	r.collections[name] = res
	return int64(len(positions))
}

// CollectionExists implements [domain.Repository].
func (r *Repository) CollectionExists(ctx context.Context, opts ...domain.CallOption) (bool, error) {
	name, _ := r.collection(opts)
	if err := r.rlock(ctx); err != nil {
		return false, err
	}
	defer r.mu.RUnlock()

	return len(r.collections[name]) > 0, nil
}

// removeOnly rejects every operation but [domain.RemoveOp].
type removeOnly struct{}

func (removeOnly) reject(kind, field string) error {
	return domain.ErrUnsupported{
		Operation: "remove all",
		Reason:    fmt.Sprintf("only remove operations are allowed, got %s on %q", kind, field),
	}
}

func (v removeOnly) VisitFieldSet(op domain.FieldSetOp) error { return v.reject("set", op.Field) }

func (v removeOnly) VisitFieldUnset(op domain.FieldUnsetOp) error {
	return v.reject("unset", op.Field)
}

func (v removeOnly) VisitPush(op domain.PushOp) error { return v.reject("push", op.Field) }

func (v removeOnly) VisitPushMulti(op domain.PushMultiOp) error { return v.reject("push", op.Field) }

func (v removeOnly) VisitAddToSet(op domain.AddToSetOp) error {
	return v.reject("add to set", op.Field)
}

func (v removeOnly) VisitAddToSetMulti(op domain.AddToSetMultiOp) error {
	return v.reject("add to set", op.Field)
}

func (v removeOnly) VisitIncrement(op domain.IncOp) error { return v.reject("increment", op.Field) }

func (v removeOnly) VisitDecrement(op domain.DecOp) error { return v.reject("decrement", op.Field) }

func (removeOnly) VisitRemove(domain.RemoveOp) error { return nil }
