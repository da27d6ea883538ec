package repository

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dolmen-go/contextio"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
)

// MaxImportLine is the longest line, in bytes, accepted by Import.
const MaxImportLine = 16 * 1024 * 1024

// Import implements [domain.Repository]. Every non-blank line of r must hold
// one JSON object. Nothing is saved unless the whole stream is valid, and
// reading stops as soon as ctx is done. Lines sharing an _id replace each
// other, and the returned count is the number of documents written.
func (r *Repository) Import(ctx context.Context, rd io.Reader, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)

	scanner := bufio.NewScanner(contextio.NewReader(ctx, rd))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxImportLine)

	var docs []domain.Document
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var doc data.M
		if err := doc.UnmarshalJSON(raw); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		prepared, err := r.prepare(doc)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, prepared)
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading import: %w", err)
	}

	if err := r.lock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.Unlock()

	r.log(ctx, "import", name, nil, "count", len(docs))
	_, written, err := r.putAll(name, docs)
	if err != nil {
		return 0, err
	}
	return int64(written), nil
}

// Export implements [domain.Repository]. Documents are written in storage
// order, one per line. Writing stops as soon as ctx is done.
func (r *Repository) Export(ctx context.Context, w io.Writer, opts ...domain.CallOption) (int64, error) {
	name, _ := r.collection(opts)

	if err := r.rlock(ctx); err != nil {
		return 0, err
	}
	defer r.mu.RUnlock()

	docs := r.collections[name]
	r.log(ctx, "export", name, nil, "count", len(docs))

	bw := bufio.NewWriter(contextio.NewWriter(ctx, w))
	for n, doc := range docs {
		b, err := r.serializer.Serialize(ctx, doc)
		if err != nil {
			return int64(n), fmt.Errorf("document %d: %w", n, err)
		}
		b = append(b, '\n')
		if _, err := bw.Write(b); err != nil {
			return int64(n), fmt.Errorf("writing export: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return int64(len(docs)), nil
}
