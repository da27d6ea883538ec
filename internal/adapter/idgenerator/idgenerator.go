// Package idgenerator contains the default [domain.IDGenerator]
// implementation.
package idgenerator

import (
	"crypto/rand"
	"io"

	"github.com/google/uuid"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// IDGenerator implements [domain.IDGenerator] with random (version 4) UUIDs.
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator returns a new implementation of [domain.IDGenerator].
func NewIDGenerator(opts ...Option) domain.IDGenerator {
	g := IDGenerator{reader: rand.Reader}
	for _, opt := range opts {
		opt(&g)
	}
	return &g
}

// GenerateID implements [domain.IDGenerator].
func (g *IDGenerator) GenerateID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
