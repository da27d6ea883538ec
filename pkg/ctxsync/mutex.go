// Package ctxsync provides locks whose acquisition can be abandoned when a
// context is done.
package ctxsync

import (
	"context"
)

// DefaultReaders is the number of read locks a [RWMutex] created by
// [NewRWMutex] can hand out at once.
const DefaultReaders = 64

// RWMutex is a reader/writer mutual exclusion lock. Each read lock takes one
// slot, and a write lock takes every slot.
type RWMutex struct {
	slots  chan struct{}
	writer chan struct{}
}

// NewRWMutex creates a new RWMutex allowing [DefaultReaders] concurrent
// readers.
func NewRWMutex() *RWMutex {
	return NewRWMutexSize(DefaultReaders)
}

// NewRWMutexSize creates a new RWMutex allowing n concurrent readers. n lower
// than one is treated as one.
func NewRWMutexSize(n int) *RWMutex {
	return &RWMutex{
		slots:  make(chan struct{}, max(n, 1)),
		writer: make(chan struct{}, 1),
	}
}

// Lock locks m for writing, waiting until every reader and writer is done or
// ctx is done.
func (m *RWMutex) Lock(ctx context.Context) error {
	if err := acquire(ctx, m.writer); err != nil {
		return err
	}
	defer func() { <-m.writer }()

	for taken := range cap(m.slots) {
		if err := acquire(ctx, m.slots); err != nil {
			for range taken {
				<-m.slots
			}
			return err
		}
	}
	return nil
}

// TryLock tries to lock m for writing and reports whether it succeeded.
func (m *RWMutex) TryLock() bool {
	select {
	case m.writer <- struct{}{}:
	default:
		return false
	}
	defer func() { <-m.writer }()

	for taken := range cap(m.slots) {
		select {
		case m.slots <- struct{}{}:
		default:
			for range taken {
				<-m.slots
			}
			return false
		}
	}
	return true
}

// Unlock unlocks m for writing.
func (m *RWMutex) Unlock() {
	if len(m.slots) != cap(m.slots) {
		panic("ctxsync: unlock of unlocked mutex")
	}
	for range cap(m.slots) {
		<-m.slots
	}
}

// RLock locks m for reading, waiting until there is no writer or ctx is done.
func (m *RWMutex) RLock(ctx context.Context) error {
	// a waiting writer goes first
	if err := acquire(ctx, m.writer); err != nil {
		return err
	}
	defer func() { <-m.writer }()
	return acquire(ctx, m.slots)
}

// RUnlock undoes a single RLock call.
func (m *RWMutex) RUnlock() {
	select {
	case <-m.slots:
	default:
		panic("ctxsync: runlock of unlocked mutex")
	}
}

// acquire puts a token in ch. A done context is never ignored, even when ch
// has room.
func acquire(ctx context.Context, ch chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- struct{}{}:
		return nil
	}
}
