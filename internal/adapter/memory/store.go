// Package memory provides an in-memory implementation of the annotation,
// entity, audit and page stores used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type memoryState struct {
	seq         map[string]int64
	documents   map[int64]domain.Document
	pages       map[int64]domain.Page
	annotations map[int64]domain.Annotation
	entities    map[domain.AnnotationType]map[int64]domain.Entity
	history     []domain.AuditRecord
}

func newMemoryState() memoryState {
	return memoryState{
		seq:         make(map[string]int64),
		documents:   make(map[int64]domain.Document),
		pages:       make(map[int64]domain.Page),
		annotations: make(map[int64]domain.Annotation),
		entities: map[domain.AnnotationType]map[int64]domain.Entity{
			domain.AnnotationTypeRoom:       {},
			domain.AnnotationTypeLocation:   {},
			domain.AnnotationTypeCabinetRun: {},
			domain.AnnotationTypeCabinet:    {},
		},
	}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		seq:         make(map[string]int64, len(s.seq)),
		documents:   make(map[int64]domain.Document, len(s.documents)),
		pages:       make(map[int64]domain.Page, len(s.pages)),
		annotations: make(map[int64]domain.Annotation, len(s.annotations)),
		entities:    make(map[domain.AnnotationType]map[int64]domain.Entity, len(s.entities)),
		history:     append([]domain.AuditRecord(nil), s.history...),
	}
	for k, v := range s.seq {
		out.seq[k] = v
	}
	for k, v := range s.documents {
		out.documents[k] = v
	}
	for k, v := range s.pages {
		out.pages[k] = v
	}
	for k, v := range s.annotations {
		out.annotations[k] = v.Clone()
	}
	for kind, m := range s.entities {
		cp := make(map[int64]domain.Entity, len(m))
		for k, v := range m {
			cp[k] = cloneEntity(v)
		}
		out.entities[kind] = cp
	}
	return out
}

func (s *memoryState) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store keeps all state in process memory. Transactions run against a private
// clone that replaces the shared state on commit.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	state memoryState
	nowFn func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state: newMemoryState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock used for timestamps.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

type txCtxKey struct{}

type txState struct {
	state memoryState
}

// RunInTx executes fn within a transaction. Writes made through ctx are visible
// to fn and discarded if fn returns an error or panics. A call made inside
// another RunInTx joins the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &txState{state: s.state.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = tx.state
	s.mu.Unlock()
	return nil
}

// read runs fn against the transaction state in ctx, or the committed state.
func (s *Store) read(ctx context.Context, fn func(st *memoryState) error) error {
	if tx, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		return fn(&tx.state)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

// write runs fn against the transaction state in ctx. Outside a transaction
// the write is applied directly and serialized with running transactions.
func (s *Store) write(ctx context.Context, fn func(st *memoryState, now time.Time) error) error {
	if tx, ok := ctx.Value(txCtxKey{}).(*txState); ok {
		s.mu.RLock()
		now := s.nowFn()
		s.mu.RUnlock()
		return fn(&tx.state, now)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	// Apply to a clone so a failed write leaves no partial state.
	st := s.state.clone()
	if err := fn(&st, s.nowFn()); err != nil {
		return err
	}
	s.state = st
	return nil
}

// Ping reports whether the store can serve requests. It fails only once ctx is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Annotations returns the annotation store view.
func (s *Store) Annotations() *AnnotationRepo { return &AnnotationRepo{store: s} }

// Entities returns the entity store view.
func (s *Store) Entities() *EntityRepo { return &EntityRepo{store: s} }

// Audit returns the audit log view.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{store: s} }

// Pages returns the page directory view.
func (s *Store) Pages() *PageRepo { return &PageRepo{store: s} }

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
}
