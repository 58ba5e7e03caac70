// Package storage persists statement corpora so that pipeline runs
// can resume from stage boundaries. Statements travel as typed
// envelopes; support edges are stored as integer index pairs into the
// statement list, which round-trips the support graph without
// duplicating shared structure.
package storage

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/mechbio/mechkb/statements"
)

// Document is one persisted corpus snapshot.
type Document struct {
	ID           string                 `json:"id"`
	Key          string                 `json:"key"`
	Statements   []statements.Envelope  `json:"statements"`
	SupportEdges [][2]int               `json:"support_edges,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewDocument packs statements and support edges into a document under
// the given key.
func NewDocument(key string, stmts []statements.Statement, edges [][2]int) (*Document, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}
	envs, err := statements.Envelopes(stmts)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Document{
		ID:           uuid.New().String(),
		Key:          key,
		Statements:   envs,
		SupportEdges: edges,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Unpack decodes the document's statements.
func (d *Document) Unpack() ([]statements.Statement, [][2]int, error) {
	stmts, err := statements.Decode(d.Statements)
	if err != nil {
		return nil, nil, err
	}
	return stmts, d.SupportEdges, nil
}

// Store is the corpus persistence boundary.
type Store interface {
	// Save writes a corpus snapshot under the key, replacing any
	// previous snapshot.
	Save(ctx context.Context, key string, stmts []statements.Statement, edges [][2]int) error

	// Load reads the snapshot stored under the key. ErrNotFound when
	// the key has never been saved.
	Load(ctx context.Context, key string) ([]statements.Statement, [][2]int, error)

	// Keys lists the stored corpus keys.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes the snapshot under the key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func validKey(key string) bool {
	return keyPattern.MatchString(key)
}

// MemoryStore is an in-process Store for tests and single-run
// pipelines. Not safe for concurrent use.
type MemoryStore struct {
	docs map[string]*Document
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, key string, stmts []statements.Statement, edges [][2]int) error {
	doc, err := NewDocument(key, stmts, edges)
	if err != nil {
		return err
	}
	if prev, ok := m.docs[key]; ok {
		doc.ID = prev.ID
		doc.CreatedAt = prev.CreatedAt
		doc.UpdatedAt = time.Now().UTC()
	}
	m.docs[key] = doc
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, key string) ([]statements.Statement, [][2]int, error) {
	doc, ok := m.docs[key]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return doc.Unpack()
}

// Keys implements Store.
func (m *MemoryStore) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	return keys, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	delete(m.docs, key)
	return nil
}
