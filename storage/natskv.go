package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mechbio/mechkb/statements"
)

// BucketCorpora is the default KV bucket holding corpus snapshots.
const BucketCorpora = "MECHKB_CORPORA"

// KVStore persists corpora in a NATS JetStream key-value bucket.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore opens (or creates) the corpus bucket on the given
// JetStream context. An empty bucket name uses BucketCorpora.
func NewKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if bucket == "" {
		bucket = BucketCorpora
	}
	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "mechkb corpus snapshots",
			History:     5,
		})
		if err != nil {
			return nil, fmt.Errorf("create corpus bucket: %w", err)
		}
	}
	return &KVStore{kv: kv}, nil
}

// Save implements Store.
func (s *KVStore) Save(ctx context.Context, key string, stmts []statements.Statement, edges [][2]int) error {
	doc, err := NewDocument(key, stmts, edges)
	if err != nil {
		return err
	}
	if prev, loadErr := s.get(ctx, key); loadErr == nil {
		doc.ID = prev.ID
		doc.CreatedAt = prev.CreatedAt
		doc.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store corpus: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *KVStore) Load(ctx context.Context, key string) ([]statements.Statement, [][2]int, error) {
	doc, err := s.get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return doc.Unpack()
}

func (s *KVStore) get(ctx context.Context, key string) (*Document, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get corpus: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal corpus: %w", err)
	}
	return &doc, nil
}

// Keys implements Store.
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list corpus keys: %w", err)
	}
	return keys, nil
}

// Delete implements Store.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete corpus: %w", err)
	}
	return nil
}
