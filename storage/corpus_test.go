package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechbio/mechkb/statements"
)

func sampleCorpus() ([]statements.Statement, [][2]int) {
	specific := &statements.Modification{
		Enz:     statements.NewAgent("BRAF"),
		Sub:     statements.NewAgent("MAP2K1"),
		Mod:     statements.ModPhosphorylation,
		Residue: "S", Position: "222",
	}
	general := &statements.Modification{
		Enz: statements.NewAgent("RAF"),
		Sub: statements.NewAgent("MAP2K1"),
		Mod: statements.ModPhosphorylation,
	}
	return []statements.Statement{specific, general}, [][2]int{{0, 1}}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stmts, edges := sampleCorpus()

	require.NoError(t, store.Save(ctx, "raf-corpus", stmts, edges))

	got, gotEdges, err := store.Load(ctx, "raf-corpus")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, stmts[0].MatchesKey(), got[0].MatchesKey())
	assert.Equal(t, stmts[1].MatchesKey(), got[1].MatchesKey())
	assert.Equal(t, edges, gotEdges)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"raf-corpus"}, keys)
}

func TestMemoryStoreOverwriteKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stmts, edges := sampleCorpus()

	require.NoError(t, store.Save(ctx, "c1", stmts, edges))
	first := store.docs["c1"]

	require.NoError(t, store.Save(ctx, "c1", stmts[:1], nil))
	second := store.docs["c1"]

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	got, gotEdges, err := store.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Empty(t, gotEdges)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()
	_, _, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteMissingOK(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stmts, edges := sampleCorpus()

	require.NoError(t, store.Save(ctx, "c1", stmts, edges))
	require.NoError(t, store.Delete(ctx, "c1"))
	require.NoError(t, store.Delete(ctx, "c1"))

	_, _, err := store.Load(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"raf-corpus", true},
		{"corpus.v2", true},
		{"a", true},
		{"2024_run", true},
		{"", false},
		{"-leading-dash", false},
		{".hidden", false},
		{"has space", false},
		{"slash/ed", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.ok, validKey(tt.key))
		})
	}
}

func TestNewDocumentInvalidKey(t *testing.T) {
	stmts, edges := sampleCorpus()
	_, err := NewDocument("", stmts, edges)
	assert.ErrorIs(t, err, ErrInvalidKey)

	store := NewMemoryStore()
	err = store.Save(context.Background(), "bad key", stmts, edges)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDocumentUnpack(t *testing.T) {
	stmts, edges := sampleCorpus()
	doc, err := NewDocument("c1", stmts, edges)
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	got, gotEdges, err := doc.Unpack()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, statements.KindModification, got[0].Kind())
	assert.Equal(t, edges, gotEdges)
}
