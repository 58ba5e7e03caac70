package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rafHierarchies(t *testing.T) *Hierarchies {
	t.Helper()
	hs := Default()
	uri := hs.NS.URI
	hs.Entity.AddEdge(uri("HGNC", "1097"), uri("BE", "RAF"), RelIsa)
	hs.Entity.AddEdge(uri("HGNC", "9829"), uri("BE", "RAF"), RelIsa)
	hs.Entity.AddEdge(uri("BE", "RAF"), uri("BE", "RAF_family"), RelIsa)
	hs.Entity.AddEdge(uri("HGNC", "6840"), uri("BE", "MEK"), RelIsa)
	hs.Entity.Build()
	return hs
}

func TestIsaReflexiveAndTransitive(t *testing.T) {
	hs := rafHierarchies(t)

	assert.True(t, hs.Entity.Isa("HGNC", "1097", "HGNC", "1097"), "isa must be reflexive")
	assert.True(t, hs.Entity.Isa("HGNC", "1097", "BE", "RAF"))
	assert.True(t, hs.Entity.Isa("HGNC", "1097", "BE", "RAF_family"), "isa must be transitive")
	assert.False(t, hs.Entity.Isa("BE", "RAF", "HGNC", "1097"), "isa must not invert")
	assert.False(t, hs.Entity.Isa("HGNC", "1097", "BE", "MEK"))
	assert.False(t, hs.Entity.Isa("HGNC", "nope", "BE", "RAF"))
}

func TestPartOfWildcard(t *testing.T) {
	hs := Default()

	assert.True(t, hs.CellularComponent.PartOf(VocabNS, "nucleus", VocabNS, ""),
		"empty right side matches everything")
	assert.False(t, hs.CellularComponent.PartOf(VocabNS, "", VocabNS, "nucleus"),
		"empty left side matches nothing")
	assert.True(t, hs.CellularComponent.PartOf(VocabNS, "mitochondrion", VocabNS, "cell"),
		"partof must be transitive")
}

func TestGetParentsModes(t *testing.T) {
	hs := rafHierarchies(t)
	uri := hs.NS.URI("HGNC", "1097")

	immediate := hs.Entity.GetParents(uri, ParentsImmediate)
	require.Len(t, immediate, 1)
	assert.Equal(t, hs.NS.URI("BE", "RAF"), immediate[0])

	top := hs.Entity.GetParents(uri, ParentsTop)
	require.Len(t, top, 1)
	assert.Equal(t, hs.NS.URI("BE", "RAF_family"), top[0])

	all := hs.Entity.GetParents(uri, ParentsAll)
	assert.Len(t, all, 2)

	assert.Empty(t, hs.Entity.GetParents("http://unknown/", ParentsAll))
}

func TestGetChildren(t *testing.T) {
	hs := rafHierarchies(t)
	children := hs.Entity.GetChildren(hs.NS.URI("BE", "RAF"))
	assert.Contains(t, children, hs.NS.URI("HGNC", "1097"))
	assert.Contains(t, children, hs.NS.URI("HGNC", "9829"))
}

func TestDefaultModificationHierarchy(t *testing.T) {
	hs := Default()
	assert.True(t, hs.Modification.Isa(VocabNS, "phosphorylation", VocabNS, "modification"))
	assert.False(t, hs.Modification.Isa(VocabNS, "phosphorylation", VocabNS, "ubiquitination"))
	assert.True(t, hs.Activity.Isa(VocabNS, "kinase", VocabNS, "activity"))
}

func TestLoadExternalSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	src := `entity:
  isa:
    HGNC:1097: [BE:RAF]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	hs, err := Load(path)
	require.NoError(t, err)
	assert.True(t, hs.Entity.Isa("HGNC", "1097", "BE", "RAF"))
	// Built-in vocabularies survive the merge.
	assert.True(t, hs.Modification.Isa(VocabNS, "methylation", VocabNS, "modification"))
}

func TestGroundingURL(t *testing.T) {
	tests := []struct {
		ns   string
		id   string
		want string
	}{
		{"HGNC", "1097", "http://identifiers.org/hgnc/HGNC:1097"},
		{"UP", "P15056", "http://identifiers.org/uniprot/P15056"},
		{"CHEBI", "CHEBI:15422", "http://identifiers.org/chebi/CHEBI:15422"},
		{"XFAM", "PF00069", "http://identifiers.org/pfam/PF00069"},
		{"XFAM", "NOTPF", ""},
		{"BE", "RAF", ""},
		{"TEXT", "braf", ""},
	}
	for _, tt := range tests {
		if got := GroundingURL(tt.ns, tt.id); got != tt.want {
			t.Errorf("GroundingURL(%s, %s) = %q, want %q", tt.ns, tt.id, got, tt.want)
		}
	}
}

func TestParseGroundingURL(t *testing.T) {
	ns, id := ParseGroundingURL("http://identifiers.org/hgnc/HGNC:1097")
	assert.Equal(t, "HGNC", ns)
	assert.Equal(t, "1097", id)

	ns, id = ParseGroundingURL("http://identifiers.org/uniprot/P15056")
	assert.Equal(t, "UP", ns)
	assert.Equal(t, "P15056", id)

	ns, _ = ParseGroundingURL("http://example.com/whatever")
	assert.Empty(t, ns)

	ns, _ = ParseGroundingURL("http://identifiers.org/hgnc/1097")
	assert.Empty(t, ns, "hgnc ids must carry the HGNC: prefix")
}
