package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// testHierarchies extends the built-in vocabularies with RAF and MEK
// family trees.
func testHierarchies(t *testing.T) *ontology.Hierarchies {
	t.Helper()
	hs := ontology.Default()
	uri := hs.NS.URI
	hs.Entity.AddEdge(uri("HGNC", "1097"), uri("BE", "RAF"), ontology.RelIsa)
	hs.Entity.AddEdge(uri("HGNC", "9829"), uri("BE", "RAF"), ontology.RelIsa)
	hs.Entity.AddEdge(uri("HGNC", "6840"), uri("BE", "MEK"), ontology.RelIsa)
	hs.Entity.Build()
	return hs
}

func grounded(name, hgnc string) *statements.Agent {
	return &statements.Agent{Name: name, DBRefs: map[string]string{statements.RefHGNC: hgnc}}
}

func TestBindingSiteNameFamily(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))

	assert.Equal(t, "raf", set.BindingSiteName(grounded("BRAF", "1097")),
		"grounded agents bind through their family site")
	assert.Equal(t, "raf", set.BindingSiteName(grounded("RAF1", "9829")),
		"family members share one site name")
	assert.Equal(t, "grb2", set.BindingSiteName(statements.NewAgent("GRB2")),
		"ungrounded agents fall back to their own name")
	assert.Equal(t, "p14_3_3", set.BindingSiteName(statements.NewAgent("14-3-3")))
}

func TestGetCreateReciprocalBindingSites(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))

	agent := grounded("MAP2K1", "6840")
	agent.BoundConditions = []statements.BoundCondition{
		{Agent: grounded("BRAF", "1097"), IsBound: true},
	}
	mek := set.GetCreate(agent)

	assert.Contains(t, mek.Sites, "raf")
	braf, ok := set.Get(grounded("BRAF", "1097"))
	require.True(t, ok, "bound partner gets its own record")
	assert.Contains(t, braf.Sites, "mek", "partner carries the reciprocal site")
}

func TestGetCreateModAndMutationSites(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))

	agent := &statements.Agent{
		Name: "BRAF",
		Mods: []statements.ModCondition{
			{Mod: statements.ModPhosphorylation, Residue: "S", Position: "338", IsModified: true},
			{Mod: statements.ModUbiquitination, IsModified: true},
		},
		Mutations: []statements.MutCondition{
			{FromResidue: "V", Position: "600", ToResidue: "E"},
			{Position: "466"},
		},
		Location: "cytoplasm",
		Activity: &statements.ActivityCondition{ActivityType: "kinase", IsActive: true},
	}
	ba := set.GetCreate(agent)

	assert.Contains(t, ba.Sites, "S338")
	assert.Equal(t, []string{"u", "p"}, ba.SiteStates["S338"])
	assert.Contains(t, ba.Sites, "ub", "unlocalized mark sites use the abbreviation")
	assert.Equal(t, []string{"n", "y"}, ba.SiteStates["ub"])

	assert.Equal(t, []string{"WT", "E"}, ba.SiteStates["V600"])
	assert.Equal(t, []string{"WT"}, ba.SiteStates["X466"],
		"unknown wild-type residue becomes X, no target state without ToResidue")

	assert.Equal(t, []string{"cytoplasm"}, ba.SiteStates["loc"])
	assert.Equal(t, []string{"inactive", "active"}, ba.SiteStates["kinase"])
}

func TestGetCreateIdempotent(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))
	agent := &statements.Agent{
		Name: "BRAF",
		Mods: []statements.ModCondition{
			{Mod: statements.ModPhosphorylation, Residue: "S", Position: "338", IsModified: true},
		},
	}

	first := set.GetCreate(agent)
	second := set.GetCreate(agent)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"S338"}, first.Sites, "repeated folding does not duplicate sites")
	assert.Equal(t, []string{"u", "p"}, first.SiteStates["S338"])
}

func TestAllPreservesFirstReferenceOrder(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))
	set.GetCreate(statements.NewAgent("SOS1"))
	set.GetCreate(statements.NewAgent("GRB2"))
	set.GetCreate(statements.NewAgent("SOS1"))

	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, "SOS1", all[0].Name)
	assert.Equal(t, "GRB2", all[1].Name)
}

func TestActivePatternsFallbackChain(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))
	agent := statements.NewAgent("BRAF")

	// Unknown agent: the single unconditional pattern.
	assert.Equal(t, []map[string]string{{}}, set.ActivePatterns(agent))

	// Known agent with an activity type but no recorded forms.
	ba := set.GetCreate(agent)
	ba.AddActivityType("kinase")
	assert.Equal(t, []map[string]string{{"kinase": "active"}}, set.ActivePatterns(agent))

	// Recorded active forms take precedence over activity types.
	ba.AddActivityForm(map[string]string{"S338": "p"}, true)
	ba.AddActivityForm(map[string]string{"S445": "p"}, true)
	ba.AddActivityForm(map[string]string{"S338": "p"}, true)
	patterns := set.ActivePatterns(agent)
	require.Len(t, patterns, 2, "duplicate forms are suppressed")
	assert.Equal(t, map[string]string{"S338": "p"}, patterns[0])
}

func TestInactivePatterns(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))
	agent := statements.NewAgent("BRAF")
	assert.Equal(t, []map[string]string{{}}, set.InactivePatterns(agent))

	ba := set.GetCreate(agent)
	ba.AddActivityForm(map[string]string{"V600": "WT"}, false)
	assert.Equal(t, []map[string]string{{"V600": "WT"}}, set.InactivePatterns(agent))
}

func TestDBRefsMerge(t *testing.T) {
	set := NewBaseAgentSet(testHierarchies(t))
	set.GetCreate(&statements.Agent{Name: "BRAF", DBRefs: map[string]string{statements.RefHGNC: "1097"}})
	ba := set.GetCreate(&statements.Agent{Name: "BRAF", DBRefs: map[string]string{statements.RefUniprot: "P15056"}})

	assert.Equal(t, "1097", ba.DBRefs[statements.RefHGNC])
	assert.Equal(t, "P15056", ba.DBRefs[statements.RefUniprot])
}
