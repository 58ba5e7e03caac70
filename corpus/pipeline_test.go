package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

func rafHierarchies(t *testing.T) *ontology.Hierarchies {
	t.Helper()
	hs := ontology.Default()
	uri := hs.NS.URI
	hs.Entity.AddEdge(uri("HGNC", "1097"), uri("BE", "RAF"), ontology.RelIsa)
	hs.Entity.Build()
	return hs
}

func phosStmt(enz, sub *statements.Agent, sources ...string) *statements.Modification {
	var evs []statements.Evidence
	for _, s := range sources {
		evs = append(evs, statements.NewEvidence(s, ""))
	}
	return &statements.Modification{
		Core: statements.Core{Evidence: evs},
		Enz:  enz,
		Sub:  sub,
		Mod:  statements.ModPhosphorylation,
	}
}

func hgncAgent(name, id string) *statements.Agent {
	return &statements.Agent{Name: name, DBRefs: map[string]string{statements.RefHGNC: id}}
}

func TestRunPreassembly(t *testing.T) {
	specific := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "reach")
	specific.Residue, specific.Position = "S", "222"
	general := phosStmt(
		&statements.Agent{Name: "RAF", DBRefs: map[string]string{statements.RefFamily: "RAF"}},
		hgncAgent("MAP2K1", "6840"), "trips")
	duplicate := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "sparser")
	duplicate.Residue, duplicate.Position = "S", "222"

	p := NewPipeline(rafHierarchies(t), nil)
	g := p.RunPreassembly([]statements.Statement{specific, general, duplicate})

	require.Len(t, g.Statements, 2, "duplicates merged before refinement")
	assert.Len(t, g.Statements[0].Info().Evidence, 2, "evidence carried over from the duplicate")
	assert.Equal(t, [][2]int{{0, 1}}, g.Edges(), "specific statement supports the general one")

	for _, s := range g.Statements {
		assert.Greater(t, s.Info().Belief, 0.0)
	}
	assert.Greater(t, g.Statements[1].Info().Belief, g.Statements[0].Info().Belief,
		"the general statement pools evidence from its refiner")

	top := FilterTopLevel(g)
	require.Len(t, top, 1)
	assert.Equal(t, statements.KindModification, top[0].Kind())
}

func TestFilterByKind(t *testing.T) {
	stmts := []statements.Statement{
		phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840")),
		&statements.Complex{Members: []*statements.Agent{
			statements.NewAgent("GRB2"), statements.NewAgent("SOS1"),
		}},
	}
	out := FilterByKind(stmts, statements.KindComplex)
	require.Len(t, out, 1)
	assert.Equal(t, statements.KindComplex, out[0].Kind())
}

func TestFilterGrounded(t *testing.T) {
	grounded := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"))
	textOnly := phosStmt(
		&statements.Agent{Name: "BRAF", DBRefs: map[string]string{statements.RefText: "braf"}},
		hgncAgent("MAP2K1", "6840"))
	subjectless := &statements.DecreaseAmount{Obj: hgncAgent("TP53", "11998")}

	out := FilterGrounded([]statements.Statement{grounded, textOnly, subjectless})
	require.Len(t, out, 2, "nil agents are ignored, ungrounded ones disqualify")
	assert.Same(t, grounded, out[0])
	assert.Same(t, subjectless, out[1])
}

func TestFilterGenesOnly(t *testing.T) {
	genes := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"))
	family := phosStmt(
		&statements.Agent{Name: "RAF", DBRefs: map[string]string{statements.RefFamily: "RAF"}},
		hgncAgent("MAP2K1", "6840"))
	chemical := phosStmt(
		&statements.Agent{Name: "vemurafenib", DBRefs: map[string]string{statements.RefChebi: "63637"}},
		hgncAgent("MAP2K1", "6840"))

	stmts := []statements.Statement{genes, family, chemical}
	strict := FilterGenesOnly(stmts, false)
	require.Len(t, strict, 1)
	assert.Same(t, genes, strict[0])

	withFamilies := FilterGenesOnly(stmts, true)
	require.Len(t, withFamilies, 2)
	assert.Same(t, family, withFamilies[1])
}

func TestFilterBelief(t *testing.T) {
	low := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"))
	low.Belief = 0.3
	high := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAPK1", "6871"))
	high.Belief = 0.9

	out := FilterBelief([]statements.Statement{low, high}, 0.5)
	require.Len(t, out, 1)
	assert.Same(t, high, out[0])

	assert.Len(t, FilterBelief([]statements.Statement{low, high}, 0.3), 2,
		"threshold is inclusive")
}

func TestFilterDirect(t *testing.T) {
	direct := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "reach")
	direct.Evidence[0].Epistemics = map[string]bool{"direct": true}
	indirect := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAPK1", "6871"), "reach")
	indirect.Evidence[0].Epistemics = map[string]bool{"direct": false}
	unstated := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAPK3", "6877"), "reach")

	out := FilterDirect([]statements.Statement{direct, indirect, unstated})
	require.Len(t, out, 2, "unstated epistemics count as direct")
	assert.Same(t, direct, out[0])
	assert.Same(t, unstated, out[1])
}

func TestFilterEvidenceSource(t *testing.T) {
	reachOnly := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "reach")
	both := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAPK1", "6871"), "reach", "trips")
	neither := phosStmt(hgncAgent("BRAF", "1097"), hgncAgent("MAPK3", "6877"), "sparser")

	stmts := []statements.Statement{reachOnly, both, neither}

	anyOf := FilterEvidenceSource(stmts, []string{"reach", "trips"}, SourceAny)
	assert.Len(t, anyOf, 2)

	allOf := FilterEvidenceSource(stmts, []string{"reach", "trips"}, SourceAll)
	require.Len(t, allOf, 1)
	assert.Same(t, both, allOf[0])
}
