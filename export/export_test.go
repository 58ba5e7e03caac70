package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mechbio/mechkb/assembler"
)

// bindModel builds a minimal two-monomer model with a reversible bind,
// a degradation and seed species.
func bindModel() *assembler.Model {
	m := assembler.NewModel("raf_binding")
	braf := m.AddMonomer(&assembler.Monomer{Name: "BRAF", Sites: []string{"map2k1"}})
	mek := m.AddMonomer(&assembler.Monomer{
		Name:       "MAP2K1",
		Sites:      []string{"braf", "S222"},
		SiteStates: map[string][]string{"S222": {"u", "p"}},
	})

	kf := m.CreateParameter("kf_bm_bind", 1e-6, true)
	kr := m.CreateParameter("kr_bm_bind", 1e-3, true)
	kdeg := m.CreateParameter("kf_b_deg", 2e-5, true)

	free1 := assembler.NewMonomerPattern(braf).With("map2k1", assembler.SiteCondition{Bond: assembler.BondFree()})
	free2 := assembler.NewMonomerPattern(mek).With("braf", assembler.SiteCondition{Bond: assembler.BondFree()})
	bound1 := assembler.NewMonomerPattern(braf).With("map2k1", assembler.SiteCondition{Bond: assembler.BondIndex(1)})
	bound2 := assembler.NewMonomerPattern(mek).With("braf", assembler.SiteCondition{Bond: assembler.BondIndex(1)})

	m.AddRule(&assembler.Rule{
		Name: "BRAF_MAP2K1_bind",
		LHS:  assembler.Species(free1, free2),
		RHS:  assembler.Bound(bound1, bound2),
		Rate: kf,
	})
	m.AddRule(&assembler.Rule{
		Name: "BRAF_MAP2K1_dissociate",
		LHS:  assembler.Bound(bound1, bound2),
		RHS:  assembler.Species(free1, free2),
		Rate: kr,
	})
	m.AddRule(&assembler.Rule{
		Name: "BRAF_degraded",
		LHS:  assembler.Species(assembler.NewMonomerPattern(braf)),
		RHS:  assembler.Empty(),
		Rate: kdeg,
	})

	m.SetBaseInitial(braf, 1000)
	m.SetBaseInitial(mek, 1000)
	return m
}

func TestMoleculeType(t *testing.T) {
	assert.Equal(t, "BRAF(map2k1)", moleculeType(&assembler.Monomer{
		Name: "BRAF", Sites: []string{"map2k1"},
	}))
	assert.Equal(t, "MAP2K1(braf,S222~u~p)", moleculeType(&assembler.Monomer{
		Name:       "MAP2K1",
		Sites:      []string{"braf", "S222"},
		SiteStates: map[string][]string{"S222": {"u", "p"}},
	}))
	assert.Equal(t, "ATP()", moleculeType(&assembler.Monomer{Name: "ATP"}))
}

func TestSiteConditionString(t *testing.T) {
	tests := []struct {
		name string
		cond assembler.SiteCondition
		want string
	}{
		{"free", assembler.SiteCondition{Bond: assembler.BondFree()}, "s"},
		{"any bond", assembler.SiteCondition{Bond: assembler.BondAny()}, "s!+"},
		{"numbered bond", assembler.SiteCondition{Bond: assembler.BondIndex(2)}, "s!2"},
		{"unspecified", assembler.SiteCondition{}, "s!?"},
		{"state and bond", assembler.SiteCondition{State: "p", HasState: true, Bond: assembler.BondIndex(1)}, "s~p!1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, siteConditionString("s", tt.cond))
		})
	}
}

func TestExportBNGL(t *testing.T) {
	out, err := New(bindModel()).Export(FormatBNGL)
	require.NoError(t, err)

	assert.Contains(t, out, "begin model")
	assert.Contains(t, out, "end model")
	assert.Contains(t, out, "  kf_bm_bind_1 1e-06")
	assert.Contains(t, out, "  MAP2K1(braf,S222~u~p)")
	assert.Contains(t, out, "  BRAF_MAP2K1_bind: BRAF(map2k1) + MAP2K1(braf) -> BRAF(map2k1!1).MAP2K1(braf!1) kf_bm_bind_1")
	assert.Contains(t, out, "  BRAF_degraded: BRAF() -> 0 kf_b_deg_1",
		"the empty pattern renders as the BNGL null species")
	assert.Contains(t, out, "  MAP2K1(braf,S222~u) MAP2K1_0",
		"seed species pin the ground state")
}

func TestExportFlat(t *testing.T) {
	out, err := New(bindModel()).Export(FormatFlat)
	require.NoError(t, err)

	assert.Contains(t, out, "Model: raf_binding")
	assert.Contains(t, out, "Monomer MAP2K1(braf,S222~u~p)")
	assert.Contains(t, out, "Parameter kr_bm_bind_1 = 0.001")
	assert.Contains(t, out, "Rule BRAF_MAP2K1_dissociate: BRAF(map2k1!1).MAP2K1(braf!1) -> BRAF(map2k1) + MAP2K1(braf) @ kr_bm_bind_1")
	assert.Contains(t, out, "Initial BRAF(map2k1) = BRAF_0")
}

func TestExportJSON(t *testing.T) {
	out, err := New(bindModel()).Export(FormatJSON)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "raf_binding", doc["name"])
	assert.Len(t, doc["monomers"], 2)
	assert.Len(t, doc["rules"], 3)
	assert.Len(t, doc["parameters"], 5, "rate constants plus initial amounts")
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := New(bindModel()).Export(Format("sbml"))
	assert.Error(t, err)
}

func TestFormatRegistry(t *testing.T) {
	for _, format := range []Format{FormatBNGL, FormatFlat, FormatJSON} {
		info, ok := GetFormatInfo(format)
		require.True(t, ok, "format %s", format)
		assert.Equal(t, format, info.Name)
		assert.NotEmpty(t, info.Extension)
		assert.NotEmpty(t, info.MIMEType)
	}
	_, ok := GetFormatInfo(Format("sbml"))
	assert.False(t, ok)
}
