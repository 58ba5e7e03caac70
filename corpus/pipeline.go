// Package corpus wires the preassembly stages into a pipeline and
// provides the standard corpus filters. Every stage logs statement
// counts before and after, so a run leaves an auditable trail.
package corpus

import (
	"log/slog"

	"github.com/mechbio/mechkb/belief"
	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/preassembler"
	"github.com/mechbio/mechkb/statements"
)

// Pipeline runs preassembly over raw statement corpora. Safe to reuse
// across runs; each run gets its own preassembler.
type Pipeline struct {
	Hierarchies *ontology.Hierarchies
	Beliefs     *belief.Engine
}

// NewPipeline returns a pipeline over the given hierarchy set and
// belief engine. A nil engine gets the default priors.
func NewPipeline(hs *ontology.Hierarchies, eng *belief.Engine) *Pipeline {
	if eng == nil {
		eng = belief.NewEngine(nil)
	}
	return &Pipeline{Hierarchies: hs, Beliefs: eng}
}

// RunPreassembly performs the full preassembly sequence: duplicates
// are merged, prior beliefs assigned, refinement relations computed,
// and beliefs recomputed over the support graph. The returned graph
// holds the unique statements and their support edges.
func (p *Pipeline) RunPreassembly(stmts []statements.Statement) *preassembler.SupportGraph {
	pa := preassembler.New(p.Hierarchies, stmts)

	unique := pa.CombineDuplicates()
	slog.Info("combined duplicates", "in", len(stmts), "out", len(unique))
	countStage("combine_duplicates", len(stmts), len(unique))

	p.Beliefs.SetPriorProbs(unique)

	graph := pa.CombineRelated()
	slog.Info("combined related", "in", len(unique), "edges", len(graph.Edges()))
	countStage("combine_related", len(unique), len(graph.Statements))

	p.Beliefs.SetHierarchyProbs(graph)
	return graph
}

// FilterTopLevel keeps the most-specific frontier of the support
// graph: statements that no other statement refines.
func FilterTopLevel(g *preassembler.SupportGraph) []statements.Statement {
	out := g.FilterTopLevel()
	slog.Info("filtered to top level", "in", len(g.Statements), "out", len(out))
	countStage("filter_top_level", len(g.Statements), len(out))
	return out
}

// FilterByKind keeps statements of the given kind.
func FilterByKind(stmts []statements.Statement, kind statements.Kind) []statements.Statement {
	out := filter(stmts, "filter_by_kind", func(s statements.Statement) bool {
		return s.Kind() == kind
	})
	return out
}

// FilterGrounded keeps statements whose every non-nil agent carries a
// grounding beyond its text mention.
func FilterGrounded(stmts []statements.Statement) []statements.Statement {
	return filter(stmts, "filter_grounded", func(s statements.Statement) bool {
		for _, agent := range s.AgentList() {
			if agent != nil && !agent.IsGrounded() {
				return false
			}
		}
		return true
	})
}

// FilterGenesOnly keeps statements whose agents are all grounded to
// gene symbols; with allowFamilies, family-level groundings also pass.
func FilterGenesOnly(stmts []statements.Statement, allowFamilies bool) []statements.Statement {
	return filter(stmts, "filter_genes_only", func(s statements.Statement) bool {
		for _, agent := range s.AgentList() {
			if agent == nil {
				continue
			}
			ns, _ := agent.Grounding()
			switch {
			case ns == statements.RefHGNC:
			case ns == statements.RefFamily && allowFamilies:
			default:
				return false
			}
		}
		return true
	})
}

// FilterBelief keeps statements at or above the belief threshold.
func FilterBelief(stmts []statements.Statement, threshold float64) []statements.Statement {
	return filter(stmts, "filter_belief", func(s statements.Statement) bool {
		return s.Info().Belief >= threshold
	})
}

// FilterDirect keeps statements describing direct physical
// interactions per their evidence epistemics.
func FilterDirect(stmts []statements.Statement) []statements.Statement {
	return filter(stmts, "filter_direct", statements.IsDirect)
}

// SourcePolicy selects how FilterEvidenceSource combines sources.
type SourcePolicy string

const (
	// SourceAny keeps statements with evidence from at least one of
	// the given sources.
	SourceAny SourcePolicy = "any"
	// SourceAll requires evidence from every given source.
	SourceAll SourcePolicy = "all"
)

// FilterEvidenceSource keeps statements by the extraction sources of
// their evidence.
func FilterEvidenceSource(stmts []statements.Statement, sources []string, policy SourcePolicy) []statements.Statement {
	want := make(map[string]bool, len(sources))
	for _, s := range sources {
		want[s] = true
	}
	return filter(stmts, "filter_evidence_source", func(s statements.Statement) bool {
		have := make(map[string]bool)
		for _, ev := range s.Info().Evidence {
			if want[ev.SourceAPI] {
				have[ev.SourceAPI] = true
			}
		}
		if policy == SourceAll {
			return len(have) == len(want)
		}
		return len(have) > 0
	})
}

func filter(stmts []statements.Statement, stage string, keep func(statements.Statement) bool) []statements.Statement {
	var out []statements.Statement
	for _, s := range stmts {
		if keep(s) {
			out = append(out, s)
		}
	}
	slog.Info(stage, "in", len(stmts), "out", len(out))
	countStage(stage, len(stmts), len(out))
	return out
}
