// Package preassembler reduces a raw statement corpus to a minimal
// consistent set: duplicates are merged, then refinement relations
// between the remaining unique statements are computed against the
// ontology so that the most-specific frontier can be filtered out.
package preassembler

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// SupportGraph is the result of combining related statements: an arena
// of unique statements addressed by index, with support edges kept as
// adjacency lists. When statement A refines statement B, A appears in
// B's Supports list and B in A's SupportedBy list.
type SupportGraph struct {
	Statements []statements.Statement

	supports    [][]int
	supportedBy [][]int
}

func newSupportGraph(stmts []statements.Statement) *SupportGraph {
	return &SupportGraph{
		Statements:  stmts,
		supports:    make([][]int, len(stmts)),
		supportedBy: make([][]int, len(stmts)),
	}
}

// addSupport records that the statement at index specific refines the
// one at index general.
func (g *SupportGraph) addSupport(specific, general int) {
	for _, s := range g.supports[general] {
		if s == specific {
			return
		}
	}
	g.supports[general] = append(g.supports[general], specific)
	g.supportedBy[specific] = append(g.supportedBy[specific], general)
}

// Supports returns the indices of statements refining statement i.
func (g *SupportGraph) Supports(i int) []int { return g.supports[i] }

// SupportedBy returns the indices of statements that statement i
// refines.
func (g *SupportGraph) SupportedBy(i int) []int { return g.supportedBy[i] }

// Edges returns all (specific, general) support pairs, used by the
// persistence layer to round-trip the graph.
func (g *SupportGraph) Edges() [][2]int {
	var edges [][2]int
	for general, specifics := range g.supports {
		for _, specific := range specifics {
			edges = append(edges, [2]int{specific, general})
		}
	}
	return edges
}

// RestoreEdges rebuilds adjacency from persisted (specific, general)
// pairs. Out-of-range pairs are dropped.
func (g *SupportGraph) RestoreEdges(edges [][2]int) {
	for _, e := range edges {
		if e[0] < 0 || e[0] >= len(g.Statements) || e[1] < 0 || e[1] >= len(g.Statements) {
			continue
		}
		g.addSupport(e[0], e[1])
	}
}

// FilterTopLevel returns the statements whose Supports list is empty:
// nothing more specific covers them, so they form the most-specific
// frontier of the corpus.
func (g *SupportGraph) FilterTopLevel() []statements.Statement {
	var out []statements.Statement
	for i, stmt := range g.Statements {
		if len(g.supports[i]) == 0 {
			out = append(out, stmt)
		}
	}
	return out
}

// Preassembler runs the deduplication and combination stages over one
// statement corpus. Not safe for concurrent use.
type Preassembler struct {
	hierarchies *ontology.Hierarchies
	stmts       []statements.Statement
	unique      []statements.Statement
}

// New returns a preassembler over the given hierarchy set and initial
// statements.
func New(hs *ontology.Hierarchies, stmts []statements.Statement) *Preassembler {
	return &Preassembler{hierarchies: hs, stmts: stmts}
}

// AddStatements appends more raw statements prior to combination.
func (pa *Preassembler) AddStatements(stmts ...statements.Statement) {
	pa.stmts = append(pa.stmts, stmts...)
}

// UniqueStatements returns the deduplicated statements, running
// CombineDuplicates first if needed.
func (pa *Preassembler) UniqueStatements() []statements.Statement {
	if pa.unique == nil {
		pa.CombineDuplicates()
	}
	return pa.unique
}

// CombineDuplicates groups statements by their structural matches-key
// and merges each group into one representative carrying the
// concatenated evidence of the group. Grouping is stable: the
// representative is the first statement seen with its key, and output
// order follows first occurrence.
func (pa *Preassembler) CombineDuplicates() []statements.Statement {
	byKey := make(map[string]statements.Statement, len(pa.stmts))
	var order []statements.Statement
	for _, stmt := range pa.stmts {
		key := stmt.MatchesKey()
		if rep, ok := byKey[key]; ok {
			statements.MergeEvidence(rep, stmt)
			continue
		}
		byKey[key] = stmt
		order = append(order, stmt)
	}
	pa.unique = order
	slog.Debug("combined duplicates", "in", len(pa.stmts), "unique", len(order))
	return pa.unique
}

// CombineRelated compares every pair of unique statements of the same
// kind and records support edges where one strictly refines the other.
// Statements are pre-bucketed by kind and root signatures (the top
// ontological ancestors of each agent slot) so unrelated pairs are
// never compared; statements with a nil agent slot are generic and are
// compared against every bucket of their kind.
func (pa *Preassembler) CombineRelated() *SupportGraph {
	unique := pa.UniqueStatements()
	g := newSupportGraph(unique)

	type bucket struct {
		members []int
	}
	buckets := make(map[string]*bucket)
	kindWildcards := make(map[statements.Kind][]int)
	kindBucketKeys := make(map[statements.Kind][]string)

	for i, stmt := range unique {
		sigs, wildcard := pa.rootSignatures(stmt)
		if wildcard {
			kindWildcards[stmt.Kind()] = append(kindWildcards[stmt.Kind()], i)
			continue
		}
		for _, sig := range sigs {
			key := string(stmt.Kind()) + "|" + sig
			b, ok := buckets[key]
			if !ok {
				b = &bucket{}
				buckets[key] = b
				kindBucketKeys[stmt.Kind()] = append(kindBucketKeys[stmt.Kind()], key)
			}
			b.members = append(b.members, i)
		}
	}

	compare := func(i, j int) {
		a, b := unique[i], unique[j]
		ab := refines(a, b, pa.hierarchies)
		ba := refines(b, a, pa.hierarchies)
		switch {
		case ab && ba:
			// Structurally distinct but ontologically equivalent:
			// no edge, to keep the support relation acyclic.
		case ab:
			g.addSupport(i, j)
		case ba:
			g.addSupport(j, i)
		}
	}

	for _, b := range buckets {
		for x := 0; x < len(b.members); x++ {
			for y := x + 1; y < len(b.members); y++ {
				compare(b.members[x], b.members[y])
			}
		}
	}
	for kind, wilds := range kindWildcards {
		for x := 0; x < len(wilds); x++ {
			for y := x + 1; y < len(wilds); y++ {
				compare(wilds[x], wilds[y])
			}
		}
		for _, key := range kindBucketKeys[kind] {
			for _, i := range buckets[key].members {
				for _, w := range wilds {
					compare(i, w)
				}
			}
		}
	}

	slog.Debug("combined related", "unique", len(unique), "edges", len(g.Edges()))
	return g
}

// rootSignatures maps each agent slot to its top ontological ancestors
// (or its own key when it has none) and emits one signature per
// combination, so an entity with several top ancestors lands in every
// bucket it could share with a relative. Parts are sorted within a
// signature so slot order does not matter for symmetric statements.
// A nil slot makes the statement a wildcard for bucketing purposes.
func (pa *Preassembler) rootSignatures(stmt statements.Statement) ([]string, bool) {
	combos := [][]string{nil}
	for _, agent := range stmt.AgentList() {
		if agent == nil {
			return nil, true
		}
		keys := pa.rootKeys(agent)
		next := make([][]string, 0, len(combos)*len(keys))
		for _, c := range combos {
			for _, k := range keys {
				next = append(next, append(append([]string{}, c...), k))
			}
		}
		combos = next
	}

	seen := make(map[string]bool, len(combos))
	var sigs []string
	for _, c := range combos {
		sort.Strings(c)
		sig := strings.Join(c, ",")
		if !seen[sig] {
			seen[sig] = true
			sigs = append(sigs, sig)
		}
	}
	return sigs, false
}

func (pa *Preassembler) rootKeys(agent *statements.Agent) []string {
	ns, id := agent.Grounding()
	if id == "" {
		return []string{agent.Name}
	}
	uri := pa.hierarchies.NS.URI(ns, id)
	if tops := pa.hierarchies.Entity.GetParents(uri, ontology.ParentsTop); len(tops) > 0 {
		return tops
	}
	if uri != "" {
		return []string{uri}
	}
	return []string{agent.Name}
}
