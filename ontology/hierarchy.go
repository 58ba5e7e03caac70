package ontology

import (
	"sort"
)

// Relation distinguishes the two edge types of a hierarchy.
type Relation int

// Hierarchy edge relations.
const (
	RelIsa Relation = iota
	RelPartOf
)

// ParentMode selects which ancestors GetParents returns.
type ParentMode string

// Parent query modes.
const (
	// ParentsImmediate returns only direct parents.
	ParentsImmediate ParentMode = "immediate"

	// ParentsTop returns only maximal ancestors that have no further
	// parents of their own.
	ParentsTop ParentMode = "top"

	// ParentsAll returns the full ancestor set.
	ParentsAll ParentMode = "all"
)

// Hierarchy is a DAG of is-a and part-of relations over URIs for one
// domain (entity, modification, activity or cellular component). Build
// must be called after the last edge is added; queries before Build
// see empty closures.
type Hierarchy struct {
	ns Namespaces

	isaParents    map[string][]string
	partofParents map[string][]string

	isaClosure    map[string]map[string]bool
	partofClosure map[string]map[string]bool

	// Combined ancestor/descendant closures over both edge types, so
	// family membership (is-a) and complex membership (part-of) both
	// count for parent/child queries.
	ancestors   map[string]map[string]bool
	descendants map[string]map[string]bool
}

// NewHierarchy returns an empty hierarchy resolving (namespace, id)
// pairs through the given namespace table.
func NewHierarchy(ns Namespaces) *Hierarchy {
	return &Hierarchy{
		ns:            ns,
		isaParents:    make(map[string][]string),
		partofParents: make(map[string][]string),
	}
}

// AddEdge records child rel parent. Duplicate edges are ignored.
func (h *Hierarchy) AddEdge(child, parent string, rel Relation) {
	if child == "" || parent == "" || child == parent {
		return
	}
	edges := h.isaParents
	if rel == RelPartOf {
		edges = h.partofParents
	}
	for _, p := range edges[child] {
		if p == parent {
			return
		}
	}
	edges[child] = append(edges[child], parent)
}

// Build precomputes the transitive closures. Safe to call more than
// once; later AddEdge calls require another Build.
func (h *Hierarchy) Build() {
	h.isaClosure = transitiveClosure(h.isaParents)
	h.partofClosure = transitiveClosure(h.partofParents)

	combined := make(map[string][]string, len(h.isaParents)+len(h.partofParents))
	for c, ps := range h.isaParents {
		combined[c] = append(combined[c], ps...)
	}
	for c, ps := range h.partofParents {
		combined[c] = append(combined[c], ps...)
	}
	h.ancestors = transitiveClosure(combined)

	h.descendants = make(map[string]map[string]bool)
	for child, ancs := range h.ancestors {
		for anc := range ancs {
			if h.descendants[anc] == nil {
				h.descendants[anc] = make(map[string]bool)
			}
			h.descendants[anc][child] = true
		}
	}
}

// transitiveClosure computes, per node, the set of all strict
// ancestors reachable through the parent map. A visited guard keeps
// accidental cycles from looping.
func transitiveClosure(parents map[string][]string) map[string]map[string]bool {
	closure := make(map[string]map[string]bool, len(parents))
	var walk func(node string, into map[string]bool, seen map[string]bool)
	walk = func(node string, into map[string]bool, seen map[string]bool) {
		if seen[node] {
			return
		}
		seen[node] = true
		for _, p := range parents[node] {
			into[p] = true
			walk(p, into, seen)
		}
	}
	for node := range parents {
		set := make(map[string]bool)
		walk(node, set, map[string]bool{})
		closure[node] = set
	}
	return closure
}

// Isa reports whether (ns1, id1) is the same node as or a strict is-a
// descendant of (ns2, id2). Unknown pairs are never related.
func (h *Hierarchy) Isa(ns1, id1, ns2, id2 string) bool {
	uri1 := h.ns.URI(ns1, id1)
	uri2 := h.ns.URI(ns2, id2)
	if uri1 == "" || uri2 == "" {
		return false
	}
	if uri1 == uri2 {
		return true
	}
	return h.isaClosure[uri1][uri2]
}

// PartOf reports whether (ns1, id1) is part of (ns2, id2). An empty
// id2 is a universal match on the right-hand side; an empty id1
// matches only another empty id.
func (h *Hierarchy) PartOf(ns1, id1, ns2, id2 string) bool {
	if id2 == "" {
		return true
	}
	if id1 == "" {
		return false
	}
	uri1 := h.ns.URI(ns1, id1)
	uri2 := h.ns.URI(ns2, id2)
	if uri1 == "" || uri2 == "" {
		return false
	}
	if uri1 == uri2 {
		return true
	}
	return h.partofClosure[uri1][uri2]
}

// IsaOrPartOf reports whether either relation holds, including
// identity. Used by refinement comparison where family membership and
// complex membership are both acceptable generalizations.
func (h *Hierarchy) IsaOrPartOf(ns1, id1, ns2, id2 string) bool {
	if h.Isa(ns1, id1, ns2, id2) {
		return true
	}
	if id1 == "" || id2 == "" {
		return false
	}
	return h.PartOf(ns1, id1, ns2, id2)
}

// GetParents returns the ancestor URIs of uri for the given mode,
// sorted for determinism. Unknown URIs yield an empty result.
func (h *Hierarchy) GetParents(uri string, mode ParentMode) []string {
	switch mode {
	case ParentsImmediate:
		set := make(map[string]bool)
		for _, p := range h.isaParents[uri] {
			set[p] = true
		}
		for _, p := range h.partofParents[uri] {
			set[p] = true
		}
		return sortedKeys(set)
	case ParentsTop:
		tops := make(map[string]bool)
		for anc := range h.ancestors[uri] {
			if len(h.ancestors[anc]) == 0 {
				tops[anc] = true
			}
		}
		return sortedKeys(tops)
	default:
		return sortedKeys(h.ancestors[uri])
	}
}

// GetChildren returns all strict descendant URIs of uri, sorted.
// Leaf and unknown URIs yield an empty result.
func (h *Hierarchy) GetChildren(uri string) []string {
	return sortedKeys(h.descendants[uri])
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Hierarchies bundles the four domain hierarchies sharing one
// namespace table. Loaded once per process and read-only afterwards.
type Hierarchies struct {
	NS                Namespaces
	Entity            *Hierarchy
	Modification      *Hierarchy
	Activity          *Hierarchy
	CellularComponent *Hierarchy
}

// NewHierarchies returns an empty hierarchy set over the default
// namespace table.
func NewHierarchies() *Hierarchies {
	ns := DefaultNamespaces()
	return &Hierarchies{
		NS:                ns,
		Entity:            NewHierarchy(ns),
		Modification:      NewHierarchy(ns),
		Activity:          NewHierarchy(ns),
		CellularComponent: NewHierarchy(ns),
	}
}

// Build precomputes closures for all four hierarchies.
func (hs *Hierarchies) Build() {
	hs.Entity.Build()
	hs.Modification.Build()
	hs.Activity.Build()
	hs.CellularComponent.Build()
}
