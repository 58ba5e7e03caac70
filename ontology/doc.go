// Package ontology provides the hierarchy service used throughout
// statement assembly: directed acyclic graphs of is-a and part-of
// relations over entities, modification types, activity types and
// cellular components, with precomputed transitive closures so that
// repeated queries are O(1) amortized. Unknown URIs and malformed
// grounding pairs always yield empty results, never errors.
package ontology
