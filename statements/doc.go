// Package statements defines the data model for extracted biological
// mechanism statements: Agents with their structural qualifiers, typed
// Statement variants over those Agents, and the evidence attached to
// them. Statements are plain values; ontology-aware comparison lives in
// the preassembler package and rule generation in the assembler package.
package statements
