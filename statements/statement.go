package statements

import (
	"github.com/google/uuid"
)

// Kind tags a statement variant. Policy resolution in the assembler and
// refinement bucketing in the preassembler key off this tag.
type Kind string

// Statement kinds.
const (
	KindModification         Kind = "modification"
	KindAutophosphorylation  Kind = "autophosphorylation"
	KindTransphosphorylation Kind = "transphosphorylation"
	KindComplex              Kind = "complex"
	KindRegulateActivity     Kind = "regulateactivity"
	KindActiveForm           Kind = "activeform"
	KindGef                  Kind = "gef"
	KindGap                  Kind = "gap"
	KindTranslocation        Kind = "translocation"
	KindIncreaseAmount       Kind = "increaseamount"
	KindDecreaseAmount       Kind = "decreaseamount"
)

// Evidence records one source occurrence supporting a statement.
// Epistemics carries flags such as "direct".
type Evidence struct {
	ID         string          `json:"id"`
	SourceAPI  string          `json:"source_api"`
	PMID       string          `json:"pmid,omitempty"`
	Text       string          `json:"text,omitempty"`
	Epistemics map[string]bool `json:"epistemics,omitempty"`
}

// NewEvidence returns an Evidence with a fresh unique ID.
func NewEvidence(sourceAPI, text string) Evidence {
	return Evidence{
		ID:        uuid.New().String(),
		SourceAPI: sourceAPI,
		Text:      text,
	}
}

// Core holds the statement fields shared by every kind: evidence and
// the belief score assigned by the belief engine. Support relations
// between statements are kept in the preassembler's SupportGraph, not
// here.
type Core struct {
	Evidence []Evidence `json:"evidence,omitempty"`
	Belief   float64    `json:"belief"`
}

// Info returns the shared statement fields.
func (c *Core) Info() *Core { return c }

// Statement is a typed relational fact over one to three Agents.
// Implementations are value structs embedding Core.
type Statement interface {
	// Kind returns the variant tag of the statement.
	Kind() Kind

	// AgentList returns the agents in their statement-defined slot
	// order. Slots may be nil (e.g. a DecreaseAmount with no subject).
	AgentList() []*Agent

	// MatchesKey returns a canonical structural key that ignores
	// evidence and belief. Two statements with equal keys are
	// duplicates in the deduplication sense.
	MatchesKey() string

	// Info exposes the shared evidence/belief fields.
	Info() *Core
}

// MergeEvidence appends the evidence of src to dst without
// deduplication, preserving order.
func MergeEvidence(dst, src Statement) {
	dst.Info().Evidence = append(dst.Info().Evidence, src.Info().Evidence...)
}

// IsDirect reports whether the statement describes a direct physical
// interaction. Any evidence marked direct wins; evidence marked
// indirect makes the statement indirect only if nothing marks it
// direct; with no epistemic flags at all the statement defaults to
// direct.
func IsDirect(stmt Statement) bool {
	anyIndirect := false
	for _, ev := range stmt.Info().Evidence {
		direct, ok := ev.Epistemics["direct"]
		if !ok {
			continue
		}
		if direct {
			return true
		}
		anyIndirect = true
	}
	return !anyIndirect
}
