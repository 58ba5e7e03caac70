// Package belief assigns confidence scores to statements from source
// reliability priors and evidence counts, and propagates them over the
// support graph produced by the preassembler.
package belief

import (
	"math"

	"github.com/mechbio/mechkb/preassembler"
	"github.com/mechbio/mechkb/statements"
)

// SourcePrior holds the error model for one extraction source: Rand is
// the probability that any single evidence is wrong for random
// reasons, Syst the probability that the source is systematically
// wrong about this kind of statement regardless of evidence count.
type SourcePrior struct {
	Rand float64 `yaml:"rand"`
	Syst float64 `yaml:"syst"`
}

// DefaultPriors returns the built-in source error priors. Unlisted
// sources fall back to the "default" entry.
func DefaultPriors() map[string]SourcePrior {
	return map[string]SourcePrior{
		"biopax":  {Rand: 0.10, Syst: 0.05},
		"bel":     {Rand: 0.10, Syst: 0.05},
		"reach":   {Rand: 0.30, Syst: 0.05},
		"trips":   {Rand: 0.30, Syst: 0.05},
		"sparser": {Rand: 0.30, Syst: 0.05},
		"default": {Rand: 0.35, Syst: 0.05},
	}
}

// Engine computes belief scores. It is a pure function of its priors;
// safe to reuse across pipeline runs.
type Engine struct {
	priors map[string]SourcePrior
}

// NewEngine returns an engine over the given priors; nil means the
// built-in defaults.
func NewEngine(priors map[string]SourcePrior) *Engine {
	if priors == nil {
		priors = DefaultPriors()
	}
	if _, ok := priors["default"]; !ok {
		priors["default"] = SourcePrior{Rand: 0.35, Syst: 0.05}
	}
	return &Engine{priors: priors}
}

func (e *Engine) prior(sourceAPI string) SourcePrior {
	if p, ok := e.priors[sourceAPI]; ok {
		return p
	}
	return e.priors["default"]
}

// scoreEvidence computes 1 minus the joint probability that every
// source is wrong: per source, systematic error plus all evidences
// being independently wrong at random.
func (e *Engine) scoreEvidence(evs []statements.Evidence) float64 {
	if len(evs) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, ev := range evs {
		counts[ev.SourceAPI]++
	}
	pWrong := 1.0
	for source, n := range counts {
		p := e.prior(source)
		pWrong *= p.Syst + (1-p.Syst)*math.Pow(p.Rand, float64(n))
	}
	return 1 - pWrong
}

// SetPriorProbs assigns each statement a belief from its own evidence,
// independent of the hierarchy.
func (e *Engine) SetPriorProbs(stmts []statements.Statement) {
	for _, stmt := range stmts {
		stmt.Info().Belief = e.scoreEvidence(stmt.Info().Evidence)
	}
}

// SetHierarchyProbs recomputes beliefs over the support graph: a
// statement's belief reflects the union of its own evidence and the
// evidence of everything that supports it (its transitive refiners).
// A visited guard keeps defensively tolerated cycles from looping.
func (e *Engine) SetHierarchyProbs(g *preassembler.SupportGraph) {
	for i, stmt := range g.Statements {
		var evs []statements.Evidence
		seen := make(map[int]bool)
		var collect func(idx int)
		collect = func(idx int) {
			if seen[idx] {
				return
			}
			seen[idx] = true
			evs = append(evs, g.Statements[idx].Info().Evidence...)
			for _, s := range g.Supports(idx) {
				collect(s)
			}
		}
		collect(i)
		stmt.Info().Belief = e.scoreEvidence(evs)
	}
}
