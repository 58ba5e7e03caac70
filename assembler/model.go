package assembler

import (
	"fmt"
	"log/slog"

	"github.com/mechbio/mechkb/statements"
)

// Annotation relates a model component to an external fact, e.g. a
// monomer to its grounding URL ("is") or a rule to the monomer acting
// as its subject ("rule_has_subject").
type Annotation struct {
	Subject   string `json:"subject"`
	Object    string `json:"object"`
	Predicate string `json:"predicate"`
}

// Annotation predicates used by the compiler.
const (
	PredIs          = "is"
	PredHasSubject  = "rule_has_subject"
	PredHasObject   = "rule_has_object"
	PredIsModSite   = "is_modification"
	PredIsResidue   = "is_residue"
	PredIsPosition  = "is_position"
)

// SiteAnnotation ties a monomer site (and optionally a state) to the
// modification mark, residue or position it encodes. Used to recover
// grounded patterns from an assembled model.
type SiteAnnotation struct {
	Site      string `json:"site"`
	State     string `json:"state,omitempty"`
	Predicate string `json:"predicate"`
	Value     string `json:"value"`
}

// Monomer is a molecular species signature: a name, its sites, and for
// stateful sites the ordered list of admissible states. The first
// declared state of a site is its ground state.
type Monomer struct {
	Name            string              `json:"name"`
	Sites           []string            `json:"sites"`
	SiteStates      map[string][]string `json:"site_states,omitempty"`
	SiteAnnotations []SiteAnnotation    `json:"site_annotations,omitempty"`
}

// Parameter is a named numeric constant referenced by rules and
// initial conditions.
type Parameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Rule is an irreversible pattern-rewrite with a single forward rate.
// Reversible processes are encoded as two rules.
type Rule struct {
	Name string          `json:"name"`
	LHS  ReactionPattern `json:"lhs"`
	RHS  ReactionPattern `json:"rhs"`
	Rate *Parameter      `json:"rate"`
}

// Initial seeds a fully specified species with an amount parameter.
type Initial struct {
	Pattern   *MonomerPattern `json:"pattern"`
	Parameter *Parameter      `json:"parameter"`
}

// Model is the compiled reaction network. Component order follows
// insertion order; names are unique per component class.
type Model struct {
	Name        string
	Monomers    []*Monomer
	Parameters  []*Parameter
	Rules       []*Rule
	Initials    []Initial
	Annotations []Annotation

	monomerIdx map[string]*Monomer
	paramIdx   map[string]*Parameter
	ruleIdx    map[string]*Rule
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name:       name,
		monomerIdx: make(map[string]*Monomer),
		paramIdx:   make(map[string]*Parameter),
		ruleIdx:    make(map[string]*Rule),
	}
}

// AddMonomer adds a monomer signature. Duplicate names are rejected
// silently by returning the existing monomer.
func (m *Model) AddMonomer(mono *Monomer) *Monomer {
	if existing, ok := m.monomerIdx[mono.Name]; ok {
		return existing
	}
	m.Monomers = append(m.Monomers, mono)
	m.monomerIdx[mono.Name] = mono
	return mono
}

// Monomer looks a monomer up by name.
func (m *Model) Monomer(name string) (*Monomer, bool) {
	mono, ok := m.monomerIdx[name]
	return mono, ok
}

// AddRule inserts a rule unless one with the same name exists already.
// Distinct statements can legitimately generate identical rule names;
// the collision is logged and the later rule dropped.
func (m *Model) AddRule(r *Rule) bool {
	if _, ok := m.ruleIdx[r.Name]; ok {
		slog.Warn("rule already in model, skipping", "rule", r.Name)
		return false
	}
	m.Rules = append(m.Rules, r)
	m.ruleIdx[r.Name] = r
	return true
}

// Rule looks a rule up by name.
func (m *Model) Rule(name string) (*Rule, bool) {
	r, ok := m.ruleIdx[name]
	return r, ok
}

// Parameter looks a parameter up by name.
func (m *Model) Parameter(name string) (*Parameter, bool) {
	p, ok := m.paramIdx[name]
	return p, ok
}

// CreateParameter returns a parameter with the given base name,
// creating it if needed. With unique set, a fresh name is minted by
// appending a counter suffix, so every call yields a new parameter.
// Without unique, an existing parameter is reused with its value
// untouched; shared constants like a generic binding rate work this
// way.
func (m *Model) CreateParameter(name string, value float64, unique bool) *Parameter {
	norm := statements.Normalize(name)
	if !unique {
		if p, ok := m.paramIdx[norm]; ok {
			return p
		}
		p := &Parameter{Name: norm, Value: value}
		m.addParameter(p)
		return p
	}
	for n := 1; ; n++ {
		pname := fmt.Sprintf("%s_%d", norm, n)
		if _, ok := m.paramIdx[pname]; ok {
			continue
		}
		p := &Parameter{Name: pname, Value: value}
		m.addParameter(p)
		return p
	}
}

func (m *Model) addParameter(p *Parameter) {
	m.Parameters = append(m.Parameters, p)
	m.paramIdx[p.Name] = p
}

// Annotate appends a provenance annotation.
func (m *Model) Annotate(subject, object, predicate string) {
	m.Annotations = append(m.Annotations, Annotation{Subject: subject, Object: object, Predicate: predicate})
}

// RulesWithAnnotation returns the rules annotated with the given
// predicate against a monomer name, e.g. all rules having BRAF as
// subject.
func (m *Model) RulesWithAnnotation(monomerName, predicate string) []*Rule {
	var rules []*Rule
	for _, ann := range m.Annotations {
		if ann.Predicate != predicate || ann.Object != monomerName {
			continue
		}
		if r, ok := m.ruleIdx[ann.Subject]; ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// SetBaseInitial seeds the monomer in its ground state: first declared
// state for every stateful site, unbound for the rest. The amount
// parameter is named <monomer>_0; calling again updates the value in
// place.
func (m *Model) SetBaseInitial(mono *Monomer, value float64) {
	pattern := NewMonomerPattern(mono)
	for _, site := range mono.Sites {
		if states, ok := mono.SiteStates[site]; ok && len(states) > 0 {
			pattern.Sites[site] = SiteCondition{State: states[0], HasState: true, Bond: BondFree()}
		} else {
			pattern.Sites[site] = SiteCondition{Bond: BondFree()}
		}
	}
	pname := mono.Name + "_0"
	if p, ok := m.paramIdx[pname]; ok {
		p.Value = value
		return
	}
	p := &Parameter{Name: pname, Value: value}
	m.addParameter(p)
	m.Initials = append(m.Initials, Initial{Pattern: pattern, Parameter: p})
}

// SetExtendedInitial seeds the fully modified state of the monomer
// (last declared state for every stateful site) with a zero default,
// for downstream tools that require every reachable species to carry
// initial mass. Monomers with no stateful site are skipped since their
// extended state equals the base one.
func (m *Model) SetExtendedInitial(mono *Monomer, value float64) {
	pattern := NewMonomerPattern(mono)
	stateful := false
	for _, site := range mono.Sites {
		if states, ok := mono.SiteStates[site]; ok && len(states) > 0 {
			pattern.Sites[site] = SiteCondition{State: states[len(states)-1], HasState: true, Bond: BondFree()}
			stateful = true
		} else {
			pattern.Sites[site] = SiteCondition{Bond: BondFree()}
		}
	}
	if !stateful {
		return
	}
	pname := mono.Name + "_0_mod"
	if p, ok := m.paramIdx[pname]; ok {
		p.Value = value
		return
	}
	p := &Parameter{Name: pname, Value: value}
	m.addParameter(p)
	m.Initials = append(m.Initials, Initial{Pattern: pattern, Parameter: p})
}
