package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// BondKind constrains the bond status of a site in a pattern.
type BondKind int

const (
	// BondUnspecified leaves the bond status of the site open.
	BondUnspecified BondKind = iota
	// BondIsFree requires the site to be unbound.
	BondIsFree
	// BondIsAny requires the site to be bound to an unspecified partner.
	BondIsAny
	// BondIsNumbered requires the site to carry a specific bond index
	// shared with the partner site in the same complex pattern.
	BondIsNumbered
)

// Bond is a site's bond constraint.
type Bond struct {
	Kind  BondKind `json:"kind"`
	Index int      `json:"index,omitempty"`
}

// BondFree returns an explicitly-unbound constraint.
func BondFree() Bond { return Bond{Kind: BondIsFree} }

// BondAny returns a bound-to-anything constraint.
func BondAny() Bond { return Bond{Kind: BondIsAny} }

// BondIndex returns a numbered bond constraint.
func BondIndex(i int) Bond { return Bond{Kind: BondIsNumbered, Index: i} }

// SiteCondition constrains one site of a monomer pattern: optionally a
// state and optionally a bond status.
type SiteCondition struct {
	State    string `json:"state,omitempty"`
	HasState bool   `json:"has_state,omitempty"`
	Bond     Bond   `json:"bond,omitempty"`
}

// StateCond returns a state-only condition.
func StateCond(state string) SiteCondition {
	return SiteCondition{State: state, HasState: true}
}

// MonomerPattern is a monomer with conditions on a subset of its
// sites. Unmentioned sites are unconstrained.
type MonomerPattern struct {
	Monomer *Monomer                 `json:"-"`
	Name    string                   `json:"monomer"`
	Sites   map[string]SiteCondition `json:"sites,omitempty"`
}

// NewMonomerPattern returns an unconstrained pattern over the monomer.
func NewMonomerPattern(mono *Monomer) *MonomerPattern {
	return &MonomerPattern{Monomer: mono, Name: mono.Name, Sites: make(map[string]SiteCondition)}
}

// With returns a copy of the pattern with one site condition replaced.
func (mp *MonomerPattern) With(site string, cond SiteCondition) *MonomerPattern {
	out := &MonomerPattern{Monomer: mp.Monomer, Name: mp.Name, Sites: make(map[string]SiteCondition, len(mp.Sites)+1)}
	for k, v := range mp.Sites {
		out.Sites[k] = v
	}
	out.Sites[site] = cond
	return out
}

// WithStates returns a copy with every site of the form map applied as
// a state condition. Used to instantiate active-form variants.
func (mp *MonomerPattern) WithStates(form map[string]string) *MonomerPattern {
	out := mp
	for site, state := range form {
		out = out.With(site, StateCond(state))
	}
	return out
}

// Validate checks every condition against the monomer signature:
// unknown sites and states not in the site's state list are rejected.
func (mp *MonomerPattern) Validate() error {
	for site, cond := range mp.Sites {
		found := false
		for _, s := range mp.Monomer.Sites {
			if s == site {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: monomer %s has no site %s", ErrInvalidSitePattern, mp.Name, site)
		}
		if !cond.HasState {
			continue
		}
		states := mp.Monomer.SiteStates[site]
		ok := false
		for _, s := range states {
			if s == cond.State {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: monomer %s site %s has no state %s", ErrInvalidSitePattern, mp.Name, site, cond.State)
		}
	}
	return nil
}

// ComplexPattern is a set of monomer patterns connected by numbered
// bonds.
type ComplexPattern struct {
	Monomers []*MonomerPattern `json:"monomers"`
}

// ReactionPattern is one side of a rule: a list of disconnected
// complex patterns.
type ReactionPattern struct {
	Complexes []*ComplexPattern `json:"complexes,omitempty"`
}

// Species wraps each monomer pattern in its own complex.
func Species(mps ...*MonomerPattern) ReactionPattern {
	var rp ReactionPattern
	for _, mp := range mps {
		rp.Complexes = append(rp.Complexes, &ComplexPattern{Monomers: []*MonomerPattern{mp}})
	}
	return rp
}

// Bound joins the monomer patterns into one complex pattern.
func Bound(mps ...*MonomerPattern) ReactionPattern {
	return ReactionPattern{Complexes: []*ComplexPattern{{Monomers: mps}}}
}

// Empty is the null reaction pattern, used for synthesis and
// degradation rules.
func Empty() ReactionPattern { return ReactionPattern{} }

// agentRuleString flattens an agent and its conditions into a rule
// name fragment.
func agentRuleString(agent *statements.Agent) string {
	parts := []string{statements.Normalize(agent.Name)}
	for _, mod := range agent.Mods {
		s := mod.Mod.Abbrev()
		if mod.Residue != "" {
			s += mod.Residue
		}
		if mod.Position != "" {
			s += mod.Position
		}
		parts = append(parts, s)
	}
	for _, mut := range agent.Mutations {
		s := mutationSiteName(mut)
		if mut.ToResidue != "" {
			s += mut.ToResidue
		}
		parts = append(parts, s)
	}
	for _, bc := range agent.BoundConditions {
		name := statements.Normalize(bc.Agent.Name)
		if !bc.IsBound {
			name = "n" + name
		}
		parts = append(parts, name)
	}
	if agent.Location != "" {
		parts = append(parts, statements.Normalize(agent.Location))
	}
	return strings.Join(parts, "_")
}

// mutationSiteName is the site encoding a mutation position, e.g.
// "V600" with "X" standing in for an unknown wild-type residue.
func mutationSiteName(mut statements.MutCondition) string {
	from := mut.FromResidue
	if from == "" {
		from = "X"
	}
	return from + mut.Position
}

// modSiteName names the site carrying a modification mark: the residue
// when known, otherwise the mark abbreviation, with the position
// appended.
func modSiteName(mod statements.ModType, residue, position string) string {
	s := mod.Abbrev()
	if residue != "" {
		s = residue
	}
	return s + position
}

// uncondAgent strips bound and modification conditions off an agent;
// mutations are static and survive. Used for unconditional
// dissociation rules.
func uncondAgent(agent *statements.Agent) *statements.Agent {
	return agent.Unconditional()
}

// GroundedMonomerPatterns finds the monomer matching the agent's
// grounding through the model's "is" annotations and yields one
// pattern per site/state combination consistent with the agent's
// modification state. Empty when the grounding or the modification
// state cannot be matched.
func GroundedMonomerPatterns(m *Model, agent *statements.Agent) []*MonomerPattern {
	mono := monomerByGrounding(m, agent)
	if mono == nil {
		return nil
	}
	if len(agent.Mods) == 0 {
		return []*MonomerPattern{NewMonomerPattern(mono)}
	}
	var out []*MonomerPattern
	for _, mod := range agent.Mods {
		modSites := make(map[string]string)
		resSites := make(map[string]bool)
		posSites := make(map[string]bool)
		for _, ann := range mono.SiteAnnotations {
			switch {
			case ann.Predicate == PredIsModSite && ann.Value == string(mod.Mod):
				modSites[ann.Site] = ann.State
			case ann.Predicate == PredIsResidue && ann.Value == mod.Residue:
				resSites[ann.Site] = true
			case ann.Predicate == PredIsPosition && ann.Value == mod.Position:
				posSites[ann.Site] = true
			}
		}
		var viable []string
		for site := range modSites {
			if mod.Residue != "" && !resSites[site] {
				continue
			}
			if mod.Position != "" && !posSites[site] {
				continue
			}
			viable = append(viable, site)
		}
		sort.Strings(viable)
		for _, site := range viable {
			out = append(out, NewMonomerPattern(mono).With(site, StateCond(modSites[site])))
		}
	}
	return out
}

func monomerByGrounding(m *Model, agent *statements.Agent) *Monomer {
	for _, ann := range m.Annotations {
		if ann.Predicate != PredIs {
			continue
		}
		mono, ok := m.Monomer(ann.Subject)
		if !ok {
			continue
		}
		ns, id := ontology.ParseGroundingURL(ann.Object)
		if ns == "" {
			continue
		}
		if agent.DBRefs[ns] == id {
			return mono
		}
	}
	return nil
}
