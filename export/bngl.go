package export

import (
	"fmt"
	"strings"

	"github.com/mechbio/mechkb/assembler"
)

// toBNGL renders the model as a BNGL program: parameters, molecule
// types, seed species and reaction rules.
func (e *Exporter) toBNGL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", e.model.Name)
	sb.WriteString("begin model\n\n")

	sb.WriteString("begin parameters\n")
	for _, p := range e.model.Parameters {
		fmt.Fprintf(&sb, "  %s %g\n", p.Name, p.Value)
	}
	sb.WriteString("end parameters\n\n")

	sb.WriteString("begin molecule types\n")
	for _, m := range e.model.Monomers {
		fmt.Fprintf(&sb, "  %s\n", moleculeType(m))
	}
	sb.WriteString("end molecule types\n\n")

	sb.WriteString("begin seed species\n")
	for _, init := range e.model.Initials {
		fmt.Fprintf(&sb, "  %s %s\n", monomerPatternString(init.Pattern), init.Parameter.Name)
	}
	sb.WriteString("end seed species\n\n")

	sb.WriteString("begin reaction rules\n")
	for _, r := range e.model.Rules {
		fmt.Fprintf(&sb, "  %s: %s -> %s %s\n", r.Name,
			reactionPatternString(r.LHS), reactionPatternString(r.RHS), r.Rate.Name)
	}
	sb.WriteString("end reaction rules\n\n")

	sb.WriteString("end model\n")
	return sb.String()
}

// toFlat renders a plain component listing, one line per component.
func (e *Exporter) toFlat() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model: %s\n", e.model.Name)
	for _, m := range e.model.Monomers {
		fmt.Fprintf(&sb, "Monomer %s\n", moleculeType(m))
	}
	for _, p := range e.model.Parameters {
		fmt.Fprintf(&sb, "Parameter %s = %g\n", p.Name, p.Value)
	}
	for _, r := range e.model.Rules {
		fmt.Fprintf(&sb, "Rule %s: %s -> %s @ %s\n", r.Name,
			reactionPatternString(r.LHS), reactionPatternString(r.RHS), r.Rate.Name)
	}
	for _, init := range e.model.Initials {
		fmt.Fprintf(&sb, "Initial %s = %s\n", monomerPatternString(init.Pattern), init.Parameter.Name)
	}
	return sb.String()
}

// moleculeType renders a monomer signature, states joined by tildes:
// BRAF(map2k1,S222~u~p).
func moleculeType(m *assembler.Monomer) string {
	sites := make([]string, len(m.Sites))
	for i, site := range m.Sites {
		s := site
		for _, state := range m.SiteStates[site] {
			s += "~" + state
		}
		sites[i] = s
	}
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(sites, ","))
}

func reactionPatternString(rp assembler.ReactionPattern) string {
	if len(rp.Complexes) == 0 {
		return "0"
	}
	parts := make([]string, len(rp.Complexes))
	for i, cp := range rp.Complexes {
		monos := make([]string, len(cp.Monomers))
		for j, mp := range cp.Monomers {
			monos[j] = monomerPatternString(mp)
		}
		parts[i] = strings.Join(monos, ".")
	}
	return strings.Join(parts, " + ")
}

// monomerPatternString renders a monomer pattern with its constrained
// sites in signature order, so output is deterministic.
func monomerPatternString(mp *assembler.MonomerPattern) string {
	var sites []string
	for _, site := range mp.Monomer.Sites {
		cond, ok := mp.Sites[site]
		if !ok {
			continue
		}
		sites = append(sites, siteConditionString(site, cond))
	}
	return fmt.Sprintf("%s(%s)", mp.Name, strings.Join(sites, ","))
}

func siteConditionString(site string, cond assembler.SiteCondition) string {
	s := site
	if cond.HasState {
		s += "~" + cond.State
	}
	switch cond.Bond.Kind {
	case assembler.BondIsFree:
		// A mentioned site with no bond marker is unbound in BNGL.
	case assembler.BondIsAny:
		s += "!+"
	case assembler.BondIsNumbered:
		s += fmt.Sprintf("!%d", cond.Bond.Index)
	case assembler.BondUnspecified:
		s += "!?"
	}
	return s
}
