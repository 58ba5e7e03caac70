package preassembler

import (
	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// refines reports whether a is equal to or more specific than b under
// the ontology: same kind, every agent slot ontologically
// equal-or-more-specific, every qualifying condition of b matched by
// one on a. The relation is reflexive; the combiner derives the strict
// form by checking both directions.
func refines(a, b statements.Statement, hs *ontology.Hierarchies) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch sa := a.(type) {
	case *statements.Modification:
		sb := b.(*statements.Modification)
		return sa.Remove == sb.Remove &&
			modTypeRefines(sa.Mod, sb.Mod, hs) &&
			siteRefines(sa.Residue, sb.Residue) &&
			siteRefines(sa.Position, sb.Position) &&
			agentRefines(sa.Enz, sb.Enz, hs) &&
			agentRefines(sa.Sub, sb.Sub, hs)
	case *statements.Autophosphorylation:
		sb := b.(*statements.Autophosphorylation)
		return siteRefines(sa.Residue, sb.Residue) &&
			siteRefines(sa.Position, sb.Position) &&
			agentRefines(sa.Enz, sb.Enz, hs)
	case *statements.Transphosphorylation:
		sb := b.(*statements.Transphosphorylation)
		return siteRefines(sa.Residue, sb.Residue) &&
			siteRefines(sa.Position, sb.Position) &&
			agentRefines(sa.Enz, sb.Enz, hs)
	case *statements.Complex:
		sb := b.(*statements.Complex)
		return complexRefines(sa, sb, hs)
	case *statements.RegulateActivity:
		sb := b.(*statements.RegulateActivity)
		return sa.IsActivation == sb.IsActivation &&
			activityRefines(sa.ObjActivity, sb.ObjActivity, hs) &&
			agentRefines(sa.Subj, sb.Subj, hs) &&
			agentRefines(sa.Obj, sb.Obj, hs)
	case *statements.ActiveForm:
		sb := b.(*statements.ActiveForm)
		return sa.IsActive == sb.IsActive &&
			activityRefines(sa.ActivityType, sb.ActivityType, hs) &&
			agentRefines(sa.Agent, sb.Agent, hs)
	case *statements.Gef:
		sb := b.(*statements.Gef)
		return agentRefines(sa.Gef, sb.Gef, hs) && agentRefines(sa.Ras, sb.Ras, hs)
	case *statements.Gap:
		sb := b.(*statements.Gap)
		return agentRefines(sa.Gap, sb.Gap, hs) && agentRefines(sa.Ras, sb.Ras, hs)
	case *statements.Translocation:
		sb := b.(*statements.Translocation)
		return locationRefines(sa.FromLocation, sb.FromLocation, hs) &&
			locationRefines(sa.ToLocation, sb.ToLocation, hs) &&
			agentRefines(sa.Agent, sb.Agent, hs)
	case *statements.IncreaseAmount:
		sb := b.(*statements.IncreaseAmount)
		return agentRefines(sa.Subj, sb.Subj, hs) && agentRefines(sa.Obj, sb.Obj, hs)
	case *statements.DecreaseAmount:
		sb := b.(*statements.DecreaseAmount)
		return agentRefines(sa.Subj, sb.Subj, hs) && agentRefines(sa.Obj, sb.Obj, hs)
	}
	return false
}

// agentRefines reports whether agent a is equal to or more specific
// than agent b. A nil slot is the generic side of any comparison.
func agentRefines(a, b *statements.Agent, hs *ontology.Hierarchies) bool {
	if b == nil {
		return true
	}
	if a == nil {
		return false
	}
	if !entityRefines(a, b, hs) {
		return false
	}
	for _, bm := range b.Mods {
		if !hasRefiningMod(a.Mods, bm, hs) {
			return false
		}
	}
	for _, bm := range b.Mutations {
		if !hasRefiningMutation(a.Mutations, bm) {
			return false
		}
	}
	for _, bc := range b.BoundConditions {
		if !hasRefiningBound(a.BoundConditions, bc, hs) {
			return false
		}
	}
	if !locationRefines(a.Location, b.Location, hs) {
		return false
	}
	if b.Activity != nil {
		if a.Activity == nil || a.Activity.IsActive != b.Activity.IsActive {
			return false
		}
		if !activityRefines(a.Activity.ActivityType, b.Activity.ActivityType, hs) {
			return false
		}
	}
	return true
}

func entityRefines(a, b *statements.Agent, hs *ontology.Hierarchies) bool {
	if a.Name == b.Name {
		return true
	}
	ns1, id1 := a.Grounding()
	ns2, id2 := b.Grounding()
	if id1 == "" || id2 == "" {
		return false
	}
	return hs.Entity.IsaOrPartOf(ns1, id1, ns2, id2)
}

func hasRefiningMod(mods []statements.ModCondition, want statements.ModCondition, hs *ontology.Hierarchies) bool {
	for _, mc := range mods {
		if mc.IsModified == want.IsModified &&
			modTypeRefines(mc.Mod, want.Mod, hs) &&
			siteRefines(mc.Residue, want.Residue) &&
			siteRefines(mc.Position, want.Position) {
			return true
		}
	}
	return false
}

func hasRefiningMutation(muts []statements.MutCondition, want statements.MutCondition) bool {
	for _, mc := range muts {
		if mc.Position == want.Position &&
			siteRefines(mc.FromResidue, want.FromResidue) &&
			siteRefines(mc.ToResidue, want.ToResidue) {
			return true
		}
	}
	return false
}

func hasRefiningBound(bcs []statements.BoundCondition, want statements.BoundCondition, hs *ontology.Hierarchies) bool {
	for _, bc := range bcs {
		if bc.IsBound == want.IsBound && agentRefines(bc.Agent, want.Agent, hs) {
			return true
		}
	}
	return false
}

// complexRefines requires an assignment of a's members onto b's
// members under which every slot refines. Complexes are small, so a
// backtracking search over permutations is fine.
func complexRefines(a, b *statements.Complex, hs *ontology.Hierarchies) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}
	used := make([]bool, len(a.Members))
	var match func(i int) bool
	match = func(i int) bool {
		if i == len(b.Members) {
			return true
		}
		for j, am := range a.Members {
			if used[j] || !agentRefines(am, b.Members[i], hs) {
				continue
			}
			used[j] = true
			if match(i + 1) {
				return true
			}
			used[j] = false
		}
		return false
	}
	return match(0)
}

// siteRefines applies the unspecified-is-generic rule for residues,
// positions and mutation endpoints.
func siteRefines(a, b string) bool {
	return b == "" || a == b
}

func modTypeRefines(a, b statements.ModType, hs *ontology.Hierarchies) bool {
	if a == b {
		return true
	}
	return hs.Modification.Isa(ontology.VocabNS, string(a), ontology.VocabNS, string(b))
}

func activityRefines(a, b string, hs *ontology.Hierarchies) bool {
	if a == b {
		return true
	}
	return hs.Activity.Isa(ontology.VocabNS, a, ontology.VocabNS, b)
}

func locationRefines(a, b string, hs *ontology.Hierarchies) bool {
	if a == b || b == "" {
		return true
	}
	return hs.CellularComponent.PartOf(ontology.VocabNS, a, ontology.VocabNS, b)
}
