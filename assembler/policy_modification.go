package assembler

import (
	"fmt"
	"log/slog"

	"github.com/mechbio/mechkb/statements"
)

func init() {
	register(statements.KindModification, StageMonomers, PolicyDefault, modificationMonomersOneStep)
	register(statements.KindModification, StageMonomers, PolicyOneStep, modificationMonomersOneStep)
	register(statements.KindModification, StageMonomers, PolicyTwoStep, modificationMonomersTwoStep)
	register(statements.KindModification, StageMonomers, PolicyInteractionsOnly, modificationMonomersInteractionsOnly)
	register(statements.KindModification, StageMonomers, PolicyATPDependent, modificationMonomersATPDependent)
	register(statements.KindModification, StageAssemble, PolicyDefault, modificationAssembleOneStep)
	register(statements.KindModification, StageAssemble, PolicyOneStep, modificationAssembleOneStep)
	register(statements.KindModification, StageAssemble, PolicyTwoStep, modificationAssembleTwoStep)
	register(statements.KindModification, StageAssemble, PolicyInteractionsOnly, modificationAssembleInteractionsOnly)
	register(statements.KindModification, StageAssemble, PolicyATPDependent, modificationAssembleATPDependent)
}

// modStates returns the (from, to) site states of the rewrite: adding
// a mark goes unmodified to modified, removing it the other way.
func modStates(stmt *statements.Modification) (string, string) {
	unmod, mod := stmt.Mod.States()
	if stmt.Remove {
		return mod, unmod
	}
	return unmod, mod
}

func modificationMonomersOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	a.agents.GetCreate(stmt.Enz)
	sub := a.agents.GetCreate(stmt.Sub)
	// One statement is assumed to carry a single site; multi-site
	// modifications arrive as separate statements.
	sub.CreateModSite(statements.ModCondition{
		Mod: stmt.Mod, Residue: stmt.Residue, Position: stmt.Position,
	})
}

func modificationMonomersTwoStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	enz := a.agents.GetCreate(stmt.Enz)
	sub := a.agents.GetCreate(stmt.Sub)
	sub.CreateModSite(statements.ModCondition{
		Mod: stmt.Mod, Residue: stmt.Residue, Position: stmt.Position,
	})
	enz.CreateSite(a.agents.BindingSiteName(stmt.Sub))
	sub.CreateSite(a.agents.BindingSiteName(stmt.Enz))
}

func modificationMonomersInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	enz := a.agents.GetCreate(stmt.Enz)
	enz.CreateSite(stmt.Mod.ActivityClass(stmt.Remove))
	sub := a.agents.GetCreate(stmt.Sub)
	sub.CreateModSite(statements.ModCondition{
		Mod: stmt.Mod, Residue: stmt.Residue, Position: stmt.Position,
	})
}

// The ATP-dependent mechanism only makes sense for phosphorylation;
// other marks fall back to the two-step treatment.
func modificationMonomersATPDependent(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	if stmt.Mod != statements.ModPhosphorylation || stmt.Remove {
		slog.Warn("atp_dependent policy only applies to phosphorylation, using two_step",
			"mod", stmt.Mod, "remove", stmt.Remove)
		modificationMonomersTwoStep(a, s)
		return
	}
	modificationMonomersTwoStep(a, s)
	atp := a.agents.GetCreate(statements.NewAgent("ATP"))
	atp.CreateSite("b")
	enz := a.agents.GetCreate(stmt.Enz)
	enz.CreateSite("ATP")
}

func modificationAssembleOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	condName := stmt.Mod.ConditionName(stmt.Remove)
	kf := a.model.CreateParameter(
		paramPrefix("kf", stmt.Enz, stmt.Sub)+"_"+condName, 1e-6, true)

	modSite := modSiteName(stmt.Mod, stmt.Residue, stmt.Position)
	fromState, toState := modStates(stmt)

	// The enzyme's activity requirement is expressed through active
	// forms, not a pre-set flag.
	enz := *stmt.Enz
	enz.Activity = nil
	enzPattern := a.monomerPattern(&enz, nil)
	subFrom := a.monomerPattern(stmt.Sub, map[string]SiteCondition{modSite: StateCond(fromState)})
	subTo := a.monomerPattern(stmt.Sub, map[string]SiteCondition{modSite: StateCond(toState)})
	if enzPattern == nil || subFrom == nil || subTo == nil {
		return
	}

	enzStr := agentRuleString(&enz)
	subStr := agentRuleString(stmt.Sub)
	actPatterns := a.agents.ActivePatterns(&enz)
	for i, af := range actPatterns {
		name := fmt.Sprintf("%s_%s_%s_%s%s", enzStr, condName, subStr, modSite,
			variantSuffix(i, len(actPatterns)))
		added := a.model.AddRule(&Rule{
			Name: name,
			LHS:  Species(enzPattern.WithStates(af), subFrom),
			RHS:  Species(enzPattern.WithStates(af), subTo),
			Rate: kf,
		})
		if added {
			a.ruleAnnotations(name, enzPattern, subFrom)
		}
	}
}

func modificationAssembleTwoStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	condName := stmt.Mod.ConditionName(stmt.Remove)
	subBS := a.agents.BindingSiteName(stmt.Sub)
	enzBS := a.agents.BindingSiteName(stmt.Enz)

	enz := *stmt.Enz
	enz.Activity = nil
	enzBound := a.monomerPattern(&enz, map[string]SiteCondition{subBS: {Bond: BondIndex(1)}})
	enzUnbound := a.monomerPattern(&enz, map[string]SiteCondition{subBS: {Bond: BondFree()}})
	subPattern := a.monomerPattern(stmt.Sub, nil)
	if enzBound == nil || enzUnbound == nil || subPattern == nil {
		return
	}

	kfBind := a.model.CreateParameter(paramPrefix("kf", &enz, stmt.Sub)+"_bind", 1e-6, true)
	krBind := a.model.CreateParameter(paramPrefix("kr", &enz, stmt.Sub)+"_bind", 1e-3, true)
	kc := a.model.CreateParameter(paramPrefix("kc", &enz, stmt.Sub)+"_"+condName, 1, true)

	modSite := modSiteName(stmt.Mod, stmt.Residue, stmt.Position)
	fromState, toState := modStates(stmt)
	enzStr := agentRuleString(&enz)
	subStr := agentRuleString(stmt.Sub)

	actPatterns := a.agents.ActivePatterns(&enz)
	for i, af := range actPatterns {
		suffix := variantSuffix(i, len(actPatterns))
		bindName := fmt.Sprintf("%s_%s_bind_%s_%s%s", enzStr, condName, subStr, modSite, suffix)
		a.model.AddRule(&Rule{
			Name: bindName,
			LHS: Species(
				enzUnbound.WithStates(af),
				subPattern.With(modSite, StateCond(fromState)).With(enzBS, SiteCondition{Bond: BondFree()})),
			RHS: Bound(
				enzBound.WithStates(af),
				subPattern.With(modSite, StateCond(fromState)).With(enzBS, SiteCondition{Bond: BondIndex(1)})),
			Rate: kfBind,
		})

		catName := fmt.Sprintf("%s_%s_%s_%s%s", enzStr, condName, subStr, modSite, suffix)
		added := a.model.AddRule(&Rule{
			Name: catName,
			LHS: Bound(
				enzBound.WithStates(af),
				subPattern.With(modSite, StateCond(fromState)).With(enzBS, SiteCondition{Bond: BondIndex(1)})),
			RHS: Species(
				enzUnbound.WithStates(af),
				subPattern.With(modSite, StateCond(toState)).With(enzBS, SiteCondition{Bond: BondFree()})),
			Rate: kc,
		})
		if added {
			a.ruleAnnotations(catName, enzBound, subPattern)
		}
	}

	// Dissociation is unconditional on the modification state.
	enzUncond := uncondAgent(&enz)
	subUncond := uncondAgent(stmt.Sub)
	enzMonUncond := a.monomerPattern(enzUncond, nil)
	subMonUncond := a.monomerPattern(subUncond, nil)
	if enzMonUncond == nil || subMonUncond == nil {
		return
	}
	dissocName := fmt.Sprintf("%s_dissoc_%s", agentRuleString(enzUncond), agentRuleString(subUncond))
	a.model.AddRule(&Rule{
		Name: dissocName,
		LHS: Bound(
			enzMonUncond.With(subBS, SiteCondition{Bond: BondIndex(1)}),
			subMonUncond.With(enzBS, SiteCondition{Bond: BondIndex(1)})),
		RHS: Species(
			enzMonUncond.With(subBS, SiteCondition{Bond: BondFree()}),
			subMonUncond.With(enzBS, SiteCondition{Bond: BondFree()})),
		Rate: krBind,
	})
}

func modificationAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	kfBind := a.model.CreateParameter("kf_bind", 1.0, false)

	enzMono, ok1 := a.model.Monomer(statements.Normalize(stmt.Enz.Name))
	subMono, ok2 := a.model.Monomer(statements.Normalize(stmt.Sub.Name))
	if !ok1 || !ok2 {
		return
	}
	condName := stmt.Mod.ConditionName(stmt.Remove)
	activeSite := stmt.Mod.ActivityClass(stmt.Remove)
	modSite := modSiteName(stmt.Mod, stmt.Residue, stmt.Position)

	name := fmt.Sprintf("%s_%s_%s_%s",
		agentRuleString(stmt.Enz), condName, agentRuleString(stmt.Sub), modSite)
	a.model.AddRule(&Rule{
		Name: name,
		LHS: Species(
			NewMonomerPattern(enzMono).With(activeSite, SiteCondition{Bond: BondFree()}),
			NewMonomerPattern(subMono).With(modSite, SiteCondition{Bond: BondFree()})),
		RHS: Bound(
			NewMonomerPattern(enzMono).With(activeSite, SiteCondition{Bond: BondIndex(1)}),
			NewMonomerPattern(subMono).With(modSite, SiteCondition{Bond: BondIndex(1)})),
		Rate: kfBind,
	})
}

func modificationAssembleATPDependent(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Modification)
	if stmt.Enz == nil {
		return
	}
	if stmt.Mod != statements.ModPhosphorylation || stmt.Remove {
		modificationAssembleTwoStep(a, s)
		return
	}
	atpMono, ok := a.model.Monomer("ATP")
	if !ok {
		return
	}
	atp := NewMonomerPattern(atpMono)
	const atpBS = "ATP"

	enz := *stmt.Enz
	enz.Activity = nil
	subBS := a.agents.BindingSiteName(stmt.Sub)
	enzBS := a.agents.BindingSiteName(stmt.Enz)

	enzATPBound := a.monomerPattern(&enz, map[string]SiteCondition{atpBS: {Bond: BondIndex(1)}})
	enzATPFree := a.monomerPattern(&enz, map[string]SiteCondition{atpBS: {Bond: BondFree()}})
	enzSubBound := a.monomerPattern(&enz, map[string]SiteCondition{subBS: {Bond: BondIndex(1)}})
	enzSubFree := a.monomerPattern(&enz, map[string]SiteCondition{subBS: {Bond: BondFree()}})
	enzSubATPBound := a.monomerPattern(&enz, map[string]SiteCondition{
		subBS: {Bond: BondIndex(1)}, atpBS: {Bond: BondIndex(2)}})
	enzSubATPFree := a.monomerPattern(&enz, map[string]SiteCondition{
		subBS: {Bond: BondFree()}, atpBS: {Bond: BondFree()}})
	subPattern := a.monomerPattern(stmt.Sub, nil)

	enzUncond := uncondAgent(&enz)
	enzMonUncond := a.monomerPattern(enzUncond, nil)
	subUncond := uncondAgent(stmt.Sub)
	subMonUncond := a.monomerPattern(subUncond, nil)
	if enzATPBound == nil || enzATPFree == nil || enzSubBound == nil || enzSubFree == nil ||
		enzSubATPBound == nil || enzSubATPFree == nil || subPattern == nil ||
		enzMonUncond == nil || subMonUncond == nil {
		return
	}

	enzStr := agentRuleString(&enz)
	subStr := agentRuleString(stmt.Sub)
	uncondEnzStr := agentRuleString(enzUncond)
	uncondSubStr := agentRuleString(subUncond)
	phosSite := modSiteName(stmt.Mod, stmt.Residue, stmt.Position)
	actPatterns := a.agents.ActivePatterns(&enz)

	kfBindATP := a.model.CreateParameter(paramPrefix("kf", &enz)+"_atp_bind", 1e-6, true)
	krBindATP := a.model.CreateParameter(paramPrefix("kr", &enz)+"_atp_bind", 1e-6, true)
	for i, af := range actPatterns {
		name := fmt.Sprintf("%s_phospho_bind_atp%s", uncondEnzStr, variantSuffix(i, len(actPatterns)))
		a.model.AddRule(&Rule{
			Name: name,
			LHS:  Species(enzATPFree.WithStates(af), atp.With("b", SiteCondition{Bond: BondFree()})),
			RHS:  Bound(enzATPBound.WithStates(af), atp.With("b", SiteCondition{Bond: BondIndex(1)})),
			Rate: kfBindATP,
		})
	}
	a.model.AddRule(&Rule{
		Name: fmt.Sprintf("%s_phospho_dissoc_atp", uncondEnzStr),
		LHS: Bound(
			enzMonUncond.With(atpBS, SiteCondition{Bond: BondIndex(1)}),
			atp.With("b", SiteCondition{Bond: BondIndex(1)})),
		RHS: Species(
			enzMonUncond.With(atpBS, SiteCondition{Bond: BondFree()}),
			atp.With("b", SiteCondition{Bond: BondFree()})),
		Rate: krBindATP,
	})

	kfBind := a.model.CreateParameter(paramPrefix("kf", &enz, stmt.Sub)+"_bind", 1e-6, true)
	krBind := a.model.CreateParameter(paramPrefix("kr", &enz, stmt.Sub)+"_bind", 1e-3, true)
	kc := a.model.CreateParameter(paramPrefix("kc", &enz, stmt.Sub)+"_phos", 1, true)

	unmod, mod := stmt.Mod.States()
	for i, af := range actPatterns {
		suffix := variantSuffix(i, len(actPatterns))
		bindName := fmt.Sprintf("%s_phospho_bind_%s_%s%s", enzStr, subStr, phosSite, suffix)
		a.model.AddRule(&Rule{
			Name: bindName,
			LHS: Species(
				enzSubFree.WithStates(af),
				subPattern.With(phosSite, StateCond(unmod)).With(enzBS, SiteCondition{Bond: BondFree()})),
			RHS: Bound(
				enzSubBound.WithStates(af),
				subPattern.With(phosSite, StateCond(unmod)).With(enzBS, SiteCondition{Bond: BondIndex(1)})),
			Rate: kfBind,
		})

		catName := fmt.Sprintf("%s_phospho_%s_%s%s", enzStr, subStr, phosSite, suffix)
		added := a.model.AddRule(&Rule{
			Name: catName,
			LHS: Bound(
				enzSubATPBound.WithStates(af),
				atp.With("b", SiteCondition{Bond: BondIndex(2)}),
				subPattern.With(phosSite, StateCond(unmod)).With(enzBS, SiteCondition{Bond: BondIndex(1)})),
			RHS: Species(
				enzSubATPFree.WithStates(af),
				atp.With("b", SiteCondition{Bond: BondFree()}),
				subPattern.With(phosSite, StateCond(mod)).With(enzBS, SiteCondition{Bond: BondFree()})),
			Rate: kc,
		})
		if added {
			a.ruleAnnotations(catName, enzSubATPBound, subPattern)
		}
	}

	a.model.AddRule(&Rule{
		Name: fmt.Sprintf("%s_dissoc_%s", uncondEnzStr, uncondSubStr),
		LHS: Bound(
			enzMonUncond.With(subBS, SiteCondition{Bond: BondIndex(1)}),
			subMonUncond.With(enzBS, SiteCondition{Bond: BondIndex(1)})),
		RHS: Species(
			enzMonUncond.With(subBS, SiteCondition{Bond: BondFree()}),
			subMonUncond.With(enzBS, SiteCondition{Bond: BondFree()})),
		Rate: krBind,
	})
}

// variantSuffix numbers rule variants when an enzyme has several
// active forms: nothing for a single form, _1, _2, ... otherwise.
func variantSuffix(i, total int) string {
	if total <= 1 {
		return ""
	}
	return fmt.Sprintf("_%d", i+1)
}
