package assembler

import (
	"fmt"
	"strings"

	"github.com/mechbio/mechkb/statements"
)

func init() {
	register(statements.KindAutophosphorylation, StageMonomers, PolicyDefault, autophosphorylationMonomers)
	register(statements.KindAutophosphorylation, StageMonomers, PolicyOneStep, autophosphorylationMonomers)
	register(statements.KindAutophosphorylation, StageAssemble, PolicyDefault, autophosphorylationAssemble)
	register(statements.KindAutophosphorylation, StageAssemble, PolicyOneStep, autophosphorylationAssemble)

	register(statements.KindTransphosphorylation, StageMonomers, PolicyDefault, transphosphorylationMonomers)
	register(statements.KindTransphosphorylation, StageMonomers, PolicyOneStep, transphosphorylationMonomers)
	register(statements.KindTransphosphorylation, StageAssemble, PolicyDefault, transphosphorylationAssemble)
	register(statements.KindTransphosphorylation, StageAssemble, PolicyOneStep, transphosphorylationAssemble)
}

func autophosphorylationMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Autophosphorylation)
	enz := a.agents.GetCreate(stmt.Enz)
	enz.CreateModSite(statements.ModCondition{
		Mod: statements.ModPhosphorylation, Residue: stmt.Residue, Position: stmt.Position,
	})
}

func autophosphorylationAssemble(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Autophosphorylation)
	kf := a.model.CreateParameter(paramPrefix("kf", stmt.Enz)+"_autophos", 1e-3, true)

	phosSite := modSiteName(statements.ModPhosphorylation, stmt.Residue, stmt.Position)
	unmod, mod := statements.ModPhosphorylation.States()
	unphos := a.monomerPattern(stmt.Enz, map[string]SiteCondition{phosSite: StateCond(unmod)})
	phos := a.monomerPattern(stmt.Enz, map[string]SiteCondition{phosSite: StateCond(mod)})
	if unphos == nil || phos == nil {
		return
	}

	enzStr := agentRuleString(stmt.Enz)
	name := fmt.Sprintf("%s_autophospho_%s_%s", enzStr, enzStr, phosSite)
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(unphos),
		RHS:  Species(phos),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, unphos, phos)
	}
}

// Transphosphorylation acts on the enzyme's first bound partner, so a
// statement without a bound condition carries no usable target.
func transphosphorylationMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Transphosphorylation)
	a.agents.GetCreate(stmt.Enz)
	if len(stmt.Enz.BoundConditions) == 0 {
		return
	}
	sub := a.agents.GetCreate(stmt.Enz.BoundConditions[0].Agent)
	sub.CreateModSite(statements.ModCondition{
		Mod: statements.ModPhosphorylation, Residue: stmt.Residue, Position: stmt.Position,
	})
}

func transphosphorylationAssemble(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Transphosphorylation)
	if len(stmt.Enz.BoundConditions) == 0 {
		return
	}
	bound := stmt.Enz.BoundConditions[0].Agent

	pname := "kf_" + strings.ToLower(statements.Normalize(stmt.Enz.Name)[:1]) +
		strings.ToLower(statements.Normalize(bound.Name)[:1]) + "_transphos"
	kf := a.model.CreateParameter(pname, 1e-3, true)

	phosSite := modSiteName(statements.ModPhosphorylation, stmt.Residue, stmt.Position)
	unmod, mod := statements.ModPhosphorylation.States()
	enzPattern := a.monomerPattern(stmt.Enz, nil)
	subUnphos := a.monomerPattern(bound, map[string]SiteCondition{phosSite: StateCond(unmod)})
	subPhos := a.monomerPattern(bound, map[string]SiteCondition{phosSite: StateCond(mod)})
	if enzPattern == nil || subUnphos == nil || subPhos == nil {
		return
	}

	name := fmt.Sprintf("%s_transphospho_%s_%s",
		agentRuleString(stmt.Enz), agentRuleString(bound), phosSite)
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Bound(enzPattern, subUnphos),
		RHS:  Bound(enzPattern, subPhos),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, enzPattern, subUnphos)
	}
}
