package assembler

import (
	"fmt"

	"github.com/mechbio/mechkb/statements"
)

func init() {
	register(statements.KindRegulateActivity, StageMonomers, PolicyDefault, regulateActivityMonomersOneStep)
	register(statements.KindRegulateActivity, StageMonomers, PolicyOneStep, regulateActivityMonomersOneStep)
	register(statements.KindRegulateActivity, StageMonomers, PolicyInteractionsOnly, regulateActivityMonomersInteractionsOnly)
	register(statements.KindRegulateActivity, StageAssemble, PolicyDefault, regulateActivityAssembleOneStep)
	register(statements.KindRegulateActivity, StageAssemble, PolicyOneStep, regulateActivityAssembleOneStep)
	register(statements.KindRegulateActivity, StageAssemble, PolicyInteractionsOnly, regulateActivityAssembleInteractionsOnly)

	register(statements.KindActiveForm, StageMonomers, PolicyDefault, activeFormMonomers)
	register(statements.KindActiveForm, StageAssemble, PolicyDefault, activeFormAssemble)

	register(statements.KindGef, StageMonomers, PolicyDefault, gefMonomers)
	register(statements.KindGef, StageMonomers, PolicyOneStep, gefMonomers)
	register(statements.KindGef, StageMonomers, PolicyInteractionsOnly, gefMonomersInteractionsOnly)
	register(statements.KindGef, StageAssemble, PolicyDefault, gefAssemble)
	register(statements.KindGef, StageAssemble, PolicyOneStep, gefAssemble)
	register(statements.KindGef, StageAssemble, PolicyInteractionsOnly, gefAssembleInteractionsOnly)
	register(statements.KindGap, StageMonomers, PolicyDefault, gapMonomers)
	register(statements.KindGap, StageMonomers, PolicyOneStep, gapMonomers)
	register(statements.KindGap, StageMonomers, PolicyInteractionsOnly, gapMonomersInteractionsOnly)
	register(statements.KindGap, StageAssemble, PolicyDefault, gapAssemble)
	register(statements.KindGap, StageAssemble, PolicyOneStep, gapAssemble)
	register(statements.KindGap, StageAssemble, PolicyInteractionsOnly, gapAssembleInteractionsOnly)
}

func regulateActivityMonomersOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.RegulateActivity)
	a.agents.GetCreate(stmt.Subj)
	obj := a.agents.GetCreate(stmt.Obj)
	obj.CreateSite(stmt.ObjActivity, "inactive", "active")
	obj.AddActivityType(stmt.ObjActivity)
}

func regulateActivityMonomersInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.RegulateActivity)
	subj := a.agents.GetCreate(stmt.Subj)
	obj := a.agents.GetCreate(stmt.Obj)
	subj.CreateSite(subjActivitySite(stmt))
	obj.CreateSite(stmt.ObjActivity)
}

func subjActivitySite(stmt *statements.RegulateActivity) string {
	if stmt.Subj.Activity != nil {
		return stmt.Subj.Activity.ActivityType
	}
	return "activity"
}

func regulateActivityAssembleOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.RegulateActivity)
	subj := *stmt.Subj
	subj.Activity = nil
	subjPattern := a.monomerPattern(&subj, nil)
	objInactive := a.monomerPattern(stmt.Obj, map[string]SiteCondition{stmt.ObjActivity: StateCond("inactive")})
	objActive := a.monomerPattern(stmt.Obj, map[string]SiteCondition{stmt.ObjActivity: StateCond("active")})
	if subjPattern == nil || objInactive == nil || objActive == nil {
		return
	}

	kf := a.model.CreateParameter(paramPrefix("kf", &subj, stmt.Obj)+"_act", 1e-6, true)

	from, to := objInactive, objActive
	polarity := "activates"
	if !stmt.IsActivation {
		from, to = objActive, objInactive
		polarity = "deactivates"
	}

	actPatterns := a.agents.ActivePatterns(&subj)
	for i, af := range actPatterns {
		name := fmt.Sprintf("%s_%s_%s_%s%s", agentRuleString(&subj), polarity,
			agentRuleString(stmt.Obj), stmt.ObjActivity, variantSuffix(i, len(actPatterns)))
		added := a.model.AddRule(&Rule{
			Name: name,
			LHS:  Species(subjPattern.WithStates(af), from),
			RHS:  Species(subjPattern.WithStates(af), to),
			Rate: kf,
		})
		if added {
			a.ruleAnnotations(name, subjPattern, objActive)
		}
	}
}

func regulateActivityAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.RegulateActivity)
	kfBind := a.model.CreateParameter("kf_bind", 1.0, false)
	subjMono, ok1 := a.model.Monomer(statements.Normalize(stmt.Subj.Name))
	objMono, ok2 := a.model.Monomer(statements.Normalize(stmt.Obj.Name))
	if !ok1 || !ok2 {
		return
	}
	subjSite := subjActivitySite(stmt)
	polarity := "activates"
	if !stmt.IsActivation {
		polarity = "deactivates"
	}
	name := fmt.Sprintf("%s_%s_%s_%s", agentRuleString(stmt.Subj), polarity,
		agentRuleString(stmt.Obj), stmt.ObjActivity)
	a.model.AddRule(&Rule{
		Name: name,
		LHS: Species(
			NewMonomerPattern(subjMono).With(subjSite, SiteCondition{Bond: BondFree()}),
			NewMonomerPattern(objMono).With(stmt.ObjActivity, SiteCondition{Bond: BondFree()})),
		RHS: Bound(
			NewMonomerPattern(subjMono).With(subjSite, SiteCondition{Bond: BondIndex(1)}),
			NewMonomerPattern(objMono).With(stmt.ObjActivity, SiteCondition{Bond: BondIndex(1)})),
		Rate: kfBind,
	})
}

// An ActiveForm contributes no rules of its own; it records which
// site/state pattern makes the agent active, feeding the active-form
// variants of every other rule.
func activeFormMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.ActiveForm)
	ba := a.agents.GetCreate(stmt.Agent)
	form := make(map[string]string)
	for site, cond := range a.sitePattern(stmt.Agent) {
		if cond.HasState {
			form[site] = cond.State
		}
	}
	ba.AddActivityForm(form, stmt.IsActive)
	if stmt.ActivityType != "" {
		ba.AddActivityType(stmt.ActivityType)
	}
}

func activeFormAssemble(a *Assembler, s statements.Statement) {}

func gefMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gef)
	a.agents.GetCreate(stmt.Gef)
	ras := a.agents.GetCreate(stmt.Ras)
	ras.CreateSite("gtpbound", "inactive", "active")
	ras.AddActivityForm(map[string]string{"gtpbound": "active"}, true)
	ras.AddActivityForm(map[string]string{"gtpbound": "inactive"}, false)
}

func gefAssemble(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gef)
	gefPattern := a.monomerPattern(stmt.Gef, nil)
	rasInactive := a.monomerPattern(stmt.Ras, map[string]SiteCondition{"gtpbound": StateCond("inactive")})
	rasActive := a.monomerPattern(stmt.Ras, map[string]SiteCondition{"gtpbound": StateCond("active")})
	if gefPattern == nil || rasInactive == nil || rasActive == nil {
		return
	}
	kf := a.model.CreateParameter(paramPrefix("kf", stmt.Gef, stmt.Ras)+"_gef", 1e-6, true)
	name := fmt.Sprintf("%s_activates_%s", agentRuleString(stmt.Gef), agentRuleString(stmt.Ras))
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(gefPattern, rasInactive),
		RHS:  Species(gefPattern, rasActive),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, gefPattern, rasInactive)
	}
}

func gefMonomersInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gef)
	regulatorBindingSites(a, stmt.Gef, stmt.Ras)
}

func gefAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gef)
	regulatorBindRule(a, stmt.Gef, stmt.Ras, "activates")
}

func gapMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gap)
	a.agents.GetCreate(stmt.Gap)
	ras := a.agents.GetCreate(stmt.Ras)
	ras.CreateSite("gtpbound", "inactive", "active")
	ras.AddActivityForm(map[string]string{"gtpbound": "active"}, true)
	ras.AddActivityForm(map[string]string{"gtpbound": "inactive"}, false)
}

func gapAssemble(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gap)
	gapPattern := a.monomerPattern(stmt.Gap, nil)
	rasInactive := a.monomerPattern(stmt.Ras, map[string]SiteCondition{"gtpbound": StateCond("inactive")})
	rasActive := a.monomerPattern(stmt.Ras, map[string]SiteCondition{"gtpbound": StateCond("active")})
	if gapPattern == nil || rasInactive == nil || rasActive == nil {
		return
	}
	kf := a.model.CreateParameter(paramPrefix("kf", stmt.Gap, stmt.Ras)+"_gap", 1e-6, true)
	name := fmt.Sprintf("%s_deactivates_%s", agentRuleString(stmt.Gap), agentRuleString(stmt.Ras))
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(gapPattern, rasActive),
		RHS:  Species(gapPattern, rasInactive),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, gapPattern, rasInactive)
	}
}

func gapMonomersInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gap)
	regulatorBindingSites(a, stmt.Gap, stmt.Ras)
}

func gapAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Gap)
	regulatorBindRule(a, stmt.Gap, stmt.Ras, "deactivates")
}

// regulatorBindingSites creates reciprocal binding sites between a
// regulator and its target.
func regulatorBindingSites(a *Assembler, reg, target *statements.Agent) {
	rb := a.agents.GetCreate(reg)
	tb := a.agents.GetCreate(target)
	rb.CreateSite(a.agents.BindingSiteName(target))
	tb.CreateSite(a.agents.BindingSiteName(reg))
}

// regulatorBindRule renders a regulation event as a plain binding
// interaction, the way interactions_only treats every mechanism.
func regulatorBindRule(a *Assembler, reg, target *statements.Agent, verb string) {
	kfBind := a.model.CreateParameter("kf_bind", 1.0, false)
	regMono, ok1 := a.model.Monomer(statements.Normalize(reg.Name))
	targetMono, ok2 := a.model.Monomer(statements.Normalize(target.Name))
	if !ok1 || !ok2 {
		return
	}
	regSite := a.agents.BindingSiteName(target)
	targetSite := a.agents.BindingSiteName(reg)
	name := fmt.Sprintf("%s_%s_%s", agentRuleString(reg), verb, agentRuleString(target))
	a.model.AddRule(&Rule{
		Name: name,
		LHS: Species(
			NewMonomerPattern(regMono).With(regSite, SiteCondition{Bond: BondFree()}),
			NewMonomerPattern(targetMono).With(targetSite, SiteCondition{Bond: BondFree()})),
		RHS: Bound(
			NewMonomerPattern(regMono).With(regSite, SiteCondition{Bond: BondIndex(1)}),
			NewMonomerPattern(targetMono).With(targetSite, SiteCondition{Bond: BondIndex(1)})),
		Rate: kfBind,
	})
}
