package assembler

import (
	"fmt"

	"github.com/mechbio/mechkb/statements"
)

func init() {
	register(statements.KindTranslocation, StageMonomers, PolicyDefault, translocationMonomers)
	register(statements.KindTranslocation, StageAssemble, PolicyDefault, translocationAssemble)

	register(statements.KindDecreaseAmount, StageMonomers, PolicyDefault, amountMonomersOneStep)
	register(statements.KindDecreaseAmount, StageMonomers, PolicyOneStep, amountMonomersOneStep)
	register(statements.KindDecreaseAmount, StageMonomers, PolicyInteractionsOnly, amountMonomersInteractionsOnly)
	register(statements.KindDecreaseAmount, StageAssemble, PolicyDefault, decreaseAmountAssembleOneStep)
	register(statements.KindDecreaseAmount, StageAssemble, PolicyOneStep, decreaseAmountAssembleOneStep)
	register(statements.KindDecreaseAmount, StageAssemble, PolicyInteractionsOnly, decreaseAmountAssembleInteractionsOnly)

	register(statements.KindIncreaseAmount, StageMonomers, PolicyDefault, amountMonomersOneStep)
	register(statements.KindIncreaseAmount, StageMonomers, PolicyOneStep, amountMonomersOneStep)
	register(statements.KindIncreaseAmount, StageMonomers, PolicyInteractionsOnly, amountMonomersInteractionsOnly)
	register(statements.KindIncreaseAmount, StageAssemble, PolicyDefault, increaseAmountAssembleOneStep)
	register(statements.KindIncreaseAmount, StageAssemble, PolicyOneStep, increaseAmountAssembleOneStep)
	register(statements.KindIncreaseAmount, StageAssemble, PolicyInteractionsOnly, increaseAmountAssembleInteractionsOnly)
}

// A translocation without both endpoints carries no modelable event.
func translocationMonomers(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Translocation)
	if stmt.FromLocation == "" || stmt.ToLocation == "" {
		return
	}
	ba := a.agents.GetCreate(stmt.Agent)
	ba.CreateSite("loc",
		statements.Normalize(stmt.FromLocation), statements.Normalize(stmt.ToLocation))
}

func translocationAssemble(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Translocation)
	if stmt.FromLocation == "" || stmt.ToLocation == "" {
		return
	}
	from := statements.Normalize(stmt.FromLocation)
	to := statements.Normalize(stmt.ToLocation)
	kf := a.model.CreateParameter(
		fmt.Sprintf("%s_%s_%s", paramPrefix("kf", stmt.Agent), from, to), 1.0, true)

	agentFrom := a.monomerPattern(stmt.Agent, map[string]SiteCondition{"loc": StateCond(from)})
	agentTo := a.monomerPattern(stmt.Agent, map[string]SiteCondition{"loc": StateCond(to)})
	if agentFrom == nil || agentTo == nil {
		return
	}
	name := fmt.Sprintf("%s_translocates_%s_to_%s", agentRuleString(stmt.Agent), from, to)
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(agentFrom),
		RHS:  Species(agentTo),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, agentFrom, agentTo)
	}
}

func amountSubjObj(s statements.Statement) (subj, obj *statements.Agent) {
	switch stmt := s.(type) {
	case *statements.IncreaseAmount:
		return stmt.Subj, stmt.Obj
	case *statements.DecreaseAmount:
		return stmt.Subj, stmt.Obj
	}
	return nil, nil
}

func amountMonomersOneStep(a *Assembler, s statements.Statement) {
	subj, obj := amountSubjObj(s)
	a.agents.GetCreate(obj)
	if subj != nil {
		a.agents.GetCreate(subj)
	}
}

func amountMonomersInteractionsOnly(a *Assembler, s statements.Statement) {
	subj, obj := amountSubjObj(s)
	if subj == nil {
		return
	}
	sb := a.agents.GetCreate(subj)
	ob := a.agents.GetCreate(obj)
	sb.CreateSite(a.agents.BindingSiteName(obj))
	ob.CreateSite(a.agents.BindingSiteName(subj))
}

// decreaseAmountAssembleOneStep generates either a unimolecular decay
// for a subjectless statement or a subject-catalyzed degradation. Rate
// defaults follow observed proteome half-lives, scaled down for the
// catalyzed case by the default initial amount.
func decreaseAmountAssembleOneStep(a *Assembler, s statements.Statement) {
	subj, obj := amountSubjObj(s)
	objPattern := a.monomerPattern(obj, nil)
	if objPattern == nil {
		return
	}
	objStr := agentRuleString(obj)

	if subj == nil {
		kf := a.model.CreateParameter(paramPrefix("kf", obj)+"_deg", 2e-5, true)
		name := objStr + "_degraded"
		added := a.model.AddRule(&Rule{
			Name: name,
			LHS:  Species(objPattern),
			RHS:  Empty(),
			Rate: kf,
		})
		if added {
			a.ruleAnnotations(name, nil, objPattern)
		}
		return
	}

	subjPattern := a.monomerPattern(subj, nil)
	if subjPattern == nil {
		return
	}
	kf := a.model.CreateParameter(paramPrefix("kf", subj, obj)+"_deg", 2e-7, true)
	name := fmt.Sprintf("%s_degrades_%s", agentRuleString(subj), objStr)
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(subjPattern, objPattern),
		RHS:  Species(subjPattern),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, subjPattern, objPattern)
	}
}

// increaseAmountAssembleOneStep synthesizes the object in its ground
// state: first declared state for every stateful site, unbound
// otherwise.
func increaseAmountAssembleOneStep(a *Assembler, s statements.Statement) {
	subj, obj := amountSubjObj(s)
	mono, ok := a.model.Monomer(statements.Normalize(obj.Name))
	if !ok {
		return
	}
	ground := NewMonomerPattern(mono)
	for _, site := range mono.Sites {
		if states, found := mono.SiteStates[site]; found && len(states) > 0 {
			ground.Sites[site] = SiteCondition{State: states[0], HasState: true, Bond: BondFree()}
		} else {
			ground.Sites[site] = SiteCondition{Bond: BondFree()}
		}
	}
	objStr := agentRuleString(obj)

	if subj == nil {
		kf := a.model.CreateParameter(paramPrefix("kf", obj)+"_synth", 2e-3, true)
		name := objStr + "_synthesized"
		added := a.model.AddRule(&Rule{
			Name: name,
			LHS:  Empty(),
			RHS:  Species(ground),
			Rate: kf,
		})
		if added {
			a.ruleAnnotations(name, nil, ground)
		}
		return
	}

	subjPattern := a.monomerPattern(subj, nil)
	if subjPattern == nil {
		return
	}
	kf := a.model.CreateParameter(paramPrefix("kf", subj, obj)+"_synth", 2e-1, true)
	name := fmt.Sprintf("%s_synthesizes_%s", agentRuleString(subj), objStr)
	added := a.model.AddRule(&Rule{
		Name: name,
		LHS:  Species(subjPattern),
		RHS:  Species(subjPattern, ground),
		Rate: kf,
	})
	if added {
		a.ruleAnnotations(name, subjPattern, ground)
	}
}

func decreaseAmountAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	amountAssembleInteractionsOnly(a, s, "degrades")
}

func increaseAmountAssembleInteractionsOnly(a *Assembler, s statements.Statement) {
	amountAssembleInteractionsOnly(a, s, "synthesizes")
}

func amountAssembleInteractionsOnly(a *Assembler, s statements.Statement, verb string) {
	subj, obj := amountSubjObj(s)
	if subj == nil {
		return
	}
	kfBind := a.model.CreateParameter("kf_bind", 1.0, false)
	subjMono, ok1 := a.model.Monomer(statements.Normalize(subj.Name))
	objMono, ok2 := a.model.Monomer(statements.Normalize(obj.Name))
	if !ok1 || !ok2 {
		return
	}
	subjSite := a.agents.BindingSiteName(obj)
	objSite := a.agents.BindingSiteName(subj)
	name := fmt.Sprintf("%s_%s_%s", agentRuleString(subj), verb, agentRuleString(obj))
	a.model.AddRule(&Rule{
		Name: name,
		LHS: Species(
			NewMonomerPattern(subjMono).With(subjSite, SiteCondition{Bond: BondFree()}),
			NewMonomerPattern(objMono).With(objSite, SiteCondition{Bond: BondFree()})),
		RHS: Bound(
			NewMonomerPattern(subjMono).With(subjSite, SiteCondition{Bond: BondIndex(1)}),
			NewMonomerPattern(objMono).With(objSite, SiteCondition{Bond: BondIndex(1)})),
		Rate: kfBind,
	})
}
