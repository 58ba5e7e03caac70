package assembler

import (
	"fmt"
	"strings"

	"github.com/mechbio/mechkb/statements"
)

func init() {
	register(statements.KindComplex, StageMonomers, PolicyDefault, complexMonomersOneStep)
	register(statements.KindComplex, StageMonomers, PolicyOneStep, complexMonomersOneStep)
	register(statements.KindComplex, StageMonomers, PolicyMultiWay, complexMonomersOneStep)
	register(statements.KindComplex, StageAssemble, PolicyDefault, complexAssembleOneStep)
	register(statements.KindComplex, StageAssemble, PolicyOneStep, complexAssembleOneStep)
	register(statements.KindComplex, StageAssemble, PolicyMultiWay, complexAssembleMultiWay)
}

// Each member gets a binding site per other member, so the complex can
// be fully connected.
func complexMonomersOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Complex)
	for i, member := range stmt.Members {
		ba := a.agents.GetCreate(member)
		for j, partner := range stmt.Members {
			if i == j {
				continue
			}
			ba.CreateSite(a.agents.BindingSiteName(partner))
		}
	}
}

// complexAssembleOneStep generates a reversible pairwise bind between
// every two members: one binding rule conditioned on the members'
// stated context, and one unconditional dissociation rule.
func complexAssembleOneStep(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Complex)
	for i := 0; i < len(stmt.Members); i++ {
		for j := i + 1; j < len(stmt.Members); j++ {
			agent1, agent2 := stmt.Members[i], stmt.Members[j]

			stem := paramPrefix("kf", agent1, agent2) + "_bind"
			kfBind := a.model.CreateParameter(stem, 1e-6, true)
			krBind := a.model.CreateParameter(paramPrefix("kr", agent1, agent2)+"_bind", 1e-3, true)

			bs1 := a.agents.BindingSiteName(agent2)
			bs2 := a.agents.BindingSiteName(agent1)
			p1 := a.monomerPattern(agent1, nil)
			p2 := a.monomerPattern(agent2, nil)
			if p1 == nil || p2 == nil {
				continue
			}

			bindName := fmt.Sprintf("%s_%s_bind", agentRuleString(agent1), agentRuleString(agent2))
			added := a.model.AddRule(&Rule{
				Name: bindName,
				LHS: Species(
					p1.With(bs1, SiteCondition{Bond: BondFree()}),
					p2.With(bs2, SiteCondition{Bond: BondFree()})),
				RHS: Bound(
					p1.With(bs1, SiteCondition{Bond: BondIndex(1)}),
					p2.With(bs2, SiteCondition{Bond: BondIndex(1)})),
				Rate: kfBind,
			})
			if added {
				// Binding is symmetric: both members act as subject
				// and object.
				a.ruleAnnotations(bindName, p1, p1)
				a.ruleAnnotations(bindName, p2, p2)
			}

			uncond1 := uncondAgent(agent1)
			uncond2 := uncondAgent(agent2)
			u1 := a.monomerPattern(uncond1, nil)
			u2 := a.monomerPattern(uncond2, nil)
			if u1 == nil || u2 == nil {
				continue
			}
			dissocName := fmt.Sprintf("%s_%s_dissociate",
				agentRuleString(uncond1), agentRuleString(uncond2))
			added = a.model.AddRule(&Rule{
				Name: dissocName,
				LHS: Bound(
					u1.With(bs1, SiteCondition{Bond: BondIndex(1)}),
					u2.With(bs2, SiteCondition{Bond: BondIndex(1)})),
				RHS: Species(
					u1.With(bs1, SiteCondition{Bond: BondFree()}),
					u2.With(bs2, SiteCondition{Bond: BondFree()})),
				Rate: krBind,
			})
			if added {
				a.ruleAnnotations(dissocName, u1, u1)
				a.ruleAnnotations(dissocName, u2, u2)
			}
		}
	}
}

// complexAssembleMultiWay generates a single n-way association rule
// with one bond per member pair, n(n-1)/2 bonds total, plus the
// reverse dissociation.
func complexAssembleMultiWay(a *Assembler, s statements.Statement) {
	stmt := s.(*statements.Complex)
	var initials strings.Builder
	for _, m := range stmt.Members {
		initials.WriteString(strings.ToLower(statements.Normalize(m.Name)[:1]))
	}
	kfBind := a.model.CreateParameter("kf_"+initials.String()+"_bind", 1e-6, true)
	krBind := a.model.CreateParameter("kr_"+initials.String()+"_bind", 1e-6, true)

	type pairKey struct{ lo, hi int }
	bondIndices := make(map[pairKey]int)
	bondCounter := 1

	var lhsMonomers, rhsMonomers []*MonomerPattern
	for i, member := range stmt.Members {
		base := a.monomerPattern(member, nil)
		if base == nil {
			return
		}
		left, right := base, base
		for j, partner := range stmt.Members {
			if i == j {
				continue
			}
			key := pairKey{lo: min(i, j), hi: max(i, j)}
			ix, ok := bondIndices[key]
			if !ok {
				ix = bondCounter
				bondIndices[key] = ix
				bondCounter++
			}
			bs := a.agents.BindingSiteName(partner)
			left = left.With(bs, SiteCondition{Bond: BondFree()})
			right = right.With(bs, SiteCondition{Bond: BondIndex(ix)})
		}
		lhsMonomers = append(lhsMonomers, left)
		rhsMonomers = append(rhsMonomers, right)
	}

	ruleStrs := make([]string, len(stmt.Members))
	for i, m := range stmt.Members {
		ruleStrs[i] = agentRuleString(m)
	}
	name := strings.Join(ruleStrs, "_") + "_bind"
	a.model.AddRule(&Rule{
		Name: name + "_fwd",
		LHS:  Species(lhsMonomers...),
		RHS:  Bound(rhsMonomers...),
		Rate: kfBind,
	})
	a.model.AddRule(&Rule{
		Name: name + "_rev",
		LHS:  Bound(rhsMonomers...),
		RHS:  Species(lhsMonomers...),
		Rate: krBind,
	})
}
