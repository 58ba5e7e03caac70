// Package assembler compiles a list of statements into a rule-based
// reaction-network model: monomer signatures, parameterized rewrite
// rules, initial conditions and provenance annotations. Each statement
// kind is translated by a policy-selected strategy in two passes, one
// collecting monomer signatures and one generating rules.
package assembler

import (
	"log/slog"
	"strings"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// DefaultInitialAmount is the copy number seeded for every monomer's
// ground state unless overridden.
const DefaultInitialAmount = 1000.0

// Policies selects per-kind assembly strategies. Global applies to
// every kind without an explicit entry; empty means the default
// policy.
type Policies struct {
	Global  string
	PerKind map[statements.Kind]string
}

// For returns the policy selected for a kind.
func (p Policies) For(kind statements.Kind) string {
	if policy, ok := p.PerKind[kind]; ok {
		return policy
	}
	if p.Global != "" {
		return p.Global
	}
	return PolicyDefault
}

// Options configure one Assembler.
type Options struct {
	Policies Policies
	// InitialAmount is the default ground-state copy number. Zero
	// means DefaultInitialAmount.
	InitialAmount float64
	// SkipInitials disables initial-condition generation.
	SkipInitials bool
	// ExtendedInitials additionally seeds every monomer's fully
	// modified state with zero amount.
	ExtendedInitials bool
	// ModelName names the compiled model. Empty means "model".
	ModelName string
}

// assemblable is the whitelist of statement kinds the compiler
// translates; everything else is skipped with a log line.
var assemblable = map[statements.Kind]bool{
	statements.KindModification:         true,
	statements.KindAutophosphorylation:  true,
	statements.KindTransphosphorylation: true,
	statements.KindComplex:              true,
	statements.KindRegulateActivity:     true,
	statements.KindActiveForm:           true,
	statements.KindGef:                  true,
	statements.KindGap:                  true,
	statements.KindTranslocation:        true,
	statements.KindIncreaseAmount:       true,
	statements.KindDecreaseAmount:       true,
}

// Assembler holds the state of one compilation run: the statement
// list, the BaseAgent registry and the model under construction. Not
// safe for concurrent use.
type Assembler struct {
	hierarchies *ontology.Hierarchies
	opts        Options
	stmts       []statements.Statement

	model  *Model
	agents *BaseAgentSet
}

// New returns an assembler over the given hierarchy set.
func New(hs *ontology.Hierarchies, opts Options) *Assembler {
	if opts.InitialAmount == 0 {
		opts.InitialAmount = DefaultInitialAmount
	}
	if opts.ModelName == "" {
		opts.ModelName = "model"
	}
	return &Assembler{hierarchies: hs, opts: opts}
}

// AddStatements appends statements to be compiled.
func (a *Assembler) AddStatements(stmts ...statements.Statement) {
	a.stmts = append(a.stmts, stmts...)
}

// MakeModel runs both passes and returns the compiled model. An
// unknown policy aborts the whole compilation since it signals a
// configuration error rather than a bad statement.
func (a *Assembler) MakeModel() (*Model, error) {
	a.model = NewModel(a.opts.ModelName)
	a.agents = NewBaseAgentSet(a.hierarchies)

	if err := a.runStage(StageMonomers); err != nil {
		return nil, err
	}
	a.addMonomers()
	if err := a.runStage(StageAssemble); err != nil {
		return nil, err
	}
	if !a.opts.SkipInitials {
		a.addInitialConditions()
	}
	slog.Info("assembled model",
		"monomers", len(a.model.Monomers),
		"rules", len(a.model.Rules),
		"parameters", len(a.model.Parameters))
	return a.model, nil
}

func (a *Assembler) runStage(stage Stage) error {
	for _, stmt := range a.stmts {
		if !assemblable[stmt.Kind()] {
			slog.Debug("skipping non-assemblable statement", "kind", stmt.Kind())
			continue
		}
		fn, err := resolve(stmt.Kind(), stage, a.opts.Policies.For(stmt.Kind()))
		if err != nil {
			return err
		}
		fn(a, stmt)
	}
	return nil
}

// addMonomers turns the BaseAgent registry into monomer signatures and
// attaches grounding annotations.
func (a *Assembler) addMonomers() {
	for _, ba := range a.agents.All() {
		mono := &Monomer{
			Name:            ba.Name,
			Sites:           ba.Sites,
			SiteStates:      ba.SiteStates,
			SiteAnnotations: ba.SiteAnnotations,
		}
		a.model.AddMonomer(mono)
		for ns, id := range ba.DBRefs {
			if url := ontology.GroundingURL(ns, id); url != "" {
				a.model.Annotate(mono.Name, url, PredIs)
			}
		}
	}
}

func (a *Assembler) addInitialConditions() {
	for _, mono := range a.model.Monomers {
		a.model.SetBaseInitial(mono, a.opts.InitialAmount)
		if a.opts.ExtendedInitials {
			a.model.SetExtendedInitial(mono, 0)
		}
	}
}

// sitePattern maps an agent's structural conditions onto site
// conditions of its monomer: bound partners constrain binding sites,
// modifications their mark sites, mutations, location and activity
// their dedicated sites.
func (a *Assembler) sitePattern(agent *statements.Agent) map[string]SiteCondition {
	pattern := make(map[string]SiteCondition)
	for _, bc := range agent.BoundConditions {
		site := a.agents.BindingSiteName(bc.Agent)
		if bc.IsBound {
			pattern[site] = SiteCondition{Bond: BondAny()}
		} else {
			pattern[site] = SiteCondition{Bond: BondFree()}
		}
	}
	for _, mod := range agent.Mods {
		site := modSiteName(mod.Mod, mod.Residue, mod.Position)
		unmod, modState := mod.Mod.States()
		state := unmod
		if mod.IsModified {
			state = modState
		}
		pattern[site] = StateCond(state)
	}
	for _, mut := range agent.Mutations {
		if mut.ToResidue != "" {
			pattern[mutationSiteName(mut)] = StateCond(mut.ToResidue)
		}
	}
	if agent.Location != "" {
		pattern["loc"] = StateCond(statements.Normalize(agent.Location))
	}
	if agent.Activity != nil {
		state := "inactive"
		if agent.Activity.IsActive {
			state = "active"
		}
		pattern[agent.Activity.ActivityType] = StateCond(state)
	}
	return pattern
}

// monomerPattern builds a validated monomer pattern for the agent,
// with extra site conditions layered on top. A missing monomer or an
// invalid combination yields nil after a log line; callers skip the
// affected rule variant.
func (a *Assembler) monomerPattern(agent *statements.Agent, extra map[string]SiteCondition) *MonomerPattern {
	name := statements.Normalize(agent.Name)
	mono, ok := a.model.Monomer(name)
	if !ok {
		slog.Warn("monomer not found in model", "monomer", name)
		return nil
	}
	mp := NewMonomerPattern(mono)
	for site, cond := range a.sitePattern(agent) {
		mp.Sites[site] = cond
	}
	for site, cond := range extra {
		mp.Sites[site] = cond
	}
	if err := mp.Validate(); err != nil {
		slog.Info("invalid site pattern, skipping", "monomer", name, "err", err)
		return nil
	}
	return mp
}

// ruleAnnotations records which monomers act as subject and object of
// a rule.
func (a *Assembler) ruleAnnotations(ruleName string, subject, object *MonomerPattern) {
	if subject != nil {
		a.model.Annotate(ruleName, subject.Name, PredHasSubject)
	}
	if object != nil {
		a.model.Annotate(ruleName, object.Name, PredHasObject)
	}
}

// paramPrefix builds the conventional rate-parameter stem from agent
// initials, e.g. "kf_bm_bind" for BRAF and MAP2K1.
func paramPrefix(kind string, agents ...*statements.Agent) string {
	s := kind + "_"
	for _, agent := range agents {
		if agent == nil {
			continue
		}
		name := statements.Normalize(agent.Name)
		s += strings.ToLower(name[:1])
	}
	return s
}
