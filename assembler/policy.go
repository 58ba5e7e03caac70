package assembler

import (
	"fmt"

	"github.com/mechbio/mechkb/statements"
)

// Stage names one of the two compiler passes.
type Stage string

const (
	// StageMonomers is the monomer-collection pass: handlers only grow
	// the BaseAgent registry.
	StageMonomers Stage = "monomers"
	// StageAssemble is the rule-generation pass: handlers add rules,
	// parameters and annotations to the model.
	StageAssemble Stage = "assemble"
)

// PolicyDefault is the fallback policy name every kind should
// register handlers under.
const PolicyDefault = "default"

// Known policy names beyond the default.
const (
	PolicyOneStep          = "one_step"
	PolicyTwoStep          = "two_step"
	PolicyInteractionsOnly = "interactions_only"
	PolicyATPDependent     = "atp_dependent"
	PolicyMultiWay         = "multi_way"
)

// HandlerFunc performs one stage of assembly for one statement.
// Monomer-stage handlers ignore the model's rule surface; assemble-
// stage handlers may read the BaseAgent registry but must not grow it.
type HandlerFunc func(a *Assembler, stmt statements.Statement)

type handlerKey struct {
	kind   statements.Kind
	stage  Stage
	policy string
}

// registry holds the handler table. It is populated by the package's
// init function and read-only afterwards, so no locking is needed.
var registry = make(map[handlerKey]HandlerFunc)

func register(kind statements.Kind, stage Stage, policy string, fn HandlerFunc) {
	key := handlerKey{kind: kind, stage: stage, policy: policy}
	if _, ok := registry[key]; ok {
		panic(fmt.Sprintf("assembler: duplicate handler registration %v", key))
	}
	registry[key] = fn
}

// resolve finds the handler for a (kind, stage, policy) triple,
// falling back to the kind's default policy. With no default either,
// the policy configuration is broken and the error says so.
func resolve(kind statements.Kind, stage Stage, policy string) (HandlerFunc, error) {
	if fn, ok := registry[handlerKey{kind: kind, stage: stage, policy: policy}]; ok {
		return fn, nil
	}
	if fn, ok := registry[handlerKey{kind: kind, stage: stage, policy: PolicyDefault}]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: no %s handler for %s under policy %q",
		ErrUnknownPolicy, stage, kind, policy)
}
