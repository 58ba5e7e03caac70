package statements

import (
	"fmt"
	"sort"
	"strings"
)

// Modification states that an enzyme adds (or, with Remove set,
// strips) a modification mark on a substrate site.
type Modification struct {
	Core
	Enz      *Agent  `json:"enz,omitempty"`
	Sub      *Agent  `json:"sub"`
	Mod      ModType `json:"mod_type"`
	Remove   bool    `json:"remove,omitempty"`
	Residue  string  `json:"residue,omitempty"`
	Position string  `json:"position,omitempty"`
}

func (s *Modification) Kind() Kind          { return KindModification }
func (s *Modification) AgentList() []*Agent { return []*Agent{s.Enz, s.Sub} }

func (s *Modification) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%t,%s,%s;%s;%s)", s.Kind(), s.Mod, s.Remove,
		s.Residue, s.Position, s.Enz.MatchesKey(), s.Sub.MatchesKey())
}

// String renders a short human-readable form, e.g.
// "Phosphorylation(BRAF, MAP2K1, S, 222)".
func (s *Modification) String() string {
	name := s.Mod.ConditionName(s.Remove)
	name = strings.ToUpper(name[:1]) + name[1:]
	return fmt.Sprintf("%s(%s, %s, %s, %s)", name,
		agentName(s.Enz), agentName(s.Sub), s.Residue, s.Position)
}

// Autophosphorylation states that a kinase phosphorylates itself.
type Autophosphorylation struct {
	Core
	Enz      *Agent `json:"enz"`
	Residue  string `json:"residue,omitempty"`
	Position string `json:"position,omitempty"`
}

func (s *Autophosphorylation) Kind() Kind          { return KindAutophosphorylation }
func (s *Autophosphorylation) AgentList() []*Agent { return []*Agent{s.Enz} }

func (s *Autophosphorylation) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%s;%s)", s.Kind(), s.Residue, s.Position, s.Enz.MatchesKey())
}

// Transphosphorylation states that a kinase phosphorylates its bound
// binding partner (the first bound condition of Enz).
type Transphosphorylation struct {
	Core
	Enz      *Agent `json:"enz"`
	Residue  string `json:"residue,omitempty"`
	Position string `json:"position,omitempty"`
}

func (s *Transphosphorylation) Kind() Kind          { return KindTransphosphorylation }
func (s *Transphosphorylation) AgentList() []*Agent { return []*Agent{s.Enz} }

func (s *Transphosphorylation) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%s;%s)", s.Kind(), s.Residue, s.Position, s.Enz.MatchesKey())
}

// Complex states that its members form a physical complex. Member
// order carries no meaning.
type Complex struct {
	Core
	Members []*Agent `json:"members"`
}

func (s *Complex) Kind() Kind          { return KindComplex }
func (s *Complex) AgentList() []*Agent { return s.Members }

// MatchesKey sorts member keys so that member order does not affect
// grouping.
func (s *Complex) MatchesKey() string {
	keys := make([]string, len(s.Members))
	for i, m := range s.Members {
		keys[i] = m.MatchesKey()
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s(%s)", s.Kind(), strings.Join(keys, ";"))
}

// RegulateActivity states that a subject activates or deactivates a
// named activity of an object.
type RegulateActivity struct {
	Core
	Subj         *Agent `json:"subj"`
	Obj          *Agent `json:"obj"`
	ObjActivity  string `json:"obj_activity"`
	IsActivation bool   `json:"is_activation"`
}

func (s *RegulateActivity) Kind() Kind          { return KindRegulateActivity }
func (s *RegulateActivity) AgentList() []*Agent { return []*Agent{s.Subj, s.Obj} }

func (s *RegulateActivity) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%t;%s;%s)", s.Kind(), s.ObjActivity, s.IsActivation,
		s.Subj.MatchesKey(), s.Obj.MatchesKey())
}

// ActiveForm states that the agent, in the structural state described
// by its conditions, is active or inactive for the given activity
// type.
type ActiveForm struct {
	Core
	Agent        *Agent `json:"agent"`
	ActivityType string `json:"activity_type"`
	IsActive     bool   `json:"is_active"`
}

func (s *ActiveForm) Kind() Kind          { return KindActiveForm }
func (s *ActiveForm) AgentList() []*Agent { return []*Agent{s.Agent} }

func (s *ActiveForm) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%t;%s)", s.Kind(), s.ActivityType, s.IsActive, s.Agent.MatchesKey())
}

// Gef states that a guanine-nucleotide exchange factor activates a
// small GTPase.
type Gef struct {
	Core
	Gef *Agent `json:"gef"`
	Ras *Agent `json:"ras"`
}

func (s *Gef) Kind() Kind          { return KindGef }
func (s *Gef) AgentList() []*Agent { return []*Agent{s.Gef, s.Ras} }

func (s *Gef) MatchesKey() string {
	return fmt.Sprintf("%s(%s;%s)", s.Kind(), s.Gef.MatchesKey(), s.Ras.MatchesKey())
}

// Gap states that a GTPase-activating protein deactivates a small
// GTPase.
type Gap struct {
	Core
	Gap *Agent `json:"gap"`
	Ras *Agent `json:"ras"`
}

func (s *Gap) Kind() Kind          { return KindGap }
func (s *Gap) AgentList() []*Agent { return []*Agent{s.Gap, s.Ras} }

func (s *Gap) MatchesKey() string {
	return fmt.Sprintf("%s(%s;%s)", s.Kind(), s.Gap.MatchesKey(), s.Ras.MatchesKey())
}

// Translocation states that the agent moves between two cellular
// locations.
type Translocation struct {
	Core
	Agent        *Agent `json:"agent"`
	FromLocation string `json:"from_location,omitempty"`
	ToLocation   string `json:"to_location,omitempty"`
}

func (s *Translocation) Kind() Kind          { return KindTranslocation }
func (s *Translocation) AgentList() []*Agent { return []*Agent{s.Agent} }

func (s *Translocation) MatchesKey() string {
	return fmt.Sprintf("%s(%s,%s;%s)", s.Kind(), s.FromLocation, s.ToLocation, s.Agent.MatchesKey())
}

// IncreaseAmount states that the subject increases the amount of the
// object; with a nil subject it describes plain synthesis.
type IncreaseAmount struct {
	Core
	Subj *Agent `json:"subj,omitempty"`
	Obj  *Agent `json:"obj"`
}

func (s *IncreaseAmount) Kind() Kind          { return KindIncreaseAmount }
func (s *IncreaseAmount) AgentList() []*Agent { return []*Agent{s.Subj, s.Obj} }

func (s *IncreaseAmount) MatchesKey() string {
	return fmt.Sprintf("%s(%s;%s)", s.Kind(), s.Subj.MatchesKey(), s.Obj.MatchesKey())
}

// DecreaseAmount states that the subject decreases the amount of the
// object; with a nil subject it describes plain degradation.
type DecreaseAmount struct {
	Core
	Subj *Agent `json:"subj,omitempty"`
	Obj  *Agent `json:"obj"`
}

func (s *DecreaseAmount) Kind() Kind          { return KindDecreaseAmount }
func (s *DecreaseAmount) AgentList() []*Agent { return []*Agent{s.Subj, s.Obj} }

func (s *DecreaseAmount) MatchesKey() string {
	return fmt.Sprintf("%s(%s;%s)", s.Kind(), s.Subj.MatchesKey(), s.Obj.MatchesKey())
}

func agentName(a *Agent) string {
	if a == nil {
		return "None"
	}
	return a.Name
}
