package statements

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Namespace keys commonly found in Agent.DBRefs. The special TEXT
// namespace records the raw mention and does not count as grounding.
const (
	RefText     = "TEXT"
	RefHGNC     = "HGNC"
	RefUniprot  = "UP"
	RefFamily   = "BE"
	RefChebi    = "CHEBI"
	RefPfam     = "XFAM"
	RefInterpro = "IP"
)

// groundingOrder is the preference order used when an Agent carries
// several groundings for the same entity.
var groundingOrder = []string{RefFamily, RefHGNC, RefUniprot, RefChebi, RefPfam, RefInterpro}

// Agent is a named biological entity participating in a Statement,
// together with the structural qualifiers that constrain which form of
// the entity the statement is about.
type Agent struct {
	Name            string            `json:"name"`
	DBRefs          map[string]string `json:"db_refs,omitempty"`
	Mods            []ModCondition    `json:"mods,omitempty"`
	Mutations       []MutCondition    `json:"mutations,omitempty"`
	BoundConditions []BoundCondition  `json:"bound_conditions,omitempty"`
	Location        string            `json:"location,omitempty"`
	Activity        *ActivityCondition `json:"activity,omitempty"`
}

// ModCondition states that a site on the agent carries (or explicitly
// does not carry) a modification mark.
type ModCondition struct {
	Mod        ModType `json:"mod_type"`
	Residue    string  `json:"residue,omitempty"`
	Position   string  `json:"position,omitempty"`
	IsModified bool    `json:"is_modified"`
}

// MutCondition is a from/position/to mutation triple. An empty
// FromResidue means the wild-type residue is unknown.
type MutCondition struct {
	FromResidue string `json:"residue_from,omitempty"`
	Position    string `json:"position"`
	ToResidue   string `json:"residue_to,omitempty"`
}

// BoundCondition states that the agent is bound (or explicitly not
// bound) to a partner.
type BoundCondition struct {
	Agent   *Agent `json:"agent"`
	IsBound bool   `json:"is_bound"`
}

// ActivityCondition flags the agent as being in an active or inactive
// state with respect to a named activity type.
type ActivityCondition struct {
	ActivityType string `json:"activity_type"`
	IsActive     bool   `json:"is_active"`
}

// NewAgent returns an Agent with just a name.
func NewAgent(name string) *Agent {
	return &Agent{Name: name}
}

// Grounding returns the preferred (namespace, id) pair for the agent,
// or empty strings if the agent is ungrounded.
func (a *Agent) Grounding() (string, string) {
	for _, ns := range groundingOrder {
		if id, ok := a.DBRefs[ns]; ok && id != "" {
			return ns, id
		}
	}
	return "", ""
}

// IsGrounded reports whether the agent has any grounding beyond its
// raw text mention.
func (a *Agent) IsGrounded() bool {
	for ns, id := range a.DBRefs {
		if ns != RefText && id != "" {
			return true
		}
	}
	return false
}

// MatchesKey returns a canonical string for the agent's identity and
// state, used for structural statement grouping. Identity is the name
// plus the preferred grounding, so a grounded agent never collapses
// with a text-only mention of the same name. Evidence-independent and
// deterministic: condition lists are sorted, and bound partners
// contribute their full key so partner state distinguishes statements.
func (a *Agent) MatchesKey() string {
	if a == nil {
		return "-"
	}
	var b strings.Builder
	b.WriteString(a.Name)
	if ns, id := a.Grounding(); id != "" {
		fmt.Fprintf(&b, "(%s:%s)", ns, id)
	}

	keys := make([]string, 0, len(a.Mods))
	for _, mc := range a.Mods {
		keys = append(keys, fmt.Sprintf("m:%s:%s:%s:%t", mc.Mod, mc.Residue, mc.Position, mc.IsModified))
	}
	for _, mc := range a.Mutations {
		keys = append(keys, fmt.Sprintf("x:%s:%s:%s", mc.FromResidue, mc.Position, mc.ToResidue))
	}
	for _, bc := range a.BoundConditions {
		keys = append(keys, fmt.Sprintf("b:(%s):%t", bc.Agent.MatchesKey(), bc.IsBound))
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
	}
	if a.Location != "" {
		b.WriteString("|l:" + a.Location)
	}
	if a.Activity != nil {
		fmt.Fprintf(&b, "|a:%s:%t", a.Activity.ActivityType, a.Activity.IsActive)
	}
	return b.String()
}

// Unconditional returns a copy of the agent stripped of bound and
// modification conditions, location and activity. Mutations are kept
// since they are static properties of the molecule.
func (a *Agent) Unconditional() *Agent {
	return &Agent{
		Name:      a.Name,
		DBRefs:    a.DBRefs,
		Mutations: a.Mutations,
	}
}

// Normalize converts an arbitrary entity name into an identifier that
// matches ^[A-Za-z_][A-Za-z0-9_]*$. Non-ASCII runes are dropped, other
// illegal characters become underscores and a leading digit is
// prefixed with "p".
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	n := b.String()
	if n == "" {
		return "_"
	}
	if n[0] >= '0' && n[0] <= '9' {
		n = "p" + n
	}
	return n
}
