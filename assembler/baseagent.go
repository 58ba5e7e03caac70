package assembler

import (
	"sort"
	"strings"

	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
)

// BaseAgent aggregates everything the whole corpus says about one
// canonical entity: the union of its sites and site states, the
// site/state sub-patterns known to make it active or inactive, its
// activity types and its merged groundings. Additions are idempotent
// and never shrink the record.
type BaseAgent struct {
	Name            string
	Sites           []string
	SiteStates      map[string][]string
	SiteAnnotations []SiteAnnotation
	ActiveForms     []map[string]string
	InactiveForms   []map[string]string
	ActivityTypes   []string
	DBRefs          map[string]string
}

func newBaseAgent(name string) *BaseAgent {
	return &BaseAgent{
		Name:       name,
		SiteStates: make(map[string][]string),
		DBRefs:     make(map[string]string),
	}
}

// CreateSite declares a site, optionally with admissible states.
// Repeated calls merge.
func (ba *BaseAgent) CreateSite(site string, states ...string) {
	found := false
	for _, s := range ba.Sites {
		if s == site {
			found = true
			break
		}
	}
	if !found {
		ba.Sites = append(ba.Sites, site)
	}
	if len(states) > 0 {
		ba.AddSiteStates(site, states...)
	}
}

// AddSiteStates appends states not yet known for the site, preserving
// first-seen order so the ground state stays stable.
func (ba *BaseAgent) AddSiteStates(site string, states ...string) {
	for _, state := range states {
		known := false
		for _, s := range ba.SiteStates[site] {
			if s == state {
				known = true
				break
			}
		}
		if !known {
			ba.SiteStates[site] = append(ba.SiteStates[site], state)
		}
	}
}

// CreateModSite declares the site carrying a modification mark, with
// its unmodified and modified states, plus the site annotations that
// later let grounded pattern search find it.
func (ba *BaseAgent) CreateModSite(mc statements.ModCondition) {
	site := modSiteName(mc.Mod, mc.Residue, mc.Position)
	unmod, mod := mc.Mod.States()
	ba.CreateSite(site, unmod, mod)
	ba.SiteAnnotations = append(ba.SiteAnnotations, SiteAnnotation{
		Site: site, State: mod, Predicate: PredIsModSite, Value: string(mc.Mod),
	})
	if mc.Residue != "" {
		ba.SiteAnnotations = append(ba.SiteAnnotations, SiteAnnotation{
			Site: site, Predicate: PredIsResidue, Value: mc.Residue,
		})
	}
	if mc.Position != "" {
		ba.SiteAnnotations = append(ba.SiteAnnotations, SiteAnnotation{
			Site: site, Predicate: PredIsPosition, Value: mc.Position,
		})
	}
}

// AddActivityForm records a site/state sub-pattern as diagnostic of the
// agent being active or inactive. Duplicates by pattern equality are
// suppressed.
func (ba *BaseAgent) AddActivityForm(form map[string]string, isActive bool) {
	list := &ba.InactiveForms
	if isActive {
		list = &ba.ActiveForms
	}
	for _, known := range *list {
		if equalForm(known, form) {
			return
		}
	}
	*list = append(*list, form)
}

// AddActivityType records a named activity the agent is known to have.
func (ba *BaseAgent) AddActivityType(activityType string) {
	for _, at := range ba.ActivityTypes {
		if at == activityType {
			return
		}
	}
	ba.ActivityTypes = append(ba.ActivityTypes, activityType)
}

func equalForm(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// BaseAgentSet is the registry of BaseAgents for one compiler run,
// keyed by normalized entity name.
type BaseAgentSet struct {
	hierarchies *ontology.Hierarchies
	agents      map[string]*BaseAgent
	order       []string
}

// NewBaseAgentSet returns an empty registry resolving binding-site
// names through the given hierarchy set.
func NewBaseAgentSet(hs *ontology.Hierarchies) *BaseAgentSet {
	return &BaseAgentSet{hierarchies: hs, agents: make(map[string]*BaseAgent)}
}

// GetCreate returns the BaseAgent for the agent's normalized name,
// creating it if needed, and folds the agent's structural conditions
// into it. Bound partners get reciprocal binding sites on both
// records.
func (set *BaseAgentSet) GetCreate(agent *statements.Agent) *BaseAgent {
	name := statements.Normalize(agent.Name)
	ba, ok := set.agents[name]
	if !ok {
		ba = newBaseAgent(name)
		set.agents[name] = ba
		set.order = append(set.order, name)
	}

	for _, bc := range agent.BoundConditions {
		partner := set.GetCreate(bc.Agent)
		partner.CreateSite(set.BindingSiteName(agent))
		ba.CreateSite(set.BindingSiteName(bc.Agent))
	}
	for _, mc := range agent.Mods {
		ba.CreateModSite(mc)
	}
	for _, mc := range agent.Mutations {
		site := mutationSiteName(mc)
		ba.CreateSite(site, "WT")
		if mc.ToResidue != "" {
			ba.AddSiteStates(site, mc.ToResidue)
		}
	}
	if agent.Location != "" {
		ba.CreateSite("loc", statements.Normalize(agent.Location))
	}
	if agent.Activity != nil {
		ba.CreateSite(agent.Activity.ActivityType, "inactive", "active")
	}
	for ns, id := range agent.DBRefs {
		ba.DBRefs[ns] = id
	}
	return ba
}

// Get looks up a BaseAgent by the agent's normalized name without
// mutating the registry.
func (set *BaseAgentSet) Get(agent *statements.Agent) (*BaseAgent, bool) {
	ba, ok := set.agents[statements.Normalize(agent.Name)]
	return ba, ok
}

// All returns the BaseAgents in first-reference order.
func (set *BaseAgentSet) All() []*BaseAgent {
	out := make([]*BaseAgent, len(set.order))
	for i, name := range set.order {
		out[i] = set.agents[name]
	}
	return out
}

// BindingSiteName derives the canonical binding-site name for an
// agent: the lowercased name of its top ontological ancestor when it
// is grounded and has one, otherwise its own normalized name
// lowercased. Family-level naming lets one site serve all members of
// the family.
func (set *BaseAgentSet) BindingSiteName(agent *statements.Agent) string {
	ns, id := agent.Grounding()
	if id != "" {
		uri := set.hierarchies.NS.URI(ns, id)
		parents := set.hierarchies.Entity.GetParents(uri, ontology.ParentsTop)
		if len(parents) > 0 {
			sort.Strings(parents)
			if name := set.hierarchies.NS.Name(parents[0]); name != "" {
				return strings.ToLower(statements.Normalize(name))
			}
		}
	}
	return strings.ToLower(statements.Normalize(agent.Name))
}

// ActivePatterns returns the site/state patterns under which the agent
// counts as active: its recorded active forms if any, otherwise one
// pattern per known activity type set to "active", otherwise the
// single unconditional pattern.
func (set *BaseAgentSet) ActivePatterns(agent *statements.Agent) []map[string]string {
	ba, ok := set.Get(agent)
	if !ok {
		return []map[string]string{{}}
	}
	if len(ba.ActiveForms) > 0 {
		return ba.ActiveForms
	}
	if len(ba.ActivityTypes) > 0 {
		patterns := make([]map[string]string, len(ba.ActivityTypes))
		for i, at := range ba.ActivityTypes {
			patterns[i] = map[string]string{at: "active"}
		}
		return patterns
	}
	return []map[string]string{{}}
}

// InactivePatterns is the inactive-side counterpart of ActivePatterns,
// without the activity-type fallback.
func (set *BaseAgentSet) InactivePatterns(agent *statements.Agent) []map[string]string {
	ba, ok := set.Get(agent)
	if !ok || len(ba.InactiveForms) == 0 {
		return []map[string]string{{}}
	}
	return ba.InactiveForms
}
