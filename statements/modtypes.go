package statements

// ModType identifies a modification mark. A Modification statement
// combines a ModType with an explicit Remove flag, so "dephosphorylation"
// is ModPhosphorylation with Remove set rather than a separate type.
type ModType string

// Known modification types. ModGeneric is the root of the modification
// hierarchy and subsumes all others.
const (
	ModPhosphorylation     ModType = "phosphorylation"
	ModUbiquitination      ModType = "ubiquitination"
	ModFarnesylation       ModType = "farnesylation"
	ModHydroxylation       ModType = "hydroxylation"
	ModAcetylation         ModType = "acetylation"
	ModSumoylation         ModType = "sumoylation"
	ModGlycosylation       ModType = "glycosylation"
	ModMethylation         ModType = "methylation"
	ModRibosylation        ModType = "ribosylation"
	ModGeranylgeranylation ModType = "geranylgeranylation"
	ModPalmitoylation      ModType = "palmitoylation"
	ModMyristoylation      ModType = "myristoylation"
	ModGeneric             ModType = "modification"
)

type modTypeInfo struct {
	abbrev     string
	unmodState string
	modState   string
}

var modTypes = map[ModType]modTypeInfo{
	ModPhosphorylation:     {"phospho", "u", "p"},
	ModUbiquitination:      {"ub", "n", "y"},
	ModFarnesylation:       {"farnesyl", "n", "y"},
	ModHydroxylation:       {"hydroxyl", "n", "y"},
	ModAcetylation:         {"acetyl", "n", "y"},
	ModSumoylation:         {"sumo", "n", "y"},
	ModGlycosylation:       {"glycosyl", "n", "y"},
	ModMethylation:         {"methyl", "n", "y"},
	ModRibosylation:        {"ribosyl", "n", "y"},
	ModGeranylgeranylation: {"geranylgeranyl", "n", "y"},
	ModPalmitoylation:      {"palmitoyl", "n", "y"},
	ModMyristoylation:      {"myristoyl", "n", "y"},
	ModGeneric:             {"mod", "n", "y"},
}

// Valid reports whether m is a known modification type.
func (m ModType) Valid() bool {
	_, ok := modTypes[m]
	return ok
}

// Abbrev returns the short site-name form of the modification type.
func (m ModType) Abbrev() string {
	return modTypes[m].abbrev
}

// States returns the unmodified and modified site-state labels for the
// modification type.
func (m ModType) States() (unmod, mod string) {
	info := modTypes[m]
	return info.unmodState, info.modState
}

// ActivityClass returns the enzymatic activity type implied by adding
// or removing this mark: kinase or phosphatase for phosphorylation,
// a generic catalytic activity for everything else.
func (m ModType) ActivityClass(remove bool) string {
	if m == ModPhosphorylation {
		if remove {
			return "phosphatase"
		}
		return "kinase"
	}
	return "catalytic"
}

// ConditionName returns the display name of the modification event,
// e.g. "phosphorylation" or "dephosphorylation".
func (m ModType) ConditionName(remove bool) string {
	if remove {
		return "de" + string(m)
	}
	return string(m)
}
