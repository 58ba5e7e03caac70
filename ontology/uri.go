package ontology

import (
	"regexp"
	"strings"
)

// VocabNS is the namespace used for the built-in modification,
// activity and cellular-component vocabularies.
const VocabNS = "MECHKB"

// Namespaces maps namespace keys to URI prefixes. The table is
// injected configuration data: callers may extend or replace it when
// loading hierarchies.
type Namespaces map[string]string

// DefaultNamespaces returns the built-in namespace table.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		"HGNC":  "http://identifiers.org/hgnc.symbol/",
		"UP":    "http://identifiers.org/uniprot/",
		"BE":    "http://mechkb.dev/entities/",
		"CHEBI": "http://identifiers.org/chebi/",
		"XFAM":  "http://identifiers.org/pfam/",
		"IP":    "http://identifiers.org/interpro/",
		VocabNS: "http://mechkb.dev/vocab/",
	}
}

// URI builds the URI for a (namespace, id) pair. Unknown namespaces
// and empty ids yield an empty string, which every hierarchy query
// treats as no-match.
func (ns Namespaces) URI(namespace, id string) string {
	if id == "" {
		return ""
	}
	prefix, ok := ns[namespace]
	if !ok {
		return ""
	}
	return prefix + id
}

// Name extracts the local identifier from a URI produced by this
// namespace table. Returns an empty string when the URI does not match
// any known prefix.
func (ns Namespaces) Name(uri string) string {
	for _, prefix := range ns {
		if strings.HasPrefix(uri, prefix) {
			return uri[len(prefix):]
		}
	}
	return ""
}

var identifiersPattern = regexp.MustCompile(`^https?://identifiers\.org/([a-z]+)/([A-Za-z0-9:._-]+)$`)

// identifiers.org path segments for the namespaces we annotate with.
var identifiersSegments = map[string]string{
	"HGNC":  "hgnc",
	"UP":    "uniprot",
	"CHEBI": "chebi",
	"XFAM":  "pfam",
	"IP":    "interpro",
}

// GroundingURL returns the identifiers.org URL for a grounding pair,
// following http://identifiers.org conventions. An empty string means
// the namespace has no identifiers.org registry entry.
func GroundingURL(namespace, id string) string {
	seg, ok := identifiersSegments[namespace]
	if !ok {
		return ""
	}
	if namespace == "HGNC" {
		id = "HGNC:" + id
	}
	if namespace == "XFAM" && !strings.HasPrefix(id, "PF") {
		return ""
	}
	return "http://identifiers.org/" + seg + "/" + id
}

// ParseGroundingURL parses an identifiers.org URL back into a
// (namespace, id) pair. Malformed or unknown URLs return empty
// strings, never an error.
func ParseGroundingURL(url string) (string, string) {
	m := identifiersPattern.FindStringSubmatch(url)
	if m == nil {
		return "", ""
	}
	seg, id := m[1], m[2]
	for ns, s := range identifiersSegments {
		if s != seg {
			continue
		}
		if ns == "HGNC" {
			if !strings.HasPrefix(id, "HGNC:") {
				return "", ""
			}
			id = strings.TrimPrefix(id, "HGNC:")
		}
		return ns, id
	}
	return "", ""
}
