package ontology

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// hierarchyFile is the on-disk YAML shape of a hierarchy source.
// Node references are "NAMESPACE:ID" strings resolved through the
// namespace table.
type hierarchyFile struct {
	Namespaces        map[string]string `yaml:"namespaces"`
	Entity            domainSection     `yaml:"entity"`
	Modification      domainSection     `yaml:"modification"`
	Activity          domainSection     `yaml:"activity"`
	CellularComponent domainSection     `yaml:"cellular_component"`
}

type domainSection struct {
	Isa    map[string][]string `yaml:"isa"`
	PartOf map[string][]string `yaml:"partof"`
}

// Default returns the hierarchy set with the built-in vocabularies
// loaded and closures built.
func Default() *Hierarchies {
	hs, err := Load()
	if err != nil {
		// The embedded defaults are compiled in; failing to parse
		// them is a programming error.
		panic(fmt.Sprintf("ontology: embedded defaults invalid: %v", err))
	}
	return hs
}

// Load builds a hierarchy set from the embedded defaults plus any
// number of external YAML sources, applied in order, then precomputes
// closures.
func Load(paths ...string) (*Hierarchies, error) {
	hs := NewHierarchies()
	if err := mergeYAML(hs, defaultsYAML); err != nil {
		return nil, err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read hierarchy source: %w", err)
		}
		if err := mergeYAML(hs, data); err != nil {
			return nil, fmt.Errorf("hierarchy source %s: %w", path, err)
		}
	}
	hs.Build()
	return hs, nil
}

func mergeYAML(hs *Hierarchies, data []byte) error {
	var file hierarchyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse hierarchy yaml: %w", err)
	}
	for ns, prefix := range file.Namespaces {
		hs.NS[ns] = prefix
	}
	mergeSection(hs, hs.Entity, file.Entity)
	mergeSection(hs, hs.Modification, file.Modification)
	mergeSection(hs, hs.Activity, file.Activity)
	mergeSection(hs, hs.CellularComponent, file.CellularComponent)
	return nil
}

func mergeSection(hs *Hierarchies, h *Hierarchy, sec domainSection) {
	addEdges(hs, h, sec.Isa, RelIsa)
	addEdges(hs, h, sec.PartOf, RelPartOf)
}

func addEdges(hs *Hierarchies, h *Hierarchy, edges map[string][]string, rel Relation) {
	for childRef, parentRefs := range edges {
		child := resolveRef(hs.NS, childRef)
		if child == "" {
			slog.Warn("skipping hierarchy edge with unresolvable child", "ref", childRef)
			continue
		}
		for _, parentRef := range parentRefs {
			parent := resolveRef(hs.NS, parentRef)
			if parent == "" {
				slog.Warn("skipping hierarchy edge with unresolvable parent", "ref", parentRef)
				continue
			}
			h.AddEdge(child, parent, rel)
		}
	}
}

// resolveRef turns a "NAMESPACE:ID" reference into a URI. Unresolvable
// references yield an empty string.
func resolveRef(ns Namespaces, ref string) string {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return ns.URI(parts[0], parts[1])
}
