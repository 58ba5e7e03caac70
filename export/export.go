// Package export serializes compiled reaction-network models to
// textual reaction-network description formats.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/mechbio/mechkb/assembler"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatBNGL produces BioNetGen language (.bngl) output.
	FormatBNGL Format = "bngl"

	// FormatFlat produces a human-readable component listing.
	FormatFlat Format = "flat"

	// FormatJSON produces a JSON rendering of the model structure.
	FormatJSON Format = "json"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatBNGL: {
		Name:        FormatBNGL,
		MIMEType:    "text/plain",
		Extension:   ".bngl",
		Description: "BNGL - BioNetGen rule-based model language",
	},
	FormatFlat: {
		Name:        FormatFlat,
		MIMEType:    "text/plain",
		Extension:   ".txt",
		Description: "Flat - human-readable component listing",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "JSON - structured model document",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Exporter serializes one compiled model.
type Exporter struct {
	model *assembler.Model
}

// New returns an exporter over the model.
func New(model *assembler.Model) *Exporter {
	return &Exporter{model: model}
}

// Export serializes the model to the specified format.
func (e *Exporter) Export(format Format) (string, error) {
	switch format {
	case FormatBNGL:
		return e.toBNGL(), nil
	case FormatFlat:
		return e.toFlat(), nil
	case FormatJSON:
		return e.toJSON()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// jsonModel is the serializable view of a model.
type jsonModel struct {
	Name        string                 `json:"name"`
	Monomers    []*assembler.Monomer   `json:"monomers"`
	Parameters  []*assembler.Parameter `json:"parameters"`
	Rules       []*assembler.Rule      `json:"rules"`
	Initials    []assembler.Initial    `json:"initials,omitempty"`
	Annotations []assembler.Annotation `json:"annotations,omitempty"`
}

func (e *Exporter) toJSON() (string, error) {
	doc := jsonModel{
		Name:        e.model.Name,
		Monomers:    e.model.Monomers,
		Parameters:  e.model.Parameters,
		Rules:       e.model.Rules,
		Initials:    e.model.Initials,
		Annotations: e.model.Annotations,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}
	return string(data), nil
}
