package statements

import (
	"encoding/json"
	"fmt"
)

// Envelope is the serialized form of a Statement: the kind tag plus
// the kind-specific payload.
type Envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Marshal wraps a statement into its envelope form.
func Marshal(stmt Statement) (Envelope, error) {
	data, err := json.Marshal(stmt)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s statement: %w", stmt.Kind(), err)
	}
	return Envelope{Kind: stmt.Kind(), Data: data}, nil
}

// Unmarshal decodes an envelope back into its concrete statement type.
func Unmarshal(env Envelope) (Statement, error) {
	var stmt Statement
	switch env.Kind {
	case KindModification:
		stmt = &Modification{}
	case KindAutophosphorylation:
		stmt = &Autophosphorylation{}
	case KindTransphosphorylation:
		stmt = &Transphosphorylation{}
	case KindComplex:
		stmt = &Complex{}
	case KindRegulateActivity:
		stmt = &RegulateActivity{}
	case KindActiveForm:
		stmt = &ActiveForm{}
	case KindGef:
		stmt = &Gef{}
	case KindGap:
		stmt = &Gap{}
	case KindTranslocation:
		stmt = &Translocation{}
	case KindIncreaseAmount:
		stmt = &IncreaseAmount{}
	case KindDecreaseAmount:
		stmt = &DecreaseAmount{}
	default:
		return nil, fmt.Errorf("unknown statement kind: %s", env.Kind)
	}
	if err := json.Unmarshal(env.Data, stmt); err != nil {
		return nil, fmt.Errorf("unmarshal %s statement: %w", env.Kind, err)
	}
	return stmt, nil
}

// Envelopes wraps each statement into its envelope form.
func Envelopes(stmts []Statement) ([]Envelope, error) {
	envs := make([]Envelope, len(stmts))
	for i, stmt := range stmts {
		env, err := Marshal(stmt)
		if err != nil {
			return nil, err
		}
		envs[i] = env
	}
	return envs, nil
}

// Decode unwraps a list of envelopes back into statements.
func Decode(envs []Envelope) ([]Statement, error) {
	stmts := make([]Statement, len(envs))
	for i, env := range envs {
		stmt, err := Unmarshal(env)
		if err != nil {
			return nil, err
		}
		stmts[i] = stmt
	}
	return stmts, nil
}

// MarshalList encodes a statement list as a JSON array of envelopes.
func MarshalList(stmts []Statement) ([]byte, error) {
	envs, err := Envelopes(stmts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envs)
}

// UnmarshalList decodes a JSON array of envelopes into statements.
func UnmarshalList(data []byte) ([]Statement, error) {
	var envs []Envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("unmarshal statement list: %w", err)
	}
	return Decode(envs)
}
