package validation

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	EmployeeAdd    = "employee_add"
	EmpID          = "emp_id"
	SkillAdd       = "skill_add"
	SkillComment   = "skill_comment"
	SkillRef       = "skill_ref"
	ManagerPending = "manager_pending"
	Search         = "search"
)

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Validator holds the request schemas compiled from the embedded files.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, err
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return v, nil
}

// Validate returns the violations of body against the named schema. A body
// that is not JSON is reported as a single violation at the root.
func (v *Validator) Validate(ctx context.Context, name string, body []byte) ([]FieldError, error) {
	rs, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	if !json.Valid(body) {
		return []FieldError{{Path: "/", Message: "request body must be valid JSON"}}, nil
	}

	kerrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return nil, err
	}
	out := make([]FieldError, 0, len(kerrs))
	for _, ke := range kerrs {
		p := ke.PropertyPath
		if p == "" {
			p = "/"
		}
		out = append(out, FieldError{Path: p, Message: ke.Message})
	}
	return out, nil
}
