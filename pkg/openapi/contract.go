package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// CreateRegistration is the operation that receives a snapshot.
const CreateRegistration = "createRegistration"

//go:embed registration.yaml
var registrationDocument []byte

// Raw returns the embedded contract as YAML.
func Raw() []byte {
	return append([]byte(nil), registrationDocument...)
}

// Property describes one request body property.
type Property struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Format    string   `json:"format,omitempty"`
	Required  bool     `json:"required"`
	Enum      []string `json:"enum,omitempty"`
	MinLength uint64   `json:"minLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// Contract is a loaded and validated OpenAPI document.
type Contract struct {
	spec *openapi3.T
}

// Load parses and validates the embedded contract.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, registrationDocument)
}

// LoadFromData parses and validates raw as an OpenAPI 3 document.
func LoadFromData(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return &Contract{spec: spec}, nil
}

// Title returns the document title.
func (c *Contract) Title() string {
	if c.spec.Info == nil {
		return ""
	}
	return c.spec.Info.Title
}

// Operation finds an operation by its operationId.
func (c *Contract) Operation(operationID string) (method, path string, op *openapi3.Operation, ok bool) {
	for path, item := range c.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return strings.ToUpper(method), path, op, true
			}
		}
	}
	return "", "", nil, false
}

// PayloadFields lists the JSON request body properties of operationID in
// registration field order; unknown properties sort last by name.
func (c *Contract) PayloadFields(operationID string) ([]Property, error) {
	schema, err := c.requestSchema(operationID)
	if err != nil {
		return nil, err
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	out := make([]Property, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		prop := Property{Name: name, Required: required[name]}
		if ref != nil && ref.Value != nil {
			value := ref.Value
			prop.Type = firstSchemaType(value.Type)
			prop.Format = value.Format
			prop.MinLength = value.MinLength
			prop.Pattern = value.Pattern
			for _, option := range value.Enum {
				prop.Enum = append(prop.Enum, fmt.Sprint(option))
			}
		}
		out = append(out, prop)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessField(out[i].Name, out[j].Name)
	})
	return out, nil
}

// ValidateSnapshot checks the JSON encoding of snapshot against the request
// body schema of CreateRegistration.
func (c *Contract) ValidateSnapshot(snapshot model.Snapshot) error {
	schema, err := c.requestSchema(CreateRegistration)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("openapi: encode snapshot: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("openapi: decode snapshot: %w", err)
	}
	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("openapi: snapshot does not match contract: %w", err)
	}
	return nil
}

func (c *Contract) requestSchema(operationID string) (*openapi3.Schema, error) {
	method, path, op, ok := c.Operation(operationID)
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	if method != http.MethodPost || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("openapi: %s %s has no request body", method, path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("openapi: %s %s has no JSON schema", method, path)
	}
	return media.Schema.Value, nil
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ",")
}

func lessField(a, b string) bool {
	ai, bi := model.FieldName(a).Index(), model.FieldName(b).Index()
	switch {
	case ai >= 0 && bi >= 0:
		return ai < bi
	case ai >= 0:
		return true
	case bi >= 0:
		return false
	default:
		return a < b
	}
}
