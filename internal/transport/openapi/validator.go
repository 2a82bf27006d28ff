package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/getkin/kin-openapi/openapi3"
)

// Validator checks request bodies against the component schemas of an OpenAPI document.
type Validator struct {
	doc *openapi3.T
}

func NewValidator(ctx context.Context, spec []byte) (*Validator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return &Validator{doc: doc}, nil
}

// ValidateBody returns a validation AppError listing every schema violation of body.
func (v *Validator) ValidateBody(schema string, body []byte) error {
	ref, err := v.schema(schema)
	if err != nil {
		return internal.NewInternalError("Request schema unavailable", err)
	}

	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return internal.NewValidationError("Request body must be valid JSON", internal.ErrCodeValidationFailed)
	}

	err = ref.Value.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	return internal.NewValidationError("Request body does not match schema", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: schemaErrors(err)})
}

func (v *Validator) schema(name string) (*openapi3.SchemaRef, error) {
	if v.doc.Components == nil {
		return nil, fmt.Errorf("openapi document has no components")
	}
	ref, ok := v.doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema %q not found", name)
	}
	return ref, nil
}

func schemaErrors(err error) []internal.ValidationError {
	var out []internal.ValidationError
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			out = append(out, schemaErrors(inner)...)
		}
	case *openapi3.SchemaError:
		out = append(out, internal.ValidationError{
			Field:   strings.Join(e.JSONPointer(), "."),
			Message: e.Reason,
			Code:    string(internal.ErrCodeSchemaMismatch),
		})
	default:
		out = append(out, internal.ValidationError{
			Message: err.Error(),
			Code:    string(internal.ErrCodeSchemaMismatch),
		})
	}
	return out
}
