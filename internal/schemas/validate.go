// Package schemas validates profile input documents against JSON Schemas.
package schemas

import (
	"encoding/json"
	"fmt"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/venture-profile/internal/types"
	schemafiles "github.com/jonathan/venture-profile/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument validates JSON bytes against one of the bundled schemas,
// e.g. schemafiles.CompanyProfile.
// Malformed JSON is reported as a ValidationError on "(root)".
func ValidateDocument(schemaName string, data []byte) error {
	schema, err := schemafiles.Load(schemaName)
	if err != nil {
		return &SchemaLoadError{Path: schemaName, Message: "unknown schema", Cause: err}
	}
	if !json.Valid(data) {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is not valid JSON"}}}
	}
	return validate(schemaName, gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
}

// DecodeProfile validates a company profile document and decodes it.
func DecodeProfile(data []byte) (*types.CompanyProfile, error) {
	if err := ValidateDocument(schemafiles.CompanyProfile, data); err != nil {
		return nil, err
	}
	var p types.CompanyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// DecodeRounds validates a funding rounds document and decodes it.
func DecodeRounds(data []byte) ([]types.FundingRound, error) {
	if err := ValidateDocument(schemafiles.FundingRounds, data); err != nil {
		return nil, err
	}
	var rounds []types.FundingRound
	if err := json.Unmarshal(data, &rounds); err != nil {
		return nil, fmt.Errorf("failed to decode funding rounds: %w", err)
	}
	return rounds, nil
}

// DecodeRenderRequest accepts either a bare profile document or an envelope
// of the form {"profile": {...}, "rounds": [...]}. Each part is checked
// against its schema and the decoded request against its struct rules.
func DecodeRenderRequest(data []byte) (*types.RenderRequest, error) {
	req, err := decodeRenderRequest(data)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, FromStructErrors(err)
	}
	return req, nil
}

func decodeRenderRequest(data []byte) (*types.RenderRequest, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document must be a JSON object"}}}
	}

	profileDoc, ok := envelope["profile"]
	if !ok {
		profile, err := DecodeProfile(data)
		if err != nil {
			return nil, err
		}
		return &types.RenderRequest{Profile: profile}, nil
	}

	profile, err := DecodeProfile(profileDoc)
	if err != nil {
		return nil, prefixFields(err, "profile")
	}
	req := &types.RenderRequest{Profile: profile}
	if roundsDoc, ok := envelope["rounds"]; ok && string(roundsDoc) != "null" {
		rounds, err := DecodeRounds(roundsDoc)
		if err != nil {
			return nil, prefixFields(err, "rounds")
		}
		req.Rounds = rounds
	}
	return req, nil
}

// FromStructErrors converts validator output into a ValidationError whose
// fields are dotted JSON paths below the root struct, e.g. "profile.name".
// Other errors are returned unchanged.
func FromStructErrors(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		ve.Errors = append(ve.Errors, FieldError{
			Field:   field,
			Message: "failed on the '" + fe.Tag() + "' rule",
		})
	}
	return ve
}

func prefixFields(err error, prefix string) error {
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	for i, fe := range ve.Errors {
		if fe.Field == "(root)" {
			ve.Errors[i].Field = prefix
		} else {
			ve.Errors[i].Field = prefix + "." + fe.Field
		}
	}
	return ve
}

func validate(schemaPath string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
