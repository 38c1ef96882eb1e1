package index

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaJSON is the JSON Schema describing the shape of an index document.
// It checks structure only (field names, JSON types, required keys); the
// version, URL and range rules are enforced by the validators.
//
//go:embed index.schema.json
var SchemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func shapeSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(SchemaJSON))
	})
	return compiledSchema, schemaErr
}

// CheckShape validates a JSON document against SchemaJSON and reports every
// structural problem. Missing keys map to ErrMissingField, unexpected keys to
// ErrUnknownField, everything else to ErrShape.
func CheckShape(data []byte) error {
	schema, err := shapeSchema()
	if err != nil {
		return fmt.Errorf("compile index schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &FieldError{Err: fmt.Errorf("%w: invalid JSON: %v", ErrShape, err)}
	}
	if result.Valid() {
		return nil
	}

	var errs ValidationErrors
	for _, re := range result.Errors() {
		errs.AddError(shapeError(re))
	}
	return errs.ToError()
}

func shapeError(re gojsonschema.ResultError) *FieldError {
	field := schemaFieldPath(re.Field())
	property, _ := re.Details()["property"].(string)
	if property != "" && field != property && !strings.HasSuffix(field, "."+property) {
		field = join(field, property)
	}

	switch re.Type() {
	case "required":
		return &FieldError{Field: field, Err: ErrMissingField}
	case "additional_property_not_allowed":
		return &FieldError{Field: field, Value: property, Err: ErrUnknownField}
	default:
		value := ""
		if re.Value() != nil {
			value = fmt.Sprint(re.Value())
		}
		return &FieldError{Field: field, Value: value, Err: fmt.Errorf("%w: %s", ErrShape, re.Description())}
	}
}

// schemaFieldPath converts gojsonschema paths ("extensions.0.releases.1")
// into validator paths ("extensions[0].releases[1]").
func schemaFieldPath(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
