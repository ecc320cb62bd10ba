package validation

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema wraps an OpenAPI schema as a Validator. The schema's VisitJSON is
// the parse step; a failure reports msgs.Invalid, falling back to the schema
// error reason. Empty values are not special-cased here; compose with
// Required or Optional.
func Schema(schema *openapi3.Schema, msgs Messages) Validator {
	return &schemaValidator{schema: schema, msgs: msgs}
}

type schemaValidator struct {
	schema *openapi3.Schema
	msgs   Messages
}

func (v *schemaValidator) Validate(value any) Result {
	if v == nil || v.schema == nil {
		return OK()
	}
	if err := v.schema.VisitJSON(normalizeJSON(value)); err != nil {
		return Fail(v.msgs.invalid(reason(err)))
	}
	return OK()
}

// normalizeJSON coerces Go values into the JSON shapes VisitJSON expects.
func normalizeJSON(value any) any {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return nil
		}
		return strings.TrimSpace(*v)
	case *bool:
		if v == nil {
			return nil
		}
		return *v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func reason(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) && strings.TrimSpace(schemaErr.Reason) != "" {
		return schemaErr.Reason
	}
	return ""
}
