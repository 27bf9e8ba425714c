package schema

import (
	"fmt"
	"time"

	"package-migrator/feature/packages/models"

	"github.com/google/uuid"
)

// ValidationError reports one field that does not match the schema.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks pkg against s. It returns nil when the package is
// acceptable; otherwise every failing field is reported, in field-name order.
// Fields not declared by the schema are ignored.
func Validate(pkg models.Package, s *Schema) []ValidationError {
	var errs []ValidationError

	for _, name := range s.Names() {
		field := s.Fields[name]
		v, present := pkg[name]
		if !present {
			if field.Required {
				errs = append(errs, ValidationError{Field: name, Message: "is required"})
			}
			continue
		}
		if msg := checkType(field.Type, v); msg != "" {
			errs = append(errs, ValidationError{Field: name, Message: msg})
		}
	}

	return errs
}

func checkType(t Type, v any) string {
	switch t {
	case TypeUUID:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("must be a uuid, got %T", v)
		}
		if _, err := uuid.Parse(s); err != nil {
			return fmt.Sprintf("must be a uuid, got %q", s)
		}
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("must be a string, got %T", v)
		}
	case TypeNumber:
		switch v.(type) {
		case int, int64:
		default:
			return fmt.Sprintf("must be an integer, got %T", v)
		}
	case TypeDouble:
		switch v.(type) {
		case float64, int, int64:
		default:
			return fmt.Sprintf("must be a number, got %T", v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Sprintf("must be a boolean, got %T", v)
		}
	case TypeDate:
		if _, ok := v.(time.Time); !ok {
			return fmt.Sprintf("must be a date, got %T", v)
		}
	case TypeObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Sprintf("must be an object, got %T", v)
		}
	case TypeUUIDList:
		l, ok := v.([]string)
		if !ok {
			return fmt.Sprintf("must be a list of uuids, got %T", v)
		}
		for i, item := range l {
			if _, err := uuid.Parse(item); err != nil {
				return fmt.Sprintf("element %d must be a uuid, got %q", i, item)
			}
		}
	}
	return ""
}
