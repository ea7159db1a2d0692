package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"rayob-cms/models"
	"rayob-cms/validation"
)

// Editable is implemented by record types that accept client payloads.
// EditableFields lists the JSON names a client may set.
type Editable interface {
	EditableFields() []string
}

// decodePayload builds a T from base (may be nil) overlaid with the
// editable fields of payload, then validates it. Keys outside
// EditableFields are dropped, so id, position and timestamps can never be
// set from client input.
func decodePayload[T any](v *validation.Validator, base *T, editable []string, payload models.Payload) (*T, error) {
	fields := map[string]json.RawMessage{}
	if base != nil {
		raw, err := json.Marshal(base)
		if err != nil {
			return nil, fmt.Errorf("encode record: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
	}
	for _, name := range editable {
		if value, ok := payload[name]; ok {
			fields[name] = value
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, models.NewValidationError("invalid payload", []validation.FieldError{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
			}})
		}
		return nil, models.NewValidationError("invalid payload", err.Error())
	}

	if fieldErrors := v.Struct(&rec); len(fieldErrors) > 0 {
		return nil, models.NewValidationError("invalid payload", fieldErrors)
	}
	return &rec, nil
}
