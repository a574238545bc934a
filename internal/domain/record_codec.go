package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RecordFromMap builds a record from a loosely typed map (decoded JSON or a protobuf Struct)
// Numbers are accepted as well as strings; null or missing keys leave the field empty.
// A missing or empty "id" gets a fresh ID.
func RecordFromMap(m map[string]any) (InvestmentRecord, error) {
	record := NewEmptyRecord()
	if raw, ok := m["id"]; ok && raw != nil {
		text, err := fieldText("id", raw)
		if err != nil {
			return InvestmentRecord{}, err
		}
		if text != "" {
			id, err := uuid.Parse(text)
			if err != nil {
				return InvestmentRecord{}, fmt.Errorf("%w: invalid id %q", ErrInvalidField, text)
			}
			record.ID = id
		}
	}
	for _, field := range Fields {
		raw, ok := m[string(field)]
		if !ok || raw == nil {
			continue
		}
		text, err := fieldText(string(field), raw)
		if err != nil {
			return InvestmentRecord{}, err
		}
		if err := record.Set(field, text); err != nil {
			return InvestmentRecord{}, err
		}
	}
	return record, nil
}

// ToMap is the inverse of RecordFromMap
func (r InvestmentRecord) ToMap() map[string]any {
	m := map[string]any{"id": r.ID.String()}
	for _, field := range Fields {
		m[string(field)] = r.Get(field)
	}
	return m
}

func fieldText(name string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidField, name, raw)
	}
}

// FieldValues converts a loosely typed patch into field text
// Null clears a field, "id" is ignored and any other unknown key is rejected.
func FieldValues(m map[string]any) (map[Field]string, error) {
	values := make(map[Field]string, len(m))
	for key, raw := range m {
		if key == "id" {
			continue
		}
		field := Field(key)
		if !field.Known() {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidField, key)
		}
		if raw == nil {
			values[field] = ""
			continue
		}
		text, err := fieldText(key, raw)
		if err != nil {
			return nil, err
		}
		values[field] = text
	}
	return values, nil
}
