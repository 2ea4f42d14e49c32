package results

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Normalize validates raw records into the canonical Table. A record must
// carry a non-empty model and category after trimming; records failing that
// gate are dropped without error. Optional fields are coerced to their
// canonical types, and a coercion failure drops only the offending field.
// An empty resulting table is terminal and reported as ErrNoValidRecords.
func Normalize(raw []RawRecord) (Table, error) {
	table := make(Table, 0, len(raw))
	for _, record := range raw {
		model, ok := coerceString(record[FieldModel])
		if !ok {
			continue
		}
		category, ok := coerceString(record[FieldCategory])
		if !ok {
			continue
		}

		canonical := Record{Model: model, Category: category}
		if language, ok := coerceString(record[FieldLanguage]); ok {
			canonical.Language = language
		}
		if temperature, ok := coerceFloat(record[FieldTemperature]); ok {
			canonical.Temperature = &temperature
		}
		if success, ok := coerceSuccess(record[FieldSuccess]); ok {
			canonical.Success = &success
		}
		table = append(table, canonical)
	}

	if len(table) == 0 {
		return nil, ErrNoValidRecords
	}
	return table, nil
}

// coerceString flattens scalar values to a trimmed string. Empty strings
// and non-scalar values count as absent.
func coerceString(value any) (string, bool) {
	var s string
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	case json.Number:
		s = v.String()
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceSuccess maps any present value through the truthy set. Booleans
// pass through; everything else is stringified first, so a numeric 1 from
// JSON counts as success while arbitrary strings are falsy.
func coerceSuccess(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if strings.TrimSpace(v) == "" {
			return false, false
		}
		return IsTruthy(v), true
	case float64:
		return IsTruthy(strconv.FormatFloat(v, 'g', -1, 64)), true
	case json.Number:
		return IsTruthy(v.String()), true
	default:
		return false, false
	}
}
