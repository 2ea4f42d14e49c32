package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SupportedExtension reports whether the file name carries one of the
// accepted extensions (.csv, .json, .txt), case-insensitively.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".json", ".txt":
		return true
	}
	return false
}

// LoadRaw reads the file at path and parses it into raw records using the
// strategy selected by the file extension. Structural failures surface as
// *UnsupportedFormatError or *MalformedInputError; field-level problems are
// left for Normalize to absorb.
func LoadRaw(path string) ([]RawRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".txt":
		return ParseTextLog(path)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}

// LoadTable runs the full parse-and-normalize front half of the pipeline:
// raw records in input order, validated into a canonical Table.
func LoadTable(path string) (Table, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

func loadCSV(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &MalformedInputError{Format: "csv", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(RawRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				record[strings.TrimSpace(name)] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// jsonInputSchema accepts either a single result object or an array of
// result objects. Anything else (scalar, array of scalars) is structural
// garbage and rejected before record extraction.
var jsonInputSchema = gojsonschema.NewGoLoader(map[string]any{
	"oneOf": []any{
		map[string]any{"type": "object"},
		map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		},
	},
})

func loadJSON(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	validation, err := gojsonschema.Validate(jsonInputSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &MalformedInputError{Format: "json", Err: err}
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, issue := range validation.Errors() {
			issues = append(issues, issue.String())
		}
		return nil, &MalformedInputError{Format: "json", Err: fmt.Errorf("input must be an object or an array of objects: %s", strings.Join(issues, "; "))}
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &MalformedInputError{Format: "json", Err: err}
	}

	switch v := value.(type) {
	case map[string]any:
		return []RawRecord{RawRecord(v)}, nil
	case []any:
		records := make([]RawRecord, 0, len(v))
		for _, element := range v {
			object, ok := element.(map[string]any)
			if !ok {
				return nil, &MalformedInputError{Format: "json", Err: fmt.Errorf("array element is not an object")}
			}
			records = append(records, RawRecord(object))
		}
		return records, nil
	default:
		return nil, &MalformedInputError{Format: "json", Err: fmt.Errorf("unexpected top-level value of type %T", value)}
	}
}
