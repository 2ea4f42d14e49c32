// Package results turns heterogeneous experiment-result files (CSV, JSON,
// or the block-structured text-log format) into one canonical record table
// that the aggregation and rendering layers consume.
package results

// RawRecord is an unvalidated key/value mapping produced by one of the
// format-specific parsers. Values may be strings, numbers, or booleans
// depending on the source format; no uniform shape is guaranteed.
type RawRecord map[string]any

// Record is a single validated test result. Model and Category are always
// non-empty; the remaining fields are nil/empty when the source record did
// not carry them or their values failed to coerce.
type Record struct {
	Model       string   `json:"model"`
	Category    string   `json:"category"`
	Language    string   `json:"language,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Success     *bool    `json:"success,omitempty"`
}

// Table is the ordered canonical record set for one pipeline run. Order
// matches the input; nothing re-sorts it after normalization.
type Table []Record

// HasTemperature reports whether the record carries a parsed temperature.
func (r Record) HasTemperature() bool { return r.Temperature != nil }

// HasSuccess reports whether the record carries a success observation.
func (r Record) HasSuccess() bool { return r.Success != nil }

// Canonical field keys shared by every parser.
const (
	FieldModel       = "model"
	FieldCategory    = "category"
	FieldLanguage    = "language"
	FieldTemperature = "temperature"
	FieldSuccess     = "success"
)
