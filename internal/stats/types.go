// Package stats computes the fixed catalogue of derived aggregates over a
// canonical result table. Every aggregate is a pure function of the table,
// and each family is computed independently so one failure never blocks
// the rest of the catalogue.
package stats

import (
	"encoding/json"
	"strconv"
)

// Rate is a success rate that may be missing. A group with zero success
// observations has no defined rate; it marshals as JSON null rather than
// pretending to be 0 or 1.
type Rate struct {
	Valid bool
	Value float64
}

// RateOf builds a defined rate.
func RateOf(value float64) Rate { return Rate{Valid: true, Value: value} }

// MarshalJSON emits null for missing rates.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts null as a missing rate.
func (r *Rate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rate{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RateOf(v)
	return nil
}

// String renders the rate for tables; missing rates render empty.
func (r Rate) String() string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', 4, 64)
}

// GroupStats carries the count/rate reduction shared by every grouped
// aggregate. Count is the group size; Observations counts only records
// that carried a success field, and SuccessRate is Successes over
// Observations (missing when there were none).
type GroupStats struct {
	Count        int  `json:"count"`
	Observations int  `json:"observations"`
	Successes    int  `json:"successes"`
	SuccessRate  Rate `json:"successRate"`
}

// ProgressionPoint is one step of a model's sequential trend: the record's
// index within the model's input-ordered run and the cumulative success
// rate up to and including it.
type ProgressionPoint struct {
	Index          int  `json:"index"`
	CumulativeRate Rate `json:"cumulativeRate"`
}

// ModelProgression is the "linear progression" trend for one model.
type ModelProgression struct {
	Model  string             `json:"model"`
	Points []ProgressionPoint `json:"points"`
}

// ModelTemperatureStat keys GroupStats by (model, temperature). Temperatures
// group by exact float equality; near-duplicates stay distinct groups.
type ModelTemperatureStat struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	GroupStats
}

// TemperatureAnalysis bundles the per-(model, temperature) statistics with
// the pivoted temperature-by-language success-rate matrix.
type TemperatureAnalysis struct {
	ByModelTemperature  []ModelTemperatureStat `json:"byModelTemperature"`
	TemperatureLanguage Matrix                 `json:"temperatureLanguage"`
}

// CategoryStat keys GroupStats by category.
type CategoryStat struct {
	Category string `json:"category"`
	GroupStats
}

// ModelBreakdown is one model's per-category sub-table.
type ModelBreakdown struct {
	Model      string         `json:"model"`
	Categories []CategoryStat `json:"categories"`
}

// Matrix is a pivoted success-rate crosstab. Rows and Cols hold the sorted
// group labels; Cells only contains entries for groups with at least one
// member, so an absent cell means "no data", never "rate zero".
type Matrix struct {
	RowLabel string                     `json:"rowLabel"`
	ColLabel string                     `json:"colLabel"`
	Rows     []string                   `json:"rows"`
	Cols     []string                   `json:"cols"`
	Cells    map[string]map[string]Rate `json:"cells"`
}

// Cell returns the rate at (row, col) and whether that group exists.
func (m Matrix) Cell(row, col string) (Rate, bool) {
	cols, ok := m.Cells[row]
	if !ok {
		return Rate{}, false
	}
	rate, ok := cols[col]
	return rate, ok
}

// Summary is the global reduction over the whole table.
type Summary struct {
	TotalRecords  int  `json:"totalRecords"`
	Observations  int  `json:"observations"`
	Successes     int  `json:"successes"`
	SuccessRate   Rate `json:"successRate"`
	ModelCount    int  `json:"modelCount"`
	CategoryCount int  `json:"categoryCount"`
	LanguageCount int  `json:"languageCount"`
}

// Catalogue is the full set of named aggregates handed to the rendering
// layer. Families that failed to compute are left at their zero value and
// recorded in the accompanying stage report.
type Catalogue struct {
	Progression      []ModelProgression  `json:"progression"`
	Temperature      TemperatureAnalysis `json:"temperature"`
	Categories       []CategoryStat      `json:"categories"`
	ModelLanguage    Matrix              `json:"modelLanguage"`
	CategoryLanguage Matrix              `json:"categoryLanguage"`
	Summary          Summary             `json:"summary"`
	Breakdowns       []ModelBreakdown    `json:"breakdowns"`
}

// StageStatus records the outcome of computing one aggregate family.
type StageStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// StageReport collects the per-family outcomes for one catalogue build.
type StageReport struct {
	Stages []StageStatus `json:"stages"`
}

// Failed returns the statuses of families that did not complete.
func (r StageReport) Failed() []StageStatus {
	var failed []StageStatus
	for _, stage := range r.Stages {
		if !stage.OK {
			failed = append(failed, stage)
		}
	}
	return failed
}

// FormatTemperature renders a temperature grouping key the same way
// everywhere (tables, matrices, chart labels) so outputs stay comparable.
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
