package stats

import (
	"fmt"
	"sort"

	"github.com/clram/resultviz/internal/results"
)

// Compute derives the full aggregate catalogue from a canonical table.
// Families are computed independently: a panic inside one family is
// converted to a stage failure and the remaining families still run.
// The returned report records the outcome of every family.
func Compute(table results.Table) (Catalogue, StageReport) {
	var catalogue Catalogue
	var report StageReport

	runStage(&report, "progression", func() {
		catalogue.Progression = computeProgression(table)
	})
	runStage(&report, "temperature", func() {
		catalogue.Temperature = computeTemperature(table)
	})
	runStage(&report, "categories", func() {
		catalogue.Categories = computeCategories(table)
	})
	runStage(&report, "modelLanguage", func() {
		catalogue.ModelLanguage = computeMatrix(table, "model", "language",
			func(r results.Record) (string, bool) { return r.Model, true },
			languageKey)
	})
	runStage(&report, "categoryLanguage", func() {
		catalogue.CategoryLanguage = computeMatrix(table, "category", "language",
			func(r results.Record) (string, bool) { return r.Category, true },
			languageKey)
	})
	runStage(&report, "summary", func() {
		catalogue.Summary = computeSummary(table)
	})
	runStage(&report, "breakdowns", func() {
		catalogue.Breakdowns = computeBreakdowns(table)
	})

	return catalogue, report
}

func runStage(report *StageReport, name string, fn func()) {
	status := StageStatus{Name: name, OK: true}
	func() {
		defer func() {
			if r := recover(); r != nil {
				status.OK = false
				status.Error = fmt.Sprintf("%v", r)
			}
		}()
		fn()
	}()
	report.Stages = append(report.Stages, status)
}

// accumulator builds GroupStats incrementally.
type accumulator struct {
	count        int
	observations int
	successes    int
}

func (a *accumulator) add(r results.Record) {
	a.count++
	if r.HasSuccess() {
		a.observations++
		if *r.Success {
			a.successes++
		}
	}
}

func (a accumulator) stats() GroupStats {
	stats := GroupStats{
		Count:        a.count,
		Observations: a.observations,
		Successes:    a.successes,
	}
	if a.observations > 0 {
		stats.SuccessRate = RateOf(float64(a.successes) / float64(a.observations))
	}
	return stats
}

func computeProgression(table results.Table) []ModelProgression {
	points := make(map[string][]ProgressionPoint)
	running := make(map[string]*accumulator)
	var order []string

	for _, record := range table {
		acc, ok := running[record.Model]
		if !ok {
			acc = &accumulator{}
			running[record.Model] = acc
			order = append(order, record.Model)
		}
		acc.add(record)
		points[record.Model] = append(points[record.Model], ProgressionPoint{
			Index:          len(points[record.Model]) + 1,
			CumulativeRate: acc.stats().SuccessRate,
		})
	}

	sort.Strings(order)
	progressions := make([]ModelProgression, 0, len(order))
	for _, model := range order {
		progressions = append(progressions, ModelProgression{Model: model, Points: points[model]})
	}
	return progressions
}

func computeTemperature(table results.Table) TemperatureAnalysis {
	type key struct {
		model       string
		temperature float64
	}
	groups := make(map[key]*accumulator)
	for _, record := range table {
		if !record.HasTemperature() {
			continue
		}
		k := key{model: record.Model, temperature: *record.Temperature}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.add(record)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].model != keys[j].model {
			return keys[i].model < keys[j].model
		}
		return keys[i].temperature < keys[j].temperature
	})

	byModelTemperature := make([]ModelTemperatureStat, 0, len(keys))
	for _, k := range keys {
		byModelTemperature = append(byModelTemperature, ModelTemperatureStat{
			Model:       k.model,
			Temperature: k.temperature,
			GroupStats:  groups[k].stats(),
		})
	}

	matrix := computeMatrix(table, "temperature", "language",
		func(r results.Record) (string, bool) {
			if !r.HasTemperature() {
				return "", false
			}
			return FormatTemperature(*r.Temperature), true
		},
		languageKey)

	return TemperatureAnalysis{
		ByModelTemperature:  byModelTemperature,
		TemperatureLanguage: matrix,
	}
}

func computeCategories(table results.Table) []CategoryStat {
	groups := make(map[string]*accumulator)
	for _, record := range table {
		acc, ok := groups[record.Category]
		if !ok {
			acc = &accumulator{}
			groups[record.Category] = acc
		}
		acc.add(record)
	}
	return sortedCategoryStats(groups)
}

func sortedCategoryStats(groups map[string]*accumulator) []CategoryStat {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategoryStat, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryStat{Category: name, GroupStats: groups[name].stats()})
	}
	return out
}

func languageKey(r results.Record) (string, bool) {
	if r.Language == "" {
		return "", false
	}
	return r.Language, true
}

// computeMatrix pivots the table into a success-rate crosstab. Records for
// which either key function reports absence are skipped, so the matrix only
// ever contains cells backed by real data.
func computeMatrix(table results.Table, rowLabel, colLabel string, rowKey, colKey func(results.Record) (string, bool)) Matrix {
	type cell struct{ row, col string }
	groups := make(map[cell]*accumulator)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})

	for _, record := range table {
		row, ok := rowKey(record)
		if !ok {
			continue
		}
		col, ok := colKey(record)
		if !ok {
			continue
		}
		k := cell{row: row, col: col}
		acc, exists := groups[k]
		if !exists {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.add(record)
		rowSet[row] = struct{}{}
		colSet[col] = struct{}{}
	}

	matrix := Matrix{
		RowLabel: rowLabel,
		ColLabel: colLabel,
		Rows:     sortedKeys(rowSet),
		Cols:     sortedKeys(colSet),
		Cells:    make(map[string]map[string]Rate),
	}
	for k, acc := range groups {
		cols, ok := matrix.Cells[k.row]
		if !ok {
			cols = make(map[string]Rate)
			matrix.Cells[k.row] = cols
		}
		cols[k.col] = acc.stats().SuccessRate
	}
	return matrix
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func computeSummary(table results.Table) Summary {
	var acc accumulator
	models := make(map[string]struct{})
	categories := make(map[string]struct{})
	languages := make(map[string]struct{})

	for _, record := range table {
		acc.add(record)
		models[record.Model] = struct{}{}
		categories[record.Category] = struct{}{}
		if record.Language != "" {
			languages[record.Language] = struct{}{}
		}
	}

	stats := acc.stats()
	return Summary{
		TotalRecords:  stats.Count,
		Observations:  stats.Observations,
		Successes:     stats.Successes,
		SuccessRate:   stats.SuccessRate,
		ModelCount:    len(models),
		CategoryCount: len(categories),
		LanguageCount: len(languages),
	}
}

func computeBreakdowns(table results.Table) []ModelBreakdown {
	perModel := make(map[string]map[string]*accumulator)
	for _, record := range table {
		categories, ok := perModel[record.Model]
		if !ok {
			categories = make(map[string]*accumulator)
			perModel[record.Model] = categories
		}
		acc, ok := categories[record.Category]
		if !ok {
			acc = &accumulator{}
			categories[record.Category] = acc
		}
		acc.add(record)
	}

	models := make([]string, 0, len(perModel))
	for model := range perModel {
		models = append(models, model)
	}
	sort.Strings(models)

	breakdowns := make([]ModelBreakdown, 0, len(models))
	for _, model := range models {
		breakdowns = append(breakdowns, ModelBreakdown{
			Model:      model,
			Categories: sortedCategoryStats(perModel[model]),
		})
	}
	return breakdowns
}
