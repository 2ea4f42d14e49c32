package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clram/resultviz/internal/results"
	"github.com/clram/resultviz/internal/stats"
)

// WriteTables writes the aggregate catalogue (and the canonical table
// itself) as CSV files inside the session directory.
func WriteTables(session *Session, table results.Table, catalogue stats.Catalogue) error {
	writers := []struct {
		name  string
		write func(w *csv.Writer) error
	}{
		{"canonical_table.csv", func(w *csv.Writer) error { return writeCanonical(w, table) }},
		{"summary.csv", func(w *csv.Writer) error { return writeSummary(w, catalogue.Summary) }},
		{"category_stats.csv", func(w *csv.Writer) error { return writeCategoryStats(w, catalogue.Categories) }},
		{"model_temperature.csv", func(w *csv.Writer) error { return writeModelTemperature(w, catalogue.Temperature.ByModelTemperature) }},
		{"temperature_language_matrix.csv", func(w *csv.Writer) error { return writeMatrix(w, catalogue.Temperature.TemperatureLanguage) }},
		{"model_language_matrix.csv", func(w *csv.Writer) error { return writeMatrix(w, catalogue.ModelLanguage) }},
		{"category_language_matrix.csv", func(w *csv.Writer) error { return writeMatrix(w, catalogue.CategoryLanguage) }},
		{"model_category_breakdown.csv", func(w *csv.Writer) error { return writeBreakdowns(w, catalogue.Breakdowns) }},
	}

	for _, t := range writers {
		if err := writeCSVFile(filepath.Join(session.Dir, t.name), t.write); err != nil {
			return fmt.Errorf("write %s: %w", t.name, err)
		}
	}
	return nil
}

func writeCSVFile(path string, write func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeCanonical(w *csv.Writer, table results.Table) error {
	if err := w.Write([]string{"model", "category", "language", "temperature", "success"}); err != nil {
		return err
	}
	for _, r := range table {
		temperature := ""
		if r.HasTemperature() {
			temperature = stats.FormatTemperature(*r.Temperature)
		}
		success := ""
		if r.HasSuccess() {
			success = strconv.FormatBool(*r.Success)
		}
		if err := w.Write([]string{r.Model, r.Category, r.Language, temperature, success}); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w *csv.Writer, s stats.Summary) error {
	rows := [][]string{
		{"metric", "value"},
		{"total_records", strconv.Itoa(s.TotalRecords)},
		{"observations", strconv.Itoa(s.Observations)},
		{"successes", strconv.Itoa(s.Successes)},
		{"success_rate", s.SuccessRate.String()},
		{"models", strconv.Itoa(s.ModelCount)},
		{"categories", strconv.Itoa(s.CategoryCount)},
		{"languages", strconv.Itoa(s.LanguageCount)},
	}
	return w.WriteAll(rows)
}

func writeCategoryStats(w *csv.Writer, categories []stats.CategoryStat) error {
	if err := w.Write([]string{"category", "count", "observations", "successes", "success_rate"}); err != nil {
		return err
	}
	for _, c := range categories {
		row := []string{
			c.Category,
			strconv.Itoa(c.Count),
			strconv.Itoa(c.Observations),
			strconv.Itoa(c.Successes),
			c.SuccessRate.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeModelTemperature(w *csv.Writer, entries []stats.ModelTemperatureStat) error {
	if err := w.Write([]string{"model", "temperature", "count", "observations", "successes", "success_rate"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Model,
			stats.FormatTemperature(e.Temperature),
			strconv.Itoa(e.Count),
			strconv.Itoa(e.Observations),
			strconv.Itoa(e.Successes),
			e.SuccessRate.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix emits the pivoted crosstab with one column per sorted column
// key. Cells whose group has no data stay empty so the CSV never invents
// a zero rate.
func writeMatrix(w *csv.Writer, m stats.Matrix) error {
	header := append([]string{m.RowLabel + "\\" + m.ColLabel}, m.Cols...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range m.Rows {
		record := make([]string, 0, len(m.Cols)+1)
		record = append(record, row)
		for _, col := range m.Cols {
			rate, ok := m.Cell(row, col)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, rate.String())
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeBreakdowns(w *csv.Writer, breakdowns []stats.ModelBreakdown) error {
	if err := w.Write([]string{"model", "category", "count", "observations", "successes", "success_rate"}); err != nil {
		return err
	}
	for _, b := range breakdowns {
		for _, c := range b.Categories {
			row := []string{
				b.Model,
				c.Category,
				strconv.Itoa(c.Count),
				strconv.Itoa(c.Observations),
				strconv.Itoa(c.Successes),
				c.SuccessRate.String(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
