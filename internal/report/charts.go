package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/clram/resultviz/internal/stats"
)

const (
	chartWidth  = 960
	chartHeight = 540
)

// WriteCharts renders the catalogue's chartable aggregates to PNG files in
// the session directory: one progression line chart per model, a category
// success-rate bar chart, and a global success pie.
func WriteCharts(session *Session, catalogue stats.Catalogue) error {
	for _, progression := range catalogue.Progression {
		if err := writeProgressionChart(session.Dir, progression); err != nil {
			return fmt.Errorf("progression chart for %s: %w", progression.Model, err)
		}
	}
	if err := writeCategoryChart(session.Dir, catalogue.Categories); err != nil {
		return fmt.Errorf("category chart: %w", err)
	}
	if err := writeSuccessPie(session.Dir, catalogue.Summary); err != nil {
		return fmt.Errorf("success pie: %w", err)
	}
	return nil
}

func writeProgressionChart(dir string, progression stats.ModelProgression) error {
	var xs, ys []float64
	for _, point := range progression.Points {
		if !point.CumulativeRate.Valid {
			continue
		}
		xs = append(xs, float64(point.Index))
		ys = append(ys, point.CumulativeRate.Value)
	}
	// go-chart cannot render a single-point series.
	if len(xs) < 2 {
		return nil
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("%s: success rate progression", progression.Model),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "test index"},
		YAxis:  chart.YAxis{Name: "cumulative success rate", Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    progression.Model,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2},
			},
		},
	}

	return renderPNG(filepath.Join(dir, "progression_"+slug(progression.Model)+".png"), ch.Render)
}

func writeCategoryChart(dir string, categories []stats.CategoryStat) error {
	var bars []chart.Value
	for _, category := range categories {
		if !category.SuccessRate.Valid {
			continue
		}
		bars = append(bars, chart.Value{Label: category.Category, Value: category.SuccessRate.Value})
	}
	if len(bars) == 0 {
		return nil
	}

	ch := chart.BarChart{
		Title:    "Success rate by category",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 48,
		YAxis:    chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Bars:     bars,
	}

	return renderPNG(filepath.Join(dir, "category_success.png"), ch.Render)
}

func writeSuccessPie(dir string, summary stats.Summary) error {
	if summary.Observations == 0 {
		return nil
	}
	failures := summary.Observations - summary.Successes

	var values []chart.Value
	if summary.Successes > 0 {
		values = append(values, chart.Value{Label: fmt.Sprintf("success (%d)", summary.Successes), Value: float64(summary.Successes)})
	}
	if failures > 0 {
		values = append(values, chart.Value{Label: fmt.Sprintf("failure (%d)", failures), Value: float64(failures)})
	}

	ch := chart.PieChart{
		Title:  "Overall outcomes",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}

	return renderPNG(filepath.Join(dir, "overall_outcomes.png"), ch.Render)
}

func renderPNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render(chart.PNG, f)
}

// slug makes a model name safe for a file name.
func slug(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)
	return strings.Trim(mapped, "_")
}
