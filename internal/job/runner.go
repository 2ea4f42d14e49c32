package job

import (
	"errors"
	"fmt"

	"github.com/clram/resultviz/internal/logging"
	"github.com/clram/resultviz/internal/report"
	"github.com/clram/resultviz/internal/results"
	"github.com/clram/resultviz/internal/stats"
)

// ErrAlreadyRunning is returned by Start while a previous run is active.
var ErrAlreadyRunning = errors.New("a generation job is already running")

// Result is what a completed run hands back to synchronous callers.
type Result struct {
	Table     results.Table
	Catalogue stats.Catalogue
	Report    stats.StageReport
	Session   *report.Session
	Warnings  []string
}

// Runner executes generation jobs against a fixed output root. The zero
// value is not usable; construct with NewRunner.
type Runner struct {
	outputRoot string
	status     *Status
}

// NewRunner returns a runner writing sessions under outputRoot.
func NewRunner(outputRoot string) *Runner {
	return &Runner{outputRoot: outputRoot, status: NewStatus()}
}

// Status exposes the runner's status object for polling.
func (r *Runner) Status() *Status { return r.status }

// Start launches Generate in a goroutine. It fails fast when a run is
// already active; status tracking captures everything else.
func (r *Runner) Start(inputPath string) error {
	if !r.status.begin() {
		return ErrAlreadyRunning
	}
	go func() {
		_, _ = r.run(inputPath)
	}()
	return nil
}

// Generate runs the whole pipeline synchronously: parse, normalize,
// aggregate, then write tables, charts, and the HTML report. Structural
// pipeline errors are terminal; individual rendering stages are best-effort
// and collected as warnings.
func (r *Runner) Generate(inputPath string) (*Result, error) {
	if !r.status.begin() {
		return nil, ErrAlreadyRunning
	}
	return r.run(inputPath)
}

func (r *Runner) run(inputPath string) (*Result, error) {
	r.status.update(5, "Loading data...")
	logging.LogStage("load", "input=%s", inputPath)

	table, err := results.LoadTable(inputPath)
	if err != nil {
		logging.LogStage("load", "terminal error: %v", err)
		r.status.fail(err)
		return nil, err
	}

	r.status.update(10, fmt.Sprintf("Loaded %d records", len(table)))

	session, err := report.NewSession(r.outputRoot)
	if err != nil {
		r.status.fail(err)
		return nil, err
	}
	r.status.setOutputDir(session.Dir)
	r.status.update(15, "Computing aggregates...")

	catalogue, stageReport := stats.Compute(table)
	for _, failed := range stageReport.Failed() {
		r.warnStage(failed.Name, errors.New(failed.Error))
	}

	result := &Result{
		Table:     table,
		Catalogue: catalogue,
		Report:    stageReport,
		Session:   session,
	}

	r.status.update(40, "Writing statistical tables...")
	if err := report.WriteTables(session, table, catalogue); err != nil {
		r.warnStage("tables", err)
	}

	r.status.update(70, "Rendering charts...")
	if err := report.WriteCharts(session, catalogue); err != nil {
		r.warnStage("charts", err)
	}

	r.status.update(95, "Generating HTML report...")
	if err := report.WriteHTMLReport(session, catalogue); err != nil {
		r.warnStage("report", err)
	}

	charts, err := session.Charts()
	if err != nil {
		r.warnStage("collect", err)
	}
	tables, err := session.Tables()
	if err != nil {
		r.warnStage("collect", err)
	}

	message := fmt.Sprintf("Complete! Generated %d charts and %d tables", len(charts), len(tables))
	r.status.finish(charts, tables, message)
	logging.LogStage("done", "%s", message)

	result.Warnings = r.status.Snapshot().Warnings
	return result, nil
}

// warnStage records a stage failure without interrupting the run.
func (r *Runner) warnStage(stage string, err error) {
	logging.LogStage(stage, "stage failed: %v", err)
	r.status.warn(fmt.Sprintf("%s: %v", stage, err))
}
