package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"

	"github.com/clram/resultviz/internal/stats"
)

// reportData is the view model for the standalone HTML report.
type reportData struct {
	Title         string
	Summary       stats.Summary
	Charts        []string
	Tables        []string
	CatalogueJSON template.JS
}

// WriteHTMLReport renders a self-contained report page (index.html) inside
// the session directory, linking every chart and table the run produced and
// embedding the full aggregate catalogue as JSON for in-page inspection.
func WriteHTMLReport(session *Session, catalogue stats.Catalogue) error {
	charts, err := session.Charts()
	if err != nil {
		return err
	}
	tables, err := session.Tables()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(catalogue)
	if err != nil {
		return err
	}

	data := reportData{
		Title:         "resultviz: Experiment Results Report",
		Summary:       catalogue.Summary,
		Charts:        charts,
		Tables:        tables,
		CatalogueJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(session.Dir, "index.html"), buf.Bytes(), 0o644)
}

var reportTemplate = template.Must(template.New("results-report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    body { background-color: #F1F5F9; color: #0F172A; }
    .card { border: 1px solid #E2E8F0; margin-bottom: 1.5rem; }
    .chart-img { max-width: 100%; border: 1px solid #E2E8F0; border-radius: 8px; }
    pre.catalogue { max-height: 420px; overflow: auto; background: #0F172A; color: #E2E8F0; padding: 1rem; border-radius: 8px; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark bg-dark mb-4">
    <div class="container"><span class="navbar-brand">{{ .Title }}</span></div>
  </nav>
  <div class="container">
    <div class="card">
      <div class="card-header">Summary</div>
      <div class="card-body">
        <table class="table table-sm table-striped mb-0">
          <tbody>
            <tr><th>Total records</th><td>{{ .Summary.TotalRecords }}</td></tr>
            <tr><th>Success observations</th><td>{{ .Summary.Observations }}</td></tr>
            <tr><th>Successes</th><td>{{ .Summary.Successes }}</td></tr>
            <tr><th>Success rate</th><td>{{ .Summary.SuccessRate.String }}</td></tr>
            <tr><th>Models</th><td>{{ .Summary.ModelCount }}</td></tr>
            <tr><th>Categories</th><td>{{ .Summary.CategoryCount }}</td></tr>
            <tr><th>Languages</th><td>{{ .Summary.LanguageCount }}</td></tr>
          </tbody>
        </table>
      </div>
    </div>

    <div class="card">
      <div class="card-header">Charts ({{ len .Charts }})</div>
      <div class="card-body">
        {{ range .Charts }}
        <div class="mb-4">
          <h6>{{ . }}</h6>
          <img class="chart-img" src="{{ . }}" alt="{{ . }}">
        </div>
        {{ else }}
        <p class="mb-0">No charts were generated for this run.</p>
        {{ end }}
      </div>
    </div>

    <div class="card">
      <div class="card-header">Tables ({{ len .Tables }})</div>
      <div class="card-body">
        <ul class="mb-0">
          {{ range .Tables }}
          <li><a href="{{ . }}">{{ . }}</a></li>
          {{ else }}
          <li>No tables were generated for this run.</li>
          {{ end }}
        </ul>
      </div>
    </div>

    <div class="card">
      <div class="card-header">Aggregate catalogue</div>
      <div class="card-body">
        <pre class="catalogue" id="catalogue"></pre>
      </div>
    </div>
  </div>
  <script>
    const catalogue = {{ .CatalogueJSON }};
    document.getElementById('catalogue').textContent = JSON.stringify(catalogue, null, 2);
  </script>
</body>
</html>
`
