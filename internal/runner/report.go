package runner

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteJSON writes the report as a JSON artifact under dir and returns
// the file path.
func WriteJSON(report *RunReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results_%s.json", report.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtDuration": func(d time.Duration) string {
		return d.Round(time.Microsecond).String()
	},
	"fmtTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05 UTC")
	},
	"join": strings.Join,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Run Report: {{.Suite}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
.summary { margin: 1em 0; }
.summary span { display: inline-block; margin-right: 1.5em; padding: 0.3em 0.8em; border-radius: 4px; }
.passed { background: #e6f4ea; color: #137333; }
.failed { background: #fce8e6; color: #c5221f; }
.skipped { background: #fef7e0; color: #b06000; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.5em 0.8em; border-bottom: 1px solid #ddd; }
th { background: #f8f9fa; }
td.status-passed { color: #137333; }
td.status-failed { color: #c5221f; }
td.status-skipped { color: #b06000; }
.error { font-family: monospace; font-size: 0.85em; color: #c5221f; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Run Report: {{.Suite}}</h1>
<p class="meta">Run {{.RunID}} &middot; started {{fmtTime .StartedAt}} &middot; took {{fmtDuration .Duration}}</p>
<div class="summary">
<span class="passed">{{.Passed}} passed</span>
<span class="failed">{{.Failed}} failed</span>
<span class="skipped">{{.Skipped}} skipped</span>
</div>
<table>
<tr><th>Check</th><th>Status</th><th>Duration</th><th>Tags</th><th>Error</th></tr>
{{range .Results}}<tr>
<td>{{.Name}}</td>
<td class="status-{{.Status}}">{{.Status}}</td>
<td>{{fmtDuration .Duration}}</td>
<td>{{join .Tags ", "}}</td>
<td class="error">{{.Error}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTML writes a self-contained HTML summary page under dir and
// returns the file path.
func WriteHTML(report *RunReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results_%s.html", report.RunID))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return path, nil
}

// WriteReports writes the report in each requested format ("json",
// "html") and returns the written file paths.
func WriteReports(report *RunReport, dir string, formats []string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		var path string
		var err error
		switch strings.ToLower(format) {
		case "json":
			path, err = WriteJSON(report, dir)
		case "html":
			path, err = WriteHTML(report, dir)
		default:
			return paths, fmt.Errorf("unsupported report format: %s", format)
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
