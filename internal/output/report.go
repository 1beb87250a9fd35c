package output

import (
	"bufio"
	"encoding/json"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
	"github.com/kaedeh1ra/QR-Detector/internal/util"
)

// Record represents one line in the JSONL report.
type Record struct {
	ScanID         string            `json:"scan_id"`
	Timestamp      string            `json:"timestamp"`
	Input          string            `json:"input"`
	IsURL          bool              `json:"is_url"`
	FinalURL       string            `json:"final_url,omitempty"`
	Risk           model.RiskLevel   `json:"risk"`
	Details        string            `json:"details"`
	CommunityScore int               `json:"community_score"`
	MaliciousCount int               `json:"malicious_count"`
	RedirectChain  []model.ChainLink `json:"redirect_chain"`
	Title          string            `json:"title,omitempty"`
	CrossDomain    bool              `json:"cross_domain"`
}

// Summary contains counters for the summary section.
type Summary struct {
	Total       int
	Safe        int
	Suspicious  int
	Dangerous   int
	Unknown     int
	Info        int
	CrossDomain int
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Records       []Record
}

// Param represents a rendered CLI argument/value pair.
type Param struct {
	Key   string
	Value string
}

// IsCrossDomain reports whether a URL result ended on a different registrable domain
// than it started on.
func IsCrossDomain(res model.AnalysisResult) bool {
	if !res.IsURL || len(res.RedirectChain) == 0 {
		return false
	}
	return !util.SameBaseDomain(res.RedirectChain[0].URL, res.FinalURLOr(res.Content))
}

// BuildRecord converts an analysis result into a Record stamped with at.
func BuildRecord(res model.AnalysisResult, at time.Time) Record {
	rec := Record{
		ScanID:         uuid.NewString(),
		Timestamp:      at.UTC().Format(time.RFC3339),
		Input:          res.Content,
		IsURL:          res.IsURL,
		FinalURL:       res.FinalURLOr(""),
		Risk:           res.RiskLevel,
		Details:        res.Details,
		CommunityScore: res.CommunityScore,
		MaliciousCount: res.MaliciousCount,
		RedirectChain:  append([]model.ChainLink{}, res.RedirectChain...),
		CrossDomain:    IsCrossDomain(res),
	}
	if res.Title != nil {
		rec.Title = *res.Title
	}
	return rec
}

// BuildRecords stamps every result with the same time.
func BuildRecords(results []model.AnalysisResult, at time.Time) []Record {
	out := make([]Record, len(results))
	for i, res := range results {
		out[i] = BuildRecord(res, at)
	}
	return out
}

// BuildSummary derives counters from the records.
func BuildSummary(records []Record) Summary {
	sum := Summary{Total: len(records)}
	for _, rec := range records {
		switch rec.Risk {
		case model.RiskSafe:
			sum.Safe++
		case model.RiskSuspicious:
			sum.Suspicious++
		case model.RiskDangerous:
			sum.Dangerous++
		case model.RiskUnknown:
			sum.Unknown++
		case model.RiskInfo:
			sum.Info++
		}
		if rec.CrossDomain {
			sum.CrossDomain++
		}
	}
	return sum
}

// WriteJSONL writes each record as a JSON line to w.
func WriteJSONL(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"riskClass": func(r model.RiskLevel) string {
		switch r {
		case model.RiskSafe:
			return "safe"
		case model.RiskSuspicious:
			return "suspicious"
		case model.RiskDangerous:
			return "dangerous"
		default:
			return "neutral"
		}
	},
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; }
h2 { font-size:20px; margin:0 0 12px; }
h3 { font-size:16px; margin:12px 0 6px; word-break:break-all; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(150px,1fr)); }
.summary-card { padding:12px; border-radius:12px; border:1px solid #cbd5f5; }
.summary-card .count { float:right; font-weight:700; }
.meta { color:#6b7280; font-size:12px; }
.scan-row { border-top:1px solid #e5e7eb; padding-top:12px; margin-top:12px; }
.risk { display:inline-block; padding:2px 8px; border-radius:999px; font-size:12px; margin-left:6px; color:#fff; }
.risk.safe { background:#16a34a; }
.risk.suspicious { background:#d97706; }
.risk.dangerous { background:#dc2626; }
.risk.neutral { background:#64748b; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; }
.chain-url { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; word-break:break-all; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; }
        .meta { color:#94a3b8; }
}
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <div class="summary-card">Total<span class="count">{{.Summary.Total}}</span></div>
    <div class="summary-card">Safe<span class="count">{{.Summary.Safe}}</span></div>
    <div class="summary-card">Suspicious<span class="count">{{.Summary.Suspicious}}</span></div>
    <div class="summary-card">Dangerous<span class="count">{{.Summary.Dangerous}}</span></div>
    <div class="summary-card">Unknown<span class="count">{{.Summary.Unknown}}</span></div>
    <div class="summary-card">Plain text<span class="count">{{.Summary.Info}}</span></div>
    <div class="summary-card">Cross-domain<span class="count">{{.Summary.CrossDomain}}</span></div>
  </div>
</section>
{{- if .OrderedParams}}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="chain-url">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
{{- end}}
<section id="scans" class="section">
  <h2>Scans</h2>
  {{range .Records}}
  <div class="scan-row" id="scan-{{.ScanID}}">
    <h3>{{.Input}}<span class="risk {{riskClass .Risk}}">{{.Risk}}</span></h3>
    <p>{{.Details}}</p>
    {{if .IsURL}}
    <p class="meta">Final URL: <span class="chain-url">{{.FinalURL}}</span>{{if .CrossDomain}} (cross-domain){{end}}</p>
    {{if .Title}}<p class="meta">Title: {{.Title}}</p>{{end}}
    <p class="meta">Community score {{.CommunityScore}}, malicious detections {{.MaliciousCount}}</p>
    <table class="table">
      <thead><tr><th>#</th><th>URL</th><th>Status</th></tr></thead>
      <tbody>
      {{range $i, $link := .RedirectChain}}
        <tr><td>{{$i}}</td><td class="chain-url">{{$link.URL}}</td><td>{{$link.Status}}</td></tr>
      {{end}}
      </tbody>
    </table>
    {{end}}
  </div>
  {{end}}
</section>
<footer class="footer">
  QR-Detector report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
