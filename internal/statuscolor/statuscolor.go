package statuscolor

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
)

func riskColor(r model.RiskLevel) *color.Color {
	switch r {
	case model.RiskSafe:
		return green
	case model.RiskSuspicious:
		return yellow
	case model.RiskDangerous:
		return red
	case model.RiskInfo:
		return cyan
	default:
		return gray
	}
}

func codeColor(code int) *color.Color {
	switch {
	case code == 0:
		return gray
	case code >= 300 && code < 400:
		return green
	case code >= 400:
		return red
	default:
		return yellow
	}
}

// Risk returns a colorized risk level.
func Risk(r model.RiskLevel) string {
	return riskColor(r).Sprint(r.String())
}

// Link returns a colorized chain status. Hops without a status code are gray.
func Link(l model.ChainLink) string {
	return codeColor(l.Code).Sprint(l.Status)
}

// Gray wraps the provided text in gray.
func Gray(text string) string {
	return gray.Sprint(text)
}

// PrintResult writes a human readable view of res to w.
func PrintResult(w io.Writer, res model.AnalysisResult) {
	fmt.Fprintf(w, "[+] Content: %s\n", res.Content)
	fmt.Fprintf(w, "    Risk:    %s %s\n", Risk(res.RiskLevel), Gray("("+res.Details+")"))
	if !res.IsURL {
		return
	}
	for i, link := range res.RedirectChain {
		arrow := "↪"
		if i == 0 {
			arrow = "•"
		}
		fmt.Fprintf(w, "    %s [%d] %s %s\n", arrow, i, link.URL, Link(link))
	}
	fmt.Fprintf(w, "    Final:   %s\n", res.FinalURLOr(""))
	if res.Title != nil {
		fmt.Fprintf(w, "    Title:   %s\n", *res.Title)
	}
	fmt.Fprintf(w, "    Score:   community %d, malicious %d\n", res.CommunityScore, res.MaliciousCount)
}

// PrintSummary writes per-risk counters in a fixed order.
func PrintSummary(w io.Writer, results []model.AnalysisResult) {
	order := []model.RiskLevel{model.RiskSafe, model.RiskSuspicious, model.RiskDangerous, model.RiskUnknown, model.RiskInfo}
	counts := make(map[model.RiskLevel]int, len(order))
	for _, r := range results {
		counts[r.RiskLevel]++
	}
	parts := make([]string, 0, len(order))
	for _, lvl := range order {
		parts = append(parts, fmt.Sprintf("%s=%d", Risk(lvl), counts[lvl]))
	}
	fmt.Fprintf(w, "[=] %d scanned: %s\n", len(results), strings.Join(parts, " "))
}
