package reputation

import (
	"fmt"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

// Stats is the subset of a reputation report the decision rules look at.
type Stats struct {
	Malicious  int
	Suspicious int
	Harmless   int
	Undetected int
	Reputation int
}

// TotalBad is the number of engines that flagged the URL in any way.
func (s Stats) TotalBad() int { return s.Malicious + s.Suspicious }

// Decision is the outcome of the first rule that matched.
type Decision struct {
	Rule    string
	Risk    model.RiskLevel
	Message string
}

// Rule is a named predicate with the verdict it yields.
type Rule struct {
	Name    string
	Match   func(Stats) bool
	Risk    model.RiskLevel
	Message func(Stats) string
}

func fixed(msg string) func(Stats) string {
	return func(Stats) string { return msg }
}

// Rules are evaluated in order; the first match wins. The last rule always matches.
var Rules = []Rule{
	{
		Name:  "critical",
		Match: func(s Stats) bool { return s.TotalBad() >= 3 },
		Risk:  model.RiskDangerous,
		Message: func(s Stats) string {
			return fmt.Sprintf("critical threat, %d detections", s.TotalBad())
		},
	},
	{
		Name:    "trusted-override",
		Match:   func(s Stats) bool { return s.TotalBad() >= 1 && s.TotalBad() <= 2 && s.Reputation >= 15 },
		Risk:    model.RiskSafe,
		Message: fixed("trusted site, false-positive override"),
	},
	{
		Name:    "high-trust",
		Match:   func(s Stats) bool { return s.Reputation >= 50 },
		Risk:    model.RiskSafe,
		Message: fixed("high community trust"),
	},
	{
		Name:    "threat",
		Match:   func(s Stats) bool { return s.TotalBad() >= 1 },
		Risk:    model.RiskDangerous,
		Message: fixed("threat detected"),
	},
	{
		Name:    "poor-reputation",
		Match:   func(s Stats) bool { return s.Reputation < -5 },
		Risk:    model.RiskSuspicious,
		Message: fixed("poor community reputation"),
	},
	{
		Name:    "clean",
		Match:   func(Stats) bool { return true },
		Risk:    model.RiskSafe,
		Message: fixed("clean"),
	},
}

// Decide runs the rule table against s.
func Decide(s Stats) Decision {
	for _, r := range Rules {
		if r.Match(s) {
			return Decision{Rule: r.Name, Risk: r.Risk, Message: r.Message(s)}
		}
	}
	// unreachable while "clean" terminates the table
	return Decision{Rule: "clean", Risk: model.RiskSafe, Message: "clean"}
}
