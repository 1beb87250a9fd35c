package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		stats   Stats
		rule    string
		risk    model.RiskLevel
		message string
	}{
		{"critical beats trust", Stats{Malicious: 3, Reputation: 100}, "critical", model.RiskDangerous, "critical threat, 3 detections"},
		{"critical counts suspicious", Stats{Malicious: 1, Suspicious: 3}, "critical", model.RiskDangerous, "critical threat, 4 detections"},
		{"three detections never overridden", Stats{Malicious: 2, Suspicious: 1, Reputation: 20}, "critical", model.RiskDangerous, "critical threat, 3 detections"},
		{"trusted override", Stats{Malicious: 1, Suspicious: 1, Reputation: 15}, "trusted-override", model.RiskSafe, "trusted site, false-positive override"},
		{"high trust", Stats{Reputation: 50}, "high-trust", model.RiskSafe, "high community trust"},
		{"threat below override", Stats{Malicious: 1, Reputation: 14}, "threat", model.RiskDangerous, "threat detected"},
		{"poor reputation", Stats{Reputation: -6}, "poor-reputation", model.RiskSuspicious, "poor community reputation"},
		{"borderline reputation", Stats{Reputation: -5}, "clean", model.RiskSafe, "clean"},
		{"clean", Stats{Harmless: 70, Undetected: 20}, "clean", model.RiskSafe, "clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.stats)
			assert.Equal(t, tt.rule, d.Rule)
			assert.Equal(t, tt.risk, d.Risk)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestDecidePriority(t *testing.T) {
	d := Decide(Stats{Malicious: 2, Suspicious: 0, Reputation: 20})
	assert.Equal(t, model.RiskSafe, d.Risk)
	assert.Equal(t, "trusted-override", d.Rule)

	d = Decide(Stats{Malicious: 3, Suspicious: 0, Reputation: 100})
	assert.Equal(t, model.RiskDangerous, d.Risk)
	assert.Equal(t, "critical", d.Rule)
}

func TestRulesIndividually(t *testing.T) {
	byName := make(map[string]Rule, len(Rules))
	for _, r := range Rules {
		byName[r.Name] = r
	}

	assert.True(t, byName["critical"].Match(Stats{Suspicious: 3}))
	assert.False(t, byName["critical"].Match(Stats{Malicious: 2}))

	assert.True(t, byName["trusted-override"].Match(Stats{Malicious: 2, Reputation: 15}))
	assert.False(t, byName["trusted-override"].Match(Stats{Reputation: 99}))
	assert.False(t, byName["trusted-override"].Match(Stats{Malicious: 3, Reputation: 99}))

	assert.True(t, byName["high-trust"].Match(Stats{Reputation: 50}))
	assert.False(t, byName["high-trust"].Match(Stats{Reputation: 49}))

	assert.True(t, byName["threat"].Match(Stats{Suspicious: 1}))
	assert.False(t, byName["threat"].Match(Stats{}))

	assert.True(t, byName["poor-reputation"].Match(Stats{Reputation: -6}))
	assert.False(t, byName["poor-reputation"].Match(Stats{Reputation: -5}))

	assert.True(t, byName["clean"].Match(Stats{}))
	assert.Equal(t, "clean", Rules[len(Rules)-1].Name)
}
