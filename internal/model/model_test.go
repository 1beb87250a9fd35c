package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		res     AnalysisResult
		wantErr bool
	}{
		{
			name: "plainText",
			res:  AnalysisResult{Content: "hello", RiskLevel: RiskInfo},
		},
		{
			name:    "plainTextWithRisk",
			res:     AnalysisResult{Content: "hello", RiskLevel: RiskSafe},
			wantErr: true,
		},
		{
			name: "plainTextWithChain",
			res: AnalysisResult{Content: "hello", RiskLevel: RiskInfo,
				RedirectChain: []ChainLink{{URL: "hello", Status: StatusInitial}}},
			wantErr: true,
		},
		{
			name: "urlSingleHop",
			res: AnalysisResult{Content: "https://a.example", IsURL: true, RiskLevel: RiskSafe,
				FinalURL:      strPtr("https://a.example"),
				RedirectChain: []ChainLink{{URL: "https://a.example", Status: FinalStatus(200), Code: 200}}},
		},
		{
			name:    "urlEmptyChain",
			res:     AnalysisResult{Content: "https://a.example", IsURL: true, RiskLevel: RiskSafe, FinalURL: strPtr("https://a.example")},
			wantErr: true,
		},
		{
			name: "urlFinalMismatch",
			res: AnalysisResult{Content: "https://a.example", IsURL: true, RiskLevel: RiskSafe,
				FinalURL:      strPtr("https://b.example"),
				RedirectChain: []ChainLink{{URL: "https://a.example", Status: FinalStatus(200)}}},
			wantErr: true,
		},
		{
			name: "urlInTransit",
			res: AnalysisResult{Content: "https://a.example", IsURL: true, RiskLevel: RiskUnknown,
				FinalURL: strPtr("https://b.example"),
				RedirectChain: []ChainLink{
					{URL: "https://a.example", Status: RedirectStatus(302)},
					{URL: "https://b.example", Status: StatusInTransit},
				}},
			wantErr: true,
		},
		{
			name:    "badRiskLevel",
			res:     AnalysisResult{Content: "x", RiskLevel: "MAYBE"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusFormatting(t *testing.T) {
	assert.Equal(t, "HTTP 301 (Redirect)", RedirectStatus(301))
	assert.Equal(t, "HTTP 404 (Final)", FinalStatus(404))
}

func TestResultJSON(t *testing.T) {
	res := AnalysisResult{Content: "just text", RiskLevel: RiskInfo, Details: "d"}
	b, err := json.Marshal(res)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "INFO", raw["risk_level"])
	assert.NotContains(t, raw, "final_url")
	assert.NotContains(t, raw, "title")
	assert.False(t, raw["is_url"].(bool))
}
