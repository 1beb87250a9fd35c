package reputation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

// DefaultBaseURL is the VirusTotal API v3 root.
const DefaultBaseURL = "https://www.virustotal.com/api/v3"

// maxReportBytes caps how much of a report body is decoded.
const maxReportBytes = 4 << 20

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("reputation: API key is required")

// Verdict is the classifier's answer for one URL.
type Verdict struct {
	Risk           model.RiskLevel
	Message        string
	CommunityScore int
	MaliciousCount int
	Rule           string
}

// Classifier looks URLs up in VirusTotal and maps the report to a risk level.
type Classifier struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  zerolog.Logger
}

// New creates a Classifier. An empty baseURL selects DefaultBaseURL.
func New(client *http.Client, apiKey, baseURL string, logger zerolog.Logger) (*Classifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Classifier{
		client:  client,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "reputation").Logger(),
	}, nil
}

// LookupKey returns the URL identifier used by the /urls endpoint.
func LookupKey(u string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(u))
}

type analysisStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

type urlReport struct {
	Data *struct {
		Attributes *struct {
			Stats      *analysisStats `json:"last_analysis_stats"`
			Reputation int            `json:"reputation"`
		} `json:"attributes"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func unknown(msg string) Verdict {
	return Verdict{Risk: model.RiskUnknown, Message: msg}
}

// Classify never fails; lookup problems yield an UNKNOWN verdict.
func (c *Classifier) Classify(ctx context.Context, finalURL string) Verdict {
	endpoint := c.baseURL + "/urls/" + LookupKey(finalURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.FromContext(ctx, c.logger).Error().Err(err).Msg("build lookup request")
		return unknown("error: " + err.Error())
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logger.FromContext(ctx, c.logger).Warn().Err(err).Str("url", finalURL).Msg("lookup failed")
		return unknown("error: " + err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		logger.FromContext(ctx, c.logger).Warn().Int("status", resp.StatusCode).Msg("reputation service rejected API key")
		return unknown("authentication error")
	case http.StatusNotFound:
		return Verdict{Risk: model.RiskSafe, Message: "not previously seen", Rule: "unseen"}
	}

	var report urlReport
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReportBytes)).Decode(&report); err != nil {
		logger.FromContext(ctx, c.logger).Warn().Err(err).Int("status", resp.StatusCode).Msg("decode report")
		return unknown("no statistics available")
	}
	if report.Data == nil || report.Data.Attributes == nil || report.Data.Attributes.Stats == nil {
		msg := "no statistics available"
		if report.Error != nil && report.Error.Message != "" {
			msg = fmt.Sprintf("%s: %s", msg, report.Error.Message)
		}
		logger.FromContext(ctx, c.logger).Debug().Int("status", resp.StatusCode).Str("details", msg).Msg("report without stats")
		return unknown(msg)
	}

	attrs := report.Data.Attributes
	stats := Stats{
		Malicious:  attrs.Stats.Malicious,
		Suspicious: attrs.Stats.Suspicious,
		Harmless:   attrs.Stats.Harmless,
		Undetected: attrs.Stats.Undetected,
		Reputation: attrs.Reputation,
	}
	d := Decide(stats)
	logger.FromContext(ctx, c.logger).Debug().
		Str("url", finalURL).
		Str("rule", d.Rule).
		Int("malicious", stats.Malicious).
		Int("suspicious", stats.Suspicious).
		Int("reputation", stats.Reputation).
		Msg("classified")

	return Verdict{
		Risk:           d.Risk,
		Message:        d.Message,
		CommunityScore: stats.Reputation,
		MaliciousCount: stats.Malicious,
		Rule:           d.Rule,
	}
}
