package model

import (
	"errors"
	"fmt"
)

// RiskLevel is the verdict assigned to a scanned QR payload.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "SAFE"
	RiskSuspicious RiskLevel = "SUSPICIOUS"
	RiskDangerous  RiskLevel = "DANGEROUS"
	RiskUnknown    RiskLevel = "UNKNOWN"
	RiskInfo       RiskLevel = "INFO"
)

// Valid reports whether r is one of the known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskSafe, RiskSuspicious, RiskDangerous, RiskUnknown, RiskInfo:
		return true
	}
	return false
}

// IsDangerous reports whether the destination must not be fetched.
func (r RiskLevel) IsDangerous() bool { return r == RiskDangerous }

func (r RiskLevel) String() string { return string(r) }

// Chain link statuses. A returned chain never carries StatusInTransit.
const (
	StatusInitial     = "Initial link"
	StatusInTransit   = "In transit"
	StatusAccessError = "Access error"
	StatusHopLimit    = "Hop limit reached"
)

// RedirectStatus formats the status of a hop that answered with a followed redirect.
func RedirectStatus(code int) string { return fmt.Sprintf("HTTP %d (Redirect)", code) }

// FinalStatus formats the status of a hop that ended the chain.
func FinalStatus(code int) string { return fmt.Sprintf("HTTP %d (Final)", code) }

// ChainLink is a single hop of a redirect chain.
type ChainLink struct {
	URL    string  `json:"url"`
	Status string  `json:"status"`
	Code   int     `json:"code,omitempty"`
	Title  *string `json:"title,omitempty"` // reserved
}

// AnalysisResult is the outcome of analysing one scanned payload.
type AnalysisResult struct {
	Content        string      `json:"content"`
	IsURL          bool        `json:"is_url"`
	FinalURL       *string     `json:"final_url,omitempty"`
	RedirectChain  []ChainLink `json:"redirect_chain"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	Title          *string     `json:"title,omitempty"`
	Details        string      `json:"details"`
	CommunityScore int         `json:"community_score"`
	MaliciousCount int         `json:"malicious_count"`
}

// FinalURLOr returns the final URL or fallback when there is none.
func (r AnalysisResult) FinalURLOr(fallback string) string {
	if r.FinalURL == nil {
		return fallback
	}
	return *r.FinalURL
}

// Validate checks the structural invariants of a result.
func (r AnalysisResult) Validate() error {
	if !r.RiskLevel.Valid() {
		return fmt.Errorf("unknown risk level %q", r.RiskLevel)
	}
	if !r.IsURL {
		switch {
		case r.RiskLevel != RiskInfo:
			return fmt.Errorf("non-URL content must be %s, got %s", RiskInfo, r.RiskLevel)
		case r.FinalURL != nil:
			return errors.New("non-URL content must not carry a final URL")
		case len(r.RedirectChain) != 0:
			return errors.New("non-URL content must not carry a redirect chain")
		}
		return nil
	}
	if len(r.RedirectChain) == 0 {
		return errors.New("URL content must carry at least the starting hop")
	}
	last := r.RedirectChain[len(r.RedirectChain)-1]
	if r.FinalURL == nil || *r.FinalURL != last.URL {
		return fmt.Errorf("final URL %q does not match last hop %q", r.FinalURLOr(""), last.URL)
	}
	for i, link := range r.RedirectChain {
		if link.Status == StatusInTransit {
			return fmt.Errorf("hop %d left in transit", i)
		}
	}
	return nil
}
