package htmlscan

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
)

// DefaultMaxBodyBytes bounds how much of a page is read when looking for its title.
const DefaultMaxBodyBytes int64 = 1 << 20

var titleRe = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title>`)

// ExtractTitle returns the first <title> element of body with whitespace collapsed.
// Entities are left as-is. An empty title counts as missing.
func ExtractTitle(body []byte) (string, bool) {
	m := titleRe.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	title := strings.Join(strings.Fields(string(m[1])), " ")
	return title, title != ""
}

// TitleFetcher downloads pages and extracts their title.
type TitleFetcher struct {
	client       *http.Client
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewTitleFetcher creates a TitleFetcher. A non-positive limit selects DefaultMaxBodyBytes.
func NewTitleFetcher(c *http.Client, maxBodyBytes int64, logger zerolog.Logger) *TitleFetcher {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &TitleFetcher{
		client:       c,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With().Str("component", "htmlscan").Logger(),
	}
}

// FetchTitle is best effort: it returns nil on any failure or non-200 response.
func (f *TitleFetcher) FetchTitle(ctx context.Context, target string) *string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil
	}
	resp, err := f.client.Do(req)
	if err != nil {
		logger.FromContext(ctx, f.logger).Debug().Err(err).Str("url", target).Msg("title fetch failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.FromContext(ctx, f.logger).Debug().Int("status", resp.StatusCode).Str("url", target).Msg("no title for non-200 response")
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil && len(body) == 0 {
		return nil
	}
	title, ok := ExtractTitle(body)
	if !ok {
		return nil
	}
	return &title
}
