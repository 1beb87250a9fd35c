package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/kaedeh1ra/QR-Detector/internal/config"
)

// Config holds settings for the HTTP client.
type Config struct {
	Timeout         time.Duration
	Proxy           func(*http.Request) (*url.URL, error)
	Headers         http.Header
	UserAgent       string
	Insecure        bool
	EnableHTTP2     bool
	FollowRedirects bool
	Logger          zerolog.Logger
}

// FromConfig translates the application HTTP section into a client Config.
func FromConfig(cfg config.HTTPConfig, logger zerolog.Logger) (Config, error) {
	c := Config{
		Timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		UserAgent:   cfg.UserAgent,
		Insecure:    cfg.Insecure,
		EnableHTTP2: cfg.EnableHTTP2,
		Headers:     make(http.Header, len(cfg.Headers)),
		Logger:      logger,
	}
	for k, v := range cfg.Headers {
		c.Headers.Set(k, v)
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return Config{}, fmt.Errorf("invalid proxy URL: %w", err)
		}
		c.Proxy = http.ProxyURL(proxyURL)
	}
	return c, nil
}

// headerRoundTripper wraps a base RoundTripper to inject default headers and log each
// exchange. It performs exactly one attempt per request.
type headerRoundTripper struct {
	base      http.RoundTripper
	headers   http.Header
	userAgent string
	logger    zerolog.Logger
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	for k, vs := range h.headers {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if h.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", h.userAgent)
	}

	start := time.Now()
	resp, err := h.base.RoundTrip(r)
	elapsed := time.Since(start)
	if err != nil {
		h.logger.Debug().Err(err).Str("method", r.Method).Str("url", r.URL.String()).Dur("elapsed", elapsed).Msg("request failed")
		return nil, err
	}
	h.logger.Debug().Str("method", r.Method).Str("url", r.URL.String()).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("request done")
	return resp, nil
}

// New returns a configured HTTP client. Unless FollowRedirects is set, redirects are
// returned to the caller as-is.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			cfg.Logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	client := &http.Client{
		Transport: &headerRoundTripper{
			base:      transport,
			headers:   cfg.Headers,
			userAgent: cfg.UserAgent,
			logger:    cfg.Logger.With().Str("component", "httpclient").Logger(),
		},
		Timeout: cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
