package trace

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
	"github.com/kaedeh1ra/QR-Detector/internal/model"
)

// DefaultMaxHops bounds the number of redirects followed per resolution.
const DefaultMaxHops = 8

// Tracer performs manual, hop-by-hop redirect resolution.
type Tracer struct {
	Client  *http.Client
	MaxHops int
	logger  zerolog.Logger
}

// New creates a new Tracer. The client must not follow redirects on its own.
func New(c *http.Client, maxHops int, logger zerolog.Logger) *Tracer {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Tracer{Client: c, MaxHops: maxHops, logger: logger.With().Str("component", "trace").Logger()}
}

// chain accumulates hops for a single resolution. Only the last link is ever rewritten.
type chain struct {
	links []model.ChainLink
}

func (c *chain) push(u, status string) {
	c.links = append(c.links, model.ChainLink{URL: u, Status: status})
}

func (c *chain) settle(status string, code int) {
	last := c.links[len(c.links)-1]
	last.Status = status
	last.Code = code
	c.links[len(c.links)-1] = last
}

func (c *chain) lastStatus() string { return c.links[len(c.links)-1].Status }

// Resolve follows redirects starting from start and returns the last URL reached together
// with the visited chain. It never fails: transport errors end the chain with an
// access-error entry.
func (t *Tracer) Resolve(ctx context.Context, start string) (string, []model.ChainLink) {
	ch := &chain{links: make([]model.ChainLink, 0, 4)}
	ch.push(start, model.StatusInitial)
	current := start

	for hopsRemaining := t.MaxHops; hopsRemaining > 0; {
		code, loc, err := t.head(ctx, current)
		if err != nil {
			logger.FromContext(ctx, t.logger).Debug().Err(err).Str("url", current).Msg("hop failed")
			ch.settle(model.StatusAccessError, 0)
			break
		}

		if code >= 300 && code < 400 && loc != "" {
			ch.settle(model.RedirectStatus(code), code)
			next := resolveLocation(current, loc)
			ch.push(next, model.StatusInTransit)
			current = next
			hopsRemaining--
			continue
		}

		ch.settle(model.FinalStatus(code), code)
		break
	}

	if ch.lastStatus() == model.StatusInTransit {
		logger.FromContext(ctx, t.logger).Debug().Str("url", current).Int("max_hops", t.MaxHops).Msg("hop limit reached")
		ch.settle(model.StatusHopLimit, 0)
	}
	return current, ch.links
}

func (t *Tracer) head(ctx context.Context, target string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, "", err
	}
	start := time.Now()
	resp, err := t.Client.Do(req)
	if err != nil {
		return 0, "", err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	logger.FromContext(ctx, t.logger).Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Int64("time_ms", time.Since(start).Milliseconds()).
		Msg("hop")
	return resp.StatusCode, resp.Header.Get("Location"), nil
}

// resolveLocation resolves loc against the URL of the hop that returned it. A location that
// cannot be parsed is used verbatim.
func resolveLocation(current, loc string) string {
	ref, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	base, err := url.Parse(current)
	if err != nil {
		return loc
	}
	return base.ResolveReference(ref).String()
}
