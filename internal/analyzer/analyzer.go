package analyzer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kaedeh1ra/QR-Detector/internal/logger"
	"github.com/kaedeh1ra/QR-Detector/internal/model"
	"github.com/kaedeh1ra/QR-Detector/internal/reputation"
	"github.com/kaedeh1ra/QR-Detector/internal/util"
)

// PlainTextDetails explains an INFO result.
const PlainTextDetails = "not a link, treated as plain text"

// Resolver follows a URL's redirect chain.
type Resolver interface {
	Resolve(ctx context.Context, start string) (string, []model.ChainLink)
}

// Classifier produces a reputation verdict for a URL.
type Classifier interface {
	Classify(ctx context.Context, finalURL string) reputation.Verdict
}

// TitleFetcher fetches a page title, returning nil when there is none.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, target string) *string
}

// Analyzer runs the resolve, classify and title steps for one scanned payload.
// It holds no per-call state and may be shared.
type Analyzer struct {
	resolver   Resolver
	classifier Classifier
	titles     TitleFetcher
	logger     zerolog.Logger
}

func New(r Resolver, c Classifier, t TitleFetcher, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		resolver:   r,
		classifier: c,
		titles:     t,
		logger:     logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze always returns a well-formed result; component failures are reflected in it.
func (a *Analyzer) Analyze(ctx context.Context, input string) model.AnalysisResult {
	if !util.IsWebURL(input) {
		logger.FromContext(ctx, a.logger).Debug().Int("length", len(input)).Msg("plain text payload")
		return model.AnalysisResult{
			Content:       input,
			RedirectChain: []model.ChainLink{},
			RiskLevel:     model.RiskInfo,
			Details:       PlainTextDetails,
		}
	}

	finalURL, chain := a.resolver.Resolve(ctx, util.NormalizeWebURL(input))
	verdict := a.classifier.Classify(ctx, finalURL)

	var title *string
	if !verdict.Risk.IsDangerous() {
		title = a.titles.FetchTitle(ctx, finalURL)
	}

	logger.FromContext(ctx, a.logger).Info().
		Str("final_url", finalURL).
		Int("hops", len(chain)).
		Str("risk", verdict.Risk.String()).
		Str("rule", verdict.Rule).
		Msg("analysis complete")

	return model.AnalysisResult{
		Content:        input,
		IsURL:          true,
		FinalURL:       &finalURL,
		RedirectChain:  chain,
		RiskLevel:      verdict.Risk,
		Title:          title,
		Details:        verdict.Message,
		CommunityScore: verdict.CommunityScore,
		MaliciousCount: verdict.MaliciousCount,
	}
}
