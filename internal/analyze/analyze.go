// Package analyze composes normalization, fetching, extraction, and
// summarization into the per-request analysis pipeline.
package analyze

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"siteinsight/internal/extract"
	"siteinsight/internal/summarize"
	"siteinsight/internal/urlnorm"
)

// Client-input failures. The server maps these to 400 responses; anything
// else out of Analyze is an internal error.
var (
	ErrMissingURL  = errors.New("URL is required")
	ErrInvalidURL  = errors.New("please provide a valid URL")
	ErrFetchFailed = errors.New("could not retrieve the website content; the site may be blocking automated requests or be unreachable")
)

// Result is the response contract: all five fields are always present,
// whichever path produced them.
type Result struct {
	About       string               `json:"about"`
	Purpose     string               `json:"purpose"`
	Features    []string             `json:"features"`
	UserActions []string             `json:"userActions"`
	Metadata    extract.PageMetadata `json:"metadata"`
}

// Fetcher retrieves a page body for a normalized URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Summarizer produces a model-derived summary of extracted content.
type Summarizer interface {
	Summarize(ctx context.Context, c extract.Content) (summarize.Summary, error)
}

// Analyzer runs the analysis pipeline for a single URL. A nil Summarizer
// means no model is configured and every request uses local synthesis.
type Analyzer struct {
	Fetcher    Fetcher
	Summarizer Summarizer
}

// Analyze validates and normalizes rawURL, fetches and extracts the page,
// and summarizes it. Summarizer failures are absorbed: the request still
// succeeds with a locally synthesized result.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (Result, error) {
	if rawURL == "" {
		return Result{}, ErrMissingURL
	}
	normalized, ok := urlnorm.Normalize(rawURL)
	if !ok || !urlnorm.IsValid(normalized) {
		return Result{}, ErrInvalidURL
	}

	body, err := a.Fetcher.Get(ctx, normalized)
	if err != nil {
		log.Warn().Str("url", normalized).Err(err).Msg("fetch failed")
		return Result{}, ErrFetchFailed
	}

	content := extract.FromHTML(body, normalized)

	summary := a.summarize(ctx, content)
	return Result{
		About:       summary.About,
		Purpose:     summary.Purpose,
		Features:    summary.Features,
		UserActions: summary.UserActions,
		Metadata:    content.Metadata,
	}, nil
}

func (a *Analyzer) summarize(ctx context.Context, content extract.Content) summarize.Summary {
	if a.Summarizer == nil {
		log.Debug().Str("url", content.Metadata.URL).Msg("no model configured; using basic analysis")
		return summarize.Fallback(content)
	}
	summary, err := a.Summarizer.Summarize(ctx, content)
	if err != nil {
		// Absorbed: the caller still gets a complete result.
		log.Warn().Str("url", content.Metadata.URL).Err(err).Msg("model summarization failed; falling back to basic analysis")
		return summarize.Fallback(content)
	}
	return summary
}
