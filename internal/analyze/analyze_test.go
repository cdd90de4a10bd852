package analyze

import (
	"context"
	"errors"
	"testing"

	"siteinsight/internal/extract"
	"siteinsight/internal/fetch"
	"siteinsight/internal/summarize"
)

type fakeFetcher struct {
	gotURL string
	body   []byte
	err    error
}

func (f *fakeFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.gotURL = url
	return f.body, f.err
}

type fakeSummarizer struct {
	summary summarize.Summary
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, c extract.Content) (summarize.Summary, error) {
	return f.summary, f.err
}

const samplePage = `<html><head><title>Foo</title><meta name="description" content="Bar"></head>` +
	`<body><h1>Baz</h1><p>Baz text here that goes on long enough to matter for extraction.</p></body></html>`

func TestAnalyze_MissingURL(t *testing.T) {
	a := &Analyzer{Fetcher: &fakeFetcher{}}
	if _, err := a.Analyze(context.Background(), ""); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
}

func TestAnalyze_InvalidURL(t *testing.T) {
	a := &Analyzer{Fetcher: &fakeFetcher{}}
	for _, in := range []string{"ftp://files.example.com", "://"} {
		if _, err := a.Analyze(context.Background(), in); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("input %q: expected ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestAnalyze_NormalizesBeforeFetching(t *testing.T) {
	ff := &fakeFetcher{body: []byte(samplePage)}
	a := &Analyzer{Fetcher: ff}
	if _, err := a.Analyze(context.Background(), "example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ff.gotURL != "https://example.com/" {
		t.Fatalf("expected normalized URL passed to fetcher, got %q", ff.gotURL)
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	a := &Analyzer{Fetcher: &fakeFetcher{err: fetch.ErrFetchFailed}}
	if _, err := a.Analyze(context.Background(), "https://example.com/"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestAnalyze_BasicTierWithoutSummarizer(t *testing.T) {
	a := &Analyzer{Fetcher: &fakeFetcher{body: []byte(samplePage)}}
	res, err := a.Analyze(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.About != "Foo: Bar" {
		t.Fatalf("unexpected about %q", res.About)
	}
	if len(res.Features) == 0 || res.Features[0] != "Baz" {
		t.Fatalf("expected heading-derived features, got %v", res.Features)
	}
	if len(res.UserActions) != 3 {
		t.Fatalf("expected fixed 3-item action list, got %v", res.UserActions)
	}
	if res.Metadata.Title != "Foo" || res.Metadata.URL != "https://example.com/" {
		t.Fatalf("unexpected metadata %+v", res.Metadata)
	}
}

func TestAnalyze_ModelTier(t *testing.T) {
	fs := &fakeSummarizer{summary: summarize.Summary{
		About:       "Model about",
		Purpose:     "Model purpose",
		Features:    []string{"f1", "f2", "f3"},
		UserActions: []string{"a1", "a2", "a3"},
	}}
	a := &Analyzer{Fetcher: &fakeFetcher{body: []byte(samplePage)}, Summarizer: fs}
	res, err := a.Analyze(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.About != "Model about" {
		t.Fatalf("expected model summary, got %+v", res)
	}
	// Metadata always comes from extraction, not the model.
	if res.Metadata.Title != "Foo" {
		t.Fatalf("expected extracted metadata, got %+v", res.Metadata)
	}
}

func TestAnalyze_SummarizerFailureIsAbsorbed(t *testing.T) {
	fs := &fakeSummarizer{err: errors.New("parse model output: bad json")}
	a := &Analyzer{Fetcher: &fakeFetcher{body: []byte(samplePage)}, Summarizer: fs}
	res, err := a.Analyze(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("expected success via fallback, got %v", err)
	}
	if res.About != "Foo: Bar" {
		t.Fatalf("expected fallback about, got %q", res.About)
	}
	if len(res.Features) == 0 || len(res.UserActions) != 3 {
		t.Fatalf("expected complete fallback result, got %+v", res)
	}
}
