// Package summarize produces the site description either by asking a chat
// model for structured JSON or, when no model is available, by synthesizing
// one locally from the extracted content.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"siteinsight/internal/extract"
	"siteinsight/internal/llm"
)

// Summary is the model-facing half of an analysis result. Metadata is
// attached by the caller regardless of how the summary was produced.
type Summary struct {
	About       string   `json:"about"`
	Purpose     string   `json:"purpose"`
	Features    []string `json:"features"`
	UserActions []string `json:"userActions"`
}

// How much extracted text is offered to the model. Enough for a verdict on
// what the site is, small enough to stay inside modest token budgets.
const promptContentLen = 3000

const defaultMaxTokens = 1000

// Summarizer asks a chat model to describe a page as structured JSON.
type Summarizer struct {
	Client    llm.Client
	Model     string
	MaxTokens int
}

// Summarize requests a JSON description of the extracted content. Any
// transport, parse, or shape failure is returned as an error; callers are
// expected to fall back to local synthesis.
func (s *Summarizer) Summarize(ctx context.Context, c extract.Content) (Summary, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return Summary{}, errors.New("summarizer not configured")
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.Model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(c)},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("summarization call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Summary{}, errors.New("empty response from model")
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	var out Summary
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Summary{}, fmt.Errorf("parse model output: %w", err)
	}
	if err := out.validate(); err != nil {
		return Summary{}, fmt.Errorf("model output: %w", err)
	}
	return out, nil
}

// validate rejects structurally incomplete model output, such as an empty
// object that unmarshals cleanly. Callers fall back to local synthesis so
// the response contract keeps all five fields populated.
func (s Summary) validate() error {
	switch {
	case strings.TrimSpace(s.About) == "":
		return errors.New(`missing "about"`)
	case strings.TrimSpace(s.Purpose) == "":
		return errors.New(`missing "purpose"`)
	case s.Features == nil:
		return errors.New(`missing "features"`)
	case s.UserActions == nil:
		return errors.New(`missing "userActions"`)
	}
	return nil
}

func buildPrompt(c extract.Content) string {
	content := c.Text
	if len(content) > promptContentLen {
		// Character cut, not byte cut: never split a rune mid-sequence.
		if runes := []rune(content); len(runes) > promptContentLen {
			content = string(runes[:promptContentLen])
		}
	}
	var b strings.Builder
	b.WriteString("Analyze this website and provide a JSON summary.\n\n")
	fmt.Fprintf(&b, "URL: %s\n", c.Metadata.URL)
	fmt.Fprintf(&b, "Title: %s\n", c.Metadata.Title)
	fmt.Fprintf(&b, "Description: %s\n", c.Metadata.Description)
	fmt.Fprintf(&b, "Headings:\n%s\n\n", strings.Join(c.Headings, "\n"))
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	b.WriteString("Respond with only a JSON object with these keys:\n")
	b.WriteString(`"about" (one sentence on what the site is), ` +
		`"purpose" (one sentence on what it is for), ` +
		`"features" (3-5 notable features), ` +
		`"userActions" (3-5 things a visitor can do)`)
	return b.String()
}

// stripFences removes a Markdown code fence wrapper; models often return
// ```json blocks even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Fixed fallback lists used when the page offers nothing better.
var (
	genericFeatures = []string{
		"Web-based content",
		"Informational pages",
		"Site navigation",
	}
	genericActions = []string{
		"Browse the site's pages",
		"Read the published content",
		"Contact the site owner",
	}
)

// Fallback synthesizes a Summary from extracted content alone. It is used
// whenever model summarization is unavailable or fails, and always yields a
// complete value.
func Fallback(c extract.Content) Summary {
	about := "A website with no readily identifiable description."
	switch {
	case c.Metadata.Title != "":
		about = c.Metadata.Title + ": " + c.Metadata.Description
	case c.Metadata.Description != "":
		about = c.Metadata.Description
	}

	features := genericFeatures
	if len(c.Headings) > 0 {
		features = c.Headings
		if len(features) > 5 {
			features = features[:5]
		}
	}

	return Summary{
		About:       about,
		Purpose:     "Provides information and services to its visitors.",
		Features:    features,
		UserActions: genericActions,
	}
}
