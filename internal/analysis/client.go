// Package analysis wraps the remote text-analysis capability used by the
// diagnostic council: given a document, return ranked (term, relevance)
// pairs. The service internals are opaque to callers; this package only
// guarantees the Result contract and retry behavior.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultModel = "claude-sonnet-4-20250514"

const analysisSystemPrompt = "You are a clinical text analysis service. Given a document, you return the most relevant terms with relevance scores between 0.0 and 1.0, ranked by relevance. You do not invent facts. Return strict JSON only."

const analysisSchemaPrompt = `Required JSON schema:
{
  "keywords": [{"term":"string","relevance":"float 0.0-1.0"}],
  "entities": [{"term":"string","relevance":"float 0.0-1.0"}]
}
Include only the keys for the requested feature set.`

// Keyword is one ranked term. Relevance is in [0,1].
type Keyword struct {
	Term      string  `json:"term"`
	Relevance float64 `json:"relevance"`
}

// Result is the raw analysis output. Keywords are ordered as returned by the
// service: duplicates allowed, no sort guaranteed.
type Result struct {
	Keywords []Keyword `json:"keywords"`
	Entities []Keyword `json:"entities,omitempty"`
}

// Features selects what the capability should extract.
type Features struct {
	Entities bool
	Keywords bool
}

type Analyzer interface {
	Analyze(ctx context.Context, text string, feats Features) (Result, error)
}

// Messager is the subset of the Anthropic client we use. It exists so tests
// can inject a mock.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type ClientCreator func(apiKey string) Messager

func defaultClientCreator(apiKey string) Messager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient ClientCreator = defaultClientCreator

// Config carries the capability credentials. It is passed in explicitly at
// composition time; this package never reads the environment.
type Config struct {
	APIKey string
	Model  string
}

// AnthropicAnalyzer implements Analyzer over the Anthropic messages API.
type AnthropicAnalyzer struct {
	exec *Executor
}

func NewAnthropicAnalyzer(cfg Config) (*AnthropicAnalyzer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("analysis: api key required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	caller := &anthropicCaller{messages: newAnthropicClient(cfg.APIKey), model: model}
	return &AnthropicAnalyzer{exec: NewExecutor(caller)}, nil
}

func (a *AnthropicAnalyzer) ModelName() string { return a.exec.ModelName() }

func (a *AnthropicAnalyzer) Analyze(ctx context.Context, text string, feats Features) (Result, error) {
	var requested []string
	if feats.Entities {
		requested = append(requested, "named entities")
	}
	if feats.Keywords {
		requested = append(requested, "keyword terms")
	}
	if len(requested) == 0 {
		return Result{}, errors.New("analysis: no features requested")
	}

	out := Result{}
	prompt := fmt.Sprintf(
		"Extract %s from the document below, ranked by relevance.\n\n%s\n\nDocument:\n%s",
		strings.Join(requested, " and "),
		analysisSchemaPrompt,
		text,
	)
	if _, err := a.exec.Run(ctx, "analyze", prompt, &out, func() error { return validateResult(out, feats) }); err != nil {
		return Result{}, err
	}
	return out, nil
}

func validateResult(r Result, feats Features) error {
	if feats.Keywords && r.Keywords == nil {
		return errors.New("keywords missing")
	}
	if err := validateTerms("keyword", r.Keywords); err != nil {
		return err
	}
	return validateTerms("entity", r.Entities)
}

func validateTerms(kind string, terms []Keyword) error {
	for _, t := range terms {
		if strings.TrimSpace(t.Term) == "" {
			return fmt.Errorf("%s term empty", kind)
		}
		if t.Relevance < 0 || t.Relevance > 1 {
			return fmt.Errorf("%s relevance out of range: %v", kind, t.Relevance)
		}
	}
	return nil
}

type anthropicCaller struct {
	messages Messager
	model    string
}

func (a *anthropicCaller) ModelName() string { return a.model }

func (a *anthropicCaller) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: analysisSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
