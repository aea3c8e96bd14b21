package analysis

import (
	"context"
	"fmt"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type mockMessager struct {
	responses []*anthropic.Message
	errs      []error
	idx       int
}

func (m *mockMessager) New(_ context.Context, _ anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	i := m.idx
	m.idx++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	return m.responses[i], nil
}

func newMockMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}

func withMockClient(mock *mockMessager) func() {
	old := newAnthropicClient
	newAnthropicClient = func(_ string) Messager { return mock }
	return func() { newAnthropicClient = old }
}

func TestAnthropicAnalyzerParsesKeywords(t *testing.T) {
	cleanup := withMockClient(&mockMessager{responses: []*anthropic.Message{newMockMessage(`{
		"keywords": [{"term":"chest pain","relevance":0.91},{"term":"anxiety","relevance":0.55}],
		"entities": [{"term":"aspirin","relevance":0.4}]
	}`)}})
	defer cleanup()

	az, err := NewAnthropicAnalyzer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := az.Analyze(context.Background(), "doc", Features{Entities: true, Keywords: true})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Keywords) != 2 || res.Keywords[0].Term != "chest pain" || res.Keywords[0].Relevance != 0.91 {
		t.Fatalf("unexpected keywords: %+v", res.Keywords)
	}
	if len(res.Entities) != 1 || res.Entities[0].Term != "aspirin" {
		t.Fatalf("unexpected entities: %+v", res.Entities)
	}
}

func TestAnthropicAnalyzerRejectsOutOfRangeRelevance(t *testing.T) {
	bad := `{"keywords":[{"term":"x","relevance":1.4}]}`
	cleanup := withMockClient(&mockMessager{responses: []*anthropic.Message{
		newMockMessage(bad), newMockMessage(bad), newMockMessage(bad),
	}})
	defer cleanup()

	az, err := NewAnthropicAnalyzer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := az.Analyze(context.Background(), "doc", Features{Keywords: true}); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestAnthropicAnalyzerPropagatesAPIError(t *testing.T) {
	cleanup := withMockClient(&mockMessager{errs: []error{fmt.Errorf("status 401 unauthorized")}})
	defer cleanup()

	az, err := NewAnthropicAnalyzer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := az.Analyze(context.Background(), "doc", Features{Keywords: true}); err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestAnthropicAnalyzerRequiresFeatures(t *testing.T) {
	cleanup := withMockClient(&mockMessager{})
	defer cleanup()

	az, err := NewAnthropicAnalyzer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := az.Analyze(context.Background(), "doc", Features{}); err == nil {
		t.Fatal("expected error for empty feature request")
	}
}

func TestNewAnthropicAnalyzerRequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicAnalyzer(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNewAnthropicAnalyzerDefaultsModel(t *testing.T) {
	cleanup := withMockClient(&mockMessager{})
	defer cleanup()

	az, err := NewAnthropicAnalyzer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if az.ModelName() != DefaultModel {
		t.Fatalf("model=%s want=%s", az.ModelName(), DefaultModel)
	}
}
