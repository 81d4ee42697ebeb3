package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func openAITestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Temperature != 0 {
			t.Errorf("Expected temperature 0, got %f", req.Temperature)
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_SemanticMatch_Success(t *testing.T) {
	server := openAITestServer(t, `{"match": true}`)
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.SemanticMatch(context.Background(), MatchRequest{
		Evidence: "the handoff process frustrates me",
		Source:   "she said the handoff process frustrates me daily",
	})
	if err != nil {
		t.Fatalf("SemanticMatch failed: %v", err)
	}

	if !resp.Match {
		t.Error("Expected match verdict")
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens used, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_SemanticMatch_NoMatch(t *testing.T) {
	server := openAITestServer(t, `{"match": false}`)
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := provider.SemanticMatch(context.Background(), MatchRequest{Evidence: "e", Source: "s"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Match {
		t.Error("Expected no-match verdict")
	}
}

func TestOpenAIProvider_SemanticMatch_UnparseableVerdict(t *testing.T) {
	server := openAITestServer(t, "I am not sure what to say here.")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := provider.SemanticMatch(context.Background(), MatchRequest{Evidence: "e", Source: "s"}); err == nil {
		t.Error("Expected error for unparseable verdict")
	}
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := provider.SemanticMatch(context.Background(), MatchRequest{Evidence: "e", Source: "s"}); err == nil {
		t.Error("Expected error from API failure")
	}
}

func TestBuildMatchPrompt_TruncatesLongSource(t *testing.T) {
	source := strings.Repeat("x", maxSourceBytes+500)

	prompt := BuildMatchPrompt("evidence", source)
	if !strings.Contains(prompt, "[source truncated]") {
		t.Error("Expected truncation marker in prompt")
	}
	if len(prompt) > maxSourceBytes+1000 {
		t.Errorf("Prompt not truncated: %d bytes", len(prompt))
	}
}

func TestBuildMatchPrompt_ContainsBoth(t *testing.T) {
	prompt := BuildMatchPrompt("the evidence text", "the source text")
	if !strings.Contains(prompt, "the evidence text") {
		t.Error("Expected evidence in prompt")
	}
	if !strings.Contains(prompt, "the source text") {
		t.Error("Expected source in prompt")
	}
}
