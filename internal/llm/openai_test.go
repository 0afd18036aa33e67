package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestChatServer returns a provider pointed at handler through the
// OpenRouter constructor, which shares the OpenAI client path.
func newTestChatServer(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	return p
}

func chatReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		chatReply(`{"hint":"Reads Parquet directly","confidence":5}`, "stop")(w, r)
	}
	p := newTestChatServer(t, handler)

	resp, err := p.Generate(context.Background(), hintRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 65 {
		t.Errorf("TotalTokens = %d, want 65", resp.Usage.TotalTokens)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("StopReason = %q", resp.StopReason)
	}

	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Errorf("response_format = %v, want json_schema", gotBody["response_format"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("sent %d messages, want system + user", len(msgs))
	}
}

func TestOpenAIProvider_Length(t *testing.T) {
	p := newTestChatServer(t, chatReply(`{"hint":"`, "length"))
	_, err := p.Generate(context.Background(), hintRequest())
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	})
	_, err := p.Generate(context.Background(), hintRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","model":"gpt-4o-mini","choices":[]}`))
	})
	_, err := p.Generate(context.Background(), hintRequest())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestNewProvidersRequireKey(t *testing.T) {
	if _, err := NewOpenAIProvider(ProviderConfig{}); err == nil {
		t.Error("NewOpenAIProvider without key should fail")
	}
	if _, err := NewOpenRouterProvider(ProviderConfig{}); err == nil || !strings.Contains(err.Error(), "openrouter") {
		t.Errorf("NewOpenRouterProvider without key = %v", err)
	}
	if _, err := NewAnthropicProvider(ProviderConfig{}); err == nil {
		t.Error("NewAnthropicProvider without key should fail")
	}
	if _, err := NewGeminiProvider(context.Background(), ProviderConfig{}); err == nil {
		t.Error("NewGeminiProvider without key should fail")
	}
}
