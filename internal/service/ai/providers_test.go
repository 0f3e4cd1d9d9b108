package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func TestNewProviderSelection(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProvider(ctx, ProviderConfig{Provider: "openai"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error without API key")
	}
	if _, err := NewProvider(ctx, ProviderConfig{Provider: "claude", APIKey: "k"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown provider")
	}

	p, err := NewProvider(ctx, ProviderConfig{Provider: "OpenAI", APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name() != "OpenAI" || p.DefaultModel() != "gpt-4.1-mini" {
		t.Fatalf("unexpected provider %s/%s", p.Name(), p.DefaultModel())
	}

	p, err = NewProvider(ctx, ProviderConfig{Provider: "gemini", APIKey: "k", Model: "gemini-2.5-pro"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name() != "Gemini" || p.DefaultModel() != "gemini-2.5-pro" {
		t.Fatalf("unexpected provider %s/%s", p.Name(), p.DefaultModel())
	}
}

func TestOpenAIProviderUsesJSONMode(t *testing.T) {
	var calls int32
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4.1-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}],` +
			`"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "gpt-4.1-mini", srv.URL+"/", zap.NewNop())
	result, err := p.Generate(context.Background(), "make a plan", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Text != `{"ok":true}` || result.Model != "gpt-4.1-mini" {
		t.Fatalf("unexpected result %+v", result)
	}

	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", captured["response_format"])
	}
	messages, _ := captured["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
}

func TestOpenAIProviderDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", "gpt-4.1-mini", srv.URL+"/", zap.NewNop())
	if _, err := p.Generate(context.Background(), "p", nil); err == nil {
		t.Fatalf("expected error for 503")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestGeminiProviderRequestsJSON(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"ok\":"},{"text":"true}"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "test-key", "gemini-2.5-flash", srv.URL+"/", zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	result, err := p.Generate(context.Background(), "make a plan", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Text != `{"ok":true}` {
		t.Fatalf("expected joined parts, got %q", result.Text)
	}

	genConfig, _ := captured["generationConfig"].(map[string]any)
	if genConfig["responseMimeType"] != "application/json" {
		t.Fatalf("expected JSON response mode, got %v", captured["generationConfig"])
	}
}

func TestGetPresetConfigDefaultsToBalanced(t *testing.T) {
	if GetPresetConfig("unknown") != GetPresetConfig(PresetBalanced) {
		t.Fatalf("expected unknown preset to fall back to balanced")
	}
	if GetPresetConfig(PresetBalanced).MaxOutputTokens < 8192 {
		t.Fatalf("expected a large output budget")
	}
}
