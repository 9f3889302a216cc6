package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"radio-content-parser/internal/config"
	"radio-content-parser/internal/observability"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Generator: config.GeneratorConfig{
			Provider:         "gemini",
			BaseURL:          baseURL,
			Model:            "gemini-test",
			APIKeyEnv:        "GEMINI_API_KEY",
			APIKey:           "secret",
			Temperature:      0.4,
			MaxOutputTokens:  512,
			MaxRetries:       2,
			RequestTimeoutMS: 2000,
		},
		Backoff: config.BackoffConfig{MinMS: 1, MaxMS: 2},
	}
}

func newProvider(cfg *config.Config) *GeminiProvider {
	return NewGeminiProvider(cfg, observability.NewNopLogger())
}

func TestGenerateSendsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("unexpected api key header %q", got)
		}

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "olá" {
			t.Errorf("unexpected contents %+v", req.Contents)
		}
		if req.GenerationConfig == nil || *req.GenerationConfig.MaxOutputTokens != 512 {
			t.Errorf("unexpected generation config %+v", req.GenerationConfig)
		}

		_, _ = fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"pensando","thought":true},{"text":"EVENTO_START\nTITULO: A\n"},{"text":"EVENTO_END"}]}}],"usageMetadata":{"totalTokenCount":42}}`)
	}))
	defer srv.Close()

	text, err := newProvider(testConfig(srv.URL)).Generate(context.Background(), "olá")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "EVENTO_START\nTITULO: A\nEVENTO_END" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":401,"message":"API key not valid"}}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, ErrUnauthorized},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, ErrBlocked},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, ErrEmptyResponse},
		{"safety finish", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`, ErrBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newProvider(testConfig(srv.URL)).Generate(context.Background(), "x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateMissingKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.Generator.APIKey = ""

	_, err := newProvider(cfg).Generate(context.Background(), "x")
	if !IsAuthError(err) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer srv.Close()

	text, err := newProvider(testConfig(srv.URL)).Generate(context.Background(), "x")
	if err != nil || text != "ok" {
		t.Fatalf("Generate() = %q, %v", text, err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newProvider(testConfig(srv.URL)).Generate(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected 400 error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestProviderFunc(t *testing.T) {
	var p Provider = ProviderFunc(func(ctx context.Context, prompt string) (string, error) {
		return strings.ToUpper(prompt), nil
	})
	got, err := p.Generate(context.Background(), "abc")
	if err != nil || got != "ABC" {
		t.Fatalf("Generate() = %q, %v", got, err)
	}
}
