package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"radio-content-parser/internal/config"
	"radio-content-parser/internal/fetcher"
	"radio-content-parser/internal/observability"
)

type GeminiProvider struct {
	client *http.Client
	cfg    *config.Config
	logger *observability.Logger
}

func NewGeminiProvider(cfg *config.Config, logger *observability.Logger) *GeminiProvider {
	return &GeminiProvider{
		client: &http.Client{Timeout: cfg.GetRequestTimeout()},
		cfg:    cfg,
		logger: logger,
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	gen := p.cfg.Generator
	if gen.APIKey == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrUnauthorized, gen.APIKeyEnv)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(gen.BaseURL, "/"), gen.Model)
	body, err := json.Marshal(p.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("error marshaling body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= gen.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := fetcher.CalculateBackoff(p.cfg.Backoff, attempt)
			p.logger.Debug("Retrying generation", "attempt", attempt, "backoff", backoff.String())
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, retry, err := p.doRequest(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
		p.logger.Warn("Generation attempt failed", "attempt", attempt, "error", err.Error())
	}

	return "", fmt.Errorf("generation failed after %d retries: %w", gen.MaxRetries, lastErr)
}

func (p *GeminiProvider) buildRequest(prompt string) generateContentRequest {
	gen := p.cfg.Generator
	req := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
	}

	genCfg := &generationConfig{}
	if gen.Temperature > 0 {
		temperature := gen.Temperature
		genCfg.Temperature = &temperature
	}
	if gen.MaxOutputTokens > 0 {
		maxTokens := gen.MaxOutputTokens
		genCfg.MaxOutputTokens = &maxTokens
	}
	if genCfg.Temperature != nil || genCfg.MaxOutputTokens != nil {
		req.GenerationConfig = genCfg
	}
	return req
}

// doRequest возвращает retry=true для сетевых ошибок, 429 и 5xx
func (p *GeminiProvider) doRequest(ctx context.Context, url string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.cfg.Generator.APIKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("error sending request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			p.logger.Warn("Failed to close response body", "error", err.Error())
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("error reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", false, fmt.Errorf("%w: %s", ErrUnauthorized, apiErrorMessage(raw, resp.Status))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("server error: %s", apiErrorMessage(raw, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", false, fmt.Errorf("request rejected: %s", apiErrorMessage(raw, resp.Status))
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("error decoding response: %w", err)
	}

	text, err := responseText(parsed)
	if err != nil {
		return "", false, err
	}

	fields := []any{"model", p.cfg.Generator.Model, "duration", time.Since(start).String(), "chars", len(text)}
	if parsed.UsageMetadata != nil {
		fields = append(fields, "tokens", parsed.UsageMetadata.TotalTokenCount)
	}
	p.logger.Debug("Generation completed", fields...)

	return text, nil
}

// responseText склеивает текстовые части первого кандидата, пропуская thought-части
func responseText(resp generateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, pt := range resp.Candidates[0].Content.Parts {
		if pt.Thought {
			continue
		}
		sb.WriteString(pt.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		if reason := resp.Candidates[0].FinishReason; reason == "SAFETY" || reason == "PROHIBITED_CONTENT" {
			return "", fmt.Errorf("%w: %s", ErrBlocked, reason)
		}
		return "", ErrEmptyResponse
	}
	return text, nil
}

func apiErrorMessage(raw []byte, status string) string {
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("%s: %s", status, apiErr.Error.Message)
	}
	return status
}

// IsAuthError сообщает, требует ли ошибка повторной авторизации
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
