package config

import (
	"fmt"
	"time"
)

type Config struct {
	Generator           GeneratorConfig     `yaml:"generator"`
	Backoff             BackoffConfig       `yaml:"backoff"`
	RobotsCacheTTLHours int                 `yaml:"robots_cache_ttl_hours"`
	HTTP                HttpConfig          `yaml:"http"`
	RateLimit           RateLimitConfig     `yaml:"rate_limit"`
	PromptsFile         string              `yaml:"prompts_file"`
	Events              EventsConfig        `yaml:"events"`
	News                NewsConfig          `yaml:"news"`
	Ticker              TickerConfig        `yaml:"ticker"`
	Normalize           NormalizeConfig     `yaml:"normalize"`
	Scheduler           SchedulerConfig     `yaml:"scheduler"`
	Observability       ObservabilityConfig `yaml:"observability"`
}

type GeneratorConfig struct {
	Provider         string  `yaml:"provider"`
	BaseURL          string  `yaml:"base_url"`
	Model            string  `yaml:"model"`
	APIKeyEnv        string  `yaml:"api_key_env"`
	APIKey           string  `yaml:"-"` // заполняется из окружения
	Temperature      float64 `yaml:"temperature"`
	MaxOutputTokens  int     `yaml:"max_output_tokens"`
	MaxRetries       int     `yaml:"max_retries"`
	RequestTimeoutMS int     `yaml:"request_timeout_ms"`
	MaxContextChars  int     `yaml:"max_context_chars"`
}

type BackoffConfig struct {
	MinMS     int `yaml:"min_ms"`
	MaxMS     int `yaml:"max_ms"`
	JitterPct int `yaml:"jitter_pct"`
}

type HttpConfig struct {
	UserAgent                 string `yaml:"user_agent"`
	ConnectTimeoutMS          int    `yaml:"connect_timeout_ms"`
	TotalTimeoutMS            int    `yaml:"total_timeout_ms"`
	MaxRetries                int    `yaml:"max_retries"`
	MaxIdleConnections        int    `yaml:"max_idle_connections"`
	MaxIdleConnectionsPerHost int    `yaml:"max_idle_connections_per_host"`
	IdleConnectionTimeoutS    int    `yaml:"idle_connection_timeout_s"`
	AcceptLanguage            string `yaml:"accept_language"`
}

type RateLimitConfig struct {
	MaxConcurrentPerHost int `yaml:"max_concurrent_per_host"`
	RPM                  int `yaml:"rpm"`
}

type EventsConfig struct {
	StartMarker  string            `yaml:"start_marker"`
	EndMarker    string            `yaml:"end_marker"`
	City         string            `yaml:"city"`
	Count        int               `yaml:"count"`
	FallbackLink string            `yaml:"fallback_link"`
	Placeholders map[string]string `yaml:"placeholders"`
	ContextURLs  []string          `yaml:"context_urls"`
}

type NewsConfig struct {
	StartMarker     string   `yaml:"start_marker"`
	EndMarker       string   `yaml:"end_marker"`
	Region          string   `yaml:"region"`
	Count           int      `yaml:"count"`
	MaxSummaryChars int      `yaml:"max_summary_chars"`
	JSONFallback    bool     `yaml:"json_fallback"`
	ContextURLs     []string `yaml:"context_urls"`
}

type TickerConfig struct {
	Region        string   `yaml:"region"`
	MinLineLength int      `yaml:"min_line_length"`
	MaxLines      int      `yaml:"max_lines"`
	Denylist      []string `yaml:"denylist"`
}

type NormalizeConfig struct {
	StripBlocks     []string `yaml:"strip_blocks"`
	TrimNBSP        bool     `yaml:"trim_nbsp"`
	CollapseSpaces  bool     `yaml:"collapse_spaces"`
	MaxPreviewChars int      `yaml:"max_preview_chars"`
}

type SchedulerConfig struct {
	Mode        string `yaml:"mode"`
	IntervalS   int    `yaml:"interval_s"`
	MaxBackoffS int    `yaml:"max_backoff_s"`
}

type ObservabilityConfig struct {
	LogPath       string `yaml:"log_path"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
	MetricsAddr   string `yaml:"metrics_addr"`
	MetricsPath   string `yaml:"metrics_path"`
}

// Validation
func (c *Config) Validate() error {
	if c.Generator.Provider != "gemini" {
		return fmt.Errorf("generator.provider must be 'gemini'")
	}
	if c.Generator.BaseURL == "" {
		return fmt.Errorf("generator.base_url is required")
	}
	if c.Generator.Model == "" {
		return fmt.Errorf("generator.model is required")
	}
	if c.Generator.MaxRetries < 0 {
		return fmt.Errorf("generator.max_retries must be >= 0")
	}
	if c.Generator.RequestTimeoutMS <= 0 {
		return fmt.Errorf("generator.request_timeout_ms must be > 0")
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		return fmt.Errorf("generator.temperature must be between 0 and 2")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("http.connect_timeout_ms must be > 0")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.RateLimit.MaxConcurrentPerHost <= 0 {
		return fmt.Errorf("rate_limit.max_concurrent_per_host must be > 0")
	}
	if c.RateLimit.RPM <= 0 {
		return fmt.Errorf("rate_limit.rpm must be > 0")
	}
	if c.Events.StartMarker == "" || c.Events.EndMarker == "" {
		return fmt.Errorf("events.start_marker and events.end_marker are required")
	}
	if c.Events.StartMarker == c.Events.EndMarker {
		return fmt.Errorf("events.start_marker must differ from events.end_marker")
	}
	if c.News.StartMarker == "" || c.News.EndMarker == "" {
		return fmt.Errorf("news.start_marker and news.end_marker are required")
	}
	if c.News.StartMarker == c.News.EndMarker {
		return fmt.Errorf("news.start_marker must differ from news.end_marker")
	}
	if c.News.MaxSummaryChars < 0 {
		return fmt.Errorf("news.max_summary_chars must be >= 0")
	}
	if c.Ticker.MinLineLength < 0 {
		return fmt.Errorf("ticker.min_line_length must be >= 0")
	}
	if c.Ticker.MaxLines < 0 {
		return fmt.Errorf("ticker.max_lines must be >= 0")
	}
	if c.Scheduler.Mode != "interval" && c.Scheduler.Mode != "oneshot" {
		return fmt.Errorf("scheduler.mode must be 'interval' or 'oneshot'")
	}
	if c.Scheduler.Mode == "interval" && c.Scheduler.IntervalS <= 0 {
		return fmt.Errorf("scheduler.interval_s must be > 0 when mode is 'interval'")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	if c.RobotsCacheTTLHours <= 0 {
		return fmt.Errorf("robots_cache_ttl_hours must be > 0")
	}
	if c.Backoff.MinMS <= 0 {
		return fmt.Errorf("backoff.min_ms must be > 0")
	}
	if c.Backoff.MaxMS <= 0 {
		return fmt.Errorf("backoff.max_ms must be > 0")
	}
	if c.Backoff.MinMS > c.Backoff.MaxMS {
		return fmt.Errorf("backoff.min_ms must be <= backoff.max_ms")
	}
	if c.Backoff.JitterPct < 0 || c.Backoff.JitterPct > 100 {
		return fmt.Errorf("backoff.jitter_pct must be between 0 and 100")
	}
	return nil
}

// Getters
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetIdleConnectionTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnectionTimeoutS) * time.Second
}

func (c *Config) GetBackoffMin() time.Duration {
	return time.Duration(c.Backoff.MinMS) * time.Millisecond
}

func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Backoff.MaxMS) * time.Millisecond
}

func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.Generator.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) GetSchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.IntervalS) * time.Second
}

func (c *Config) GetSchedulerMaxBackoff() time.Duration {
	return time.Duration(c.Scheduler.MaxBackoffS) * time.Second
}

func (c *Config) GetRobotsCacheTTL() time.Duration {
	return time.Duration(c.RobotsCacheTTLHours) * time.Hour
}
