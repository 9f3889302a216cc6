package config

// applyDefaults заполняет необязательные поля значениями по умолчанию
func (c *Config) applyDefaults() {
	if c.Generator.Provider == "" {
		c.Generator.Provider = "gemini"
	}
	if c.Generator.BaseURL == "" {
		c.Generator.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.Generator.Model == "" {
		c.Generator.Model = "gemini-2.0-flash"
	}
	if c.Generator.APIKeyEnv == "" {
		c.Generator.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Generator.RequestTimeoutMS == 0 {
		c.Generator.RequestTimeoutMS = 30000
	}
	if c.Generator.MaxOutputTokens == 0 {
		c.Generator.MaxOutputTokens = 2048
	}
	if c.Generator.MaxContextChars == 0 {
		c.Generator.MaxContextChars = 6000
	}

	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = "RadioFeedBot/1.0"
	}
	if c.HTTP.ConnectTimeoutMS == 0 {
		c.HTTP.ConnectTimeoutMS = 5000
	}
	if c.HTTP.TotalTimeoutMS == 0 {
		c.HTTP.TotalTimeoutMS = 20000
	}
	if c.HTTP.MaxIdleConnections == 0 {
		c.HTTP.MaxIdleConnections = 100
	}
	if c.HTTP.MaxIdleConnectionsPerHost == 0 {
		c.HTTP.MaxIdleConnectionsPerHost = 10
	}
	if c.HTTP.IdleConnectionTimeoutS == 0 {
		c.HTTP.IdleConnectionTimeoutS = 90
	}
	if c.HTTP.AcceptLanguage == "" {
		c.HTTP.AcceptLanguage = "pt-BR,pt;q=0.9,en;q=0.5"
	}
	if c.RateLimit.MaxConcurrentPerHost == 0 {
		c.RateLimit.MaxConcurrentPerHost = 2
	}
	if c.RateLimit.RPM == 0 {
		c.RateLimit.RPM = 30
	}
	if c.RobotsCacheTTLHours == 0 {
		c.RobotsCacheTTLHours = 12
	}
	if c.Backoff.MinMS == 0 {
		c.Backoff.MinMS = 250
	}
	if c.Backoff.MaxMS == 0 {
		c.Backoff.MaxMS = 4000
	}
	if c.Backoff.JitterPct == 0 {
		c.Backoff.JitterPct = 20
	}

	if c.Events.StartMarker == "" {
		c.Events.StartMarker = "EVENTO_START"
	}
	if c.Events.EndMarker == "" {
		c.Events.EndMarker = "EVENTO_END"
	}
	if c.Events.Count == 0 {
		c.Events.Count = 6
	}
	if c.News.StartMarker == "" {
		c.News.StartMarker = "NEWS_START"
	}
	if c.News.EndMarker == "" {
		c.News.EndMarker = "NEWS_END"
	}
	if c.News.Count == 0 {
		c.News.Count = 5
	}
	if c.News.MaxSummaryChars == 0 {
		c.News.MaxSummaryChars = 280
	}
	if c.Ticker.MinLineLength == 0 {
		c.Ticker.MinLineLength = 15
	}
	if c.Ticker.MaxLines == 0 {
		c.Ticker.MaxLines = 10
	}

	if c.Normalize.MaxPreviewChars == 0 {
		c.Normalize.MaxPreviewChars = 280
	}
	if c.Scheduler.Mode == "" {
		c.Scheduler.Mode = "oneshot"
	}
	if c.Scheduler.MaxBackoffS == 0 {
		c.Scheduler.MaxBackoffS = 1800
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.MetricsPath == "" {
		c.Observability.MetricsPath = "/metrics"
	}
}
