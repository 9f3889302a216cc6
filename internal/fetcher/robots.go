package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"radio-content-parser/internal/observability"
)

type RobotsCache struct {
	cache     map[string]*RobotsTxt
	ttl       time.Duration
	userAgent string
	mu        sync.RWMutex
	logger    *observability.Logger
}

type RobotsTxt struct {
	rules     []robotsRule
	expiresAt time.Time
}

type robotsRule struct {
	allow   bool
	pattern string
	re      *regexp.Regexp
}

func NewRobotsCache(ttl time.Duration, userAgent string, logger *observability.Logger) *RobotsCache {
	return &RobotsCache{
		cache:     make(map[string]*RobotsTxt),
		ttl:       ttl,
		userAgent: userAgent,
		logger:    logger,
	}
}

func (rc *RobotsCache) IsAllowed(ctx context.Context, target *url.URL, client *http.Client) (bool, error) {
	host := target.Host

	rc.mu.RLock()
	cached, exists := rc.cache[host]
	rc.mu.RUnlock()

	if exists && time.Now().Before(cached.expiresAt) {
		return cached.allows(requestPath(target)), nil
	}

	robots := &RobotsTxt{expiresAt: time.Now().Add(rc.ttl)}
	content, err := rc.fetch(ctx, target, client)
	if err != nil {
		// Без robots.txt всё разрешено
		rc.logger.Debug("robots.txt unavailable", "host", host, "error", err.Error())
	} else {
		robots.rules = parseRobots(content, rc.userAgent)
	}

	rc.mu.Lock()
	rc.cache[host] = robots
	rc.mu.Unlock()

	return robots.allows(requestPath(target)), nil
}

func (rc *RobotsCache) fetch(ctx context.Context, target *url.URL, client *http.Client) (string, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			rc.logger.Warn("Failed to close robots.txt body", "error", err.Error())
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("robots.txt status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// allows: побеждает самое длинное совпавшее правило, при равной длине побеждает Allow
func (r *RobotsTxt) allows(path string) bool {
	var best *robotsRule
	for i := range r.rules {
		rule := &r.rules[i]
		if !rule.re.MatchString(path) {
			continue
		}
		if best == nil || len(rule.pattern) > len(best.pattern) ||
			(len(rule.pattern) == len(best.pattern) && rule.allow) {
			best = rule
		}
	}
	return best == nil || best.allow
}

// parseRobots возвращает правила группы нашего агента, иначе группы "*"
func parseRobots(content, userAgent string) []robotsRule {
	agentToken := strings.ToLower(strings.SplitN(userAgent, "/", 2)[0])

	var (
		specific, wildcard   []robotsRule
		groupAgents          []string
		inRules, hasSpecific bool
	)

	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if inRules {
				groupAgents = nil
				inRules = false
			}
			groupAgents = append(groupAgents, strings.ToLower(value))
		case "allow", "disallow":
			inRules = true
			if value == "" {
				continue
			}
			rule := robotsRule{allow: key == "allow", pattern: value, re: compileRobotsPattern(value)}
			for _, agent := range groupAgents {
				switch {
				case agent == "*":
					wildcard = append(wildcard, rule)
				case agentToken != "" && strings.Contains(agentToken, agent):
					specific = append(specific, rule)
					hasSpecific = true
				}
			}
		}
	}

	if hasSpecific {
		return specific
	}
	return wildcard
}

// compileRobotsPattern поддерживает '*' и завершающий '$'
func compileRobotsPattern(pattern string) *regexp.Regexp {
	anchored := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*")
	if anchored {
		expr += "$"
	}
	return regexp.MustCompile(expr)
}

func requestPath(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
