package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OriginPolicy decides which browser origins may open a websocket
type OriginPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
	logger   *zap.Logger
}

// NewOriginPolicy builds a policy from configured origins. An empty list or
// "*" allows every origin.
func NewOriginPolicy(origins []string, logger *zap.Logger) *OriginPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &OriginPolicy{allowed: make(map[string]struct{}), logger: logger}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		switch {
		case trimmed == "":
			continue
		case trimmed == "*":
			p.allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			logger.Warn("ignoring invalid origin", zap.String("origin", origin))
			continue
		}
		p.allowed[normalized] = struct{}{}
	}

	if len(p.allowed) == 0 {
		p.allowAll = true
	}

	return p
}

// Check is a websocket.Upgrader CheckOrigin func. Requests without an Origin
// header come from non-browser clients and are let through.
func (p *OriginPolicy) Check(r *http.Request) bool {
	header := r.Header.Get("Origin")
	if header == "" || p.allowAll {
		return true
	}

	normalized, ok := normalizeOrigin(header)
	if ok {
		if _, exists := p.allowed[normalized]; exists {
			return true
		}
	}

	p.logger.Warn("blocked websocket from disallowed origin", zap.String("origin", header))
	return false
}

// Upgrader returns a websocket upgrader enforcing the policy
func (p *OriginPolicy) Upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     p.Check,
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
