// Package auth gates the websocket endpoint behind optional API keys.
package auth

import (
	"net/http"
	"strings"
	"sync"
)

// HeaderName carries the key on websocket upgrade requests
const HeaderName = "X-Api-Key"

// APIKeyAuth provides a simple API key authentication. With no keys
// configured every request is let through.
type APIKeyAuth struct {
	mu        sync.RWMutex
	validKeys map[string]struct{}
}

// NewAPIKeyAuth creates a new API key authentication middleware
func NewAPIKeyAuth(keys []string) *APIKeyAuth {
	a := &APIKeyAuth{validKeys: make(map[string]struct{})}
	for _, key := range keys {
		a.AddKey(key)
	}

	return a
}

// AddKey adds a new valid API key
func (a *APIKeyAuth) AddKey(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.validKeys[key] = struct{}{}
}

// RemoveKey removes a valid API key
func (a *APIKeyAuth) RemoveKey(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.validKeys, key)
}

// Enabled reports whether any key is configured
func (a *APIKeyAuth) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.validKeys) > 0
}

// IsValidKey checks if a key is valid
func (a *APIKeyAuth) IsValidKey(key string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, valid := a.validKeys[key]
	return valid
}

// Allow checks the request's key. Browsers cannot set headers on a
// websocket handshake, so the key may also come as the api_key query value.
func (a *APIKeyAuth) Allow(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}

	key := r.Header.Get(HeaderName)
	if key == "" {
		key = r.URL.Query().Get("api_key")
	}

	return a.IsValidKey(key)
}
