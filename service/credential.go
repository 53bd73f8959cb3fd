package service

import (
	"strings"
	"sync"

	"github.com/ezlinkai/campaign-studio/monitor"
)

// Credentials holds the primary provider key. It can be replaced at runtime
// after the provider rejects it.
type Credentials struct {
	mu           sync.RWMutex
	key          string
	authRequired bool
}

func NewCredentials(key string) *Credentials {
	return &Credentials{key: strings.TrimSpace(key)}
}

func (c *Credentials) Key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}

func (c *Credentials) Set(key string) {
	key = strings.TrimSpace(key)
	c.mu.Lock()
	c.key = key
	c.authRequired = key == ""
	c.mu.Unlock()
	monitor.CredentialRestored(key)
}

func (c *Credentials) Invalidate(provider string, reason string) {
	c.mu.Lock()
	c.authRequired = true
	key := c.key
	c.mu.Unlock()
	monitor.CredentialInvalid(provider, key, reason)
}

// AuthRequired reports whether a usable key is missing.
func (c *Credentials) AuthRequired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authRequired || c.key == ""
}
