// Package session holds the user-supplied API credential for the lifetime of
// the running process. The credential has no serialization path: it is never
// written through the integrity store and never leaves the process except as
// an authorization parameter of the request bridge.
package session

import (
	"strings"
	"sync"
)

// credentialPrefix is the issuer's key prefix convention, used for a cheap
// format check before spending a network round trip.
const credentialPrefix = "AIza"

// Holder owns a single secret string for the current session. Each Holder is
// independent; construct one per application instance so tests never share
// credential state.
type Holder struct {
	mu  sync.RWMutex
	key string
}

// NewHolder creates an empty Holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set stores the credential, replacing any prior value.
func (h *Holder) Set(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = key
}

// Get returns the credential and whether one is set.
func (h *Holder) Get() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.key == "" {
		return "", false
	}
	return h.key, true
}

// Clear drops the credential. The empty state is also the natural resting
// state after a process restart.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = ""
}

// ValidFormat reports whether key looks like an issuer credential. Callers
// check this before accepting user input; it proves nothing about the key
// being live upstream.
func ValidFormat(key string) bool {
	key = strings.TrimSpace(key)
	return len(key) > len(credentialPrefix) && strings.HasPrefix(key, credentialPrefix)
}
