package server

import (
	"os"
	"sync"
)

// EnvKey is the environment variable downstream fal clients read.
const EnvKey = "FAL_KEY"

// fallbackKeyName is the display name reported when a key is present
// but was never given a name (seeded from the environment or config).
const fallbackKeyName = "config / env"

// KeyState holds the server-side active credential. Pushes from the
// frontend swap it at runtime; the environment seeds it at startup.
type KeyState struct {
	mu   sync.Mutex
	key  string
	name string
}

// NewKeyState creates the runtime key state, seeded from FAL_KEY if set.
func NewKeyState() *KeyState {
	return &KeyState{key: os.Getenv(EnvKey)}
}

// SetKey swaps the active credential and exports it into the
// environment so job execution picks it up.
func (s *KeyState) SetKey(key, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
	s.name = name
	os.Setenv(EnvKey, key)
}

// Key returns the raw active key. Internal use only; handlers never
// serialize it.
func (s *KeyState) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// ActiveKeyName returns the display name of the active key: the pushed
// name, the config/env fallback for an unnamed key, or "" when no key
// is held at all.
func (s *KeyState) ActiveKeyName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.name != "" {
		return s.name
	}
	if s.key != "" {
		return fallbackKeyName
	}
	return ""
}
