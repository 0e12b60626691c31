package keystore

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// Keyring item names. The full mapping lives under one item so mutations
// stay whole-set read-modify-write, same as the file backend.
const (
	keyringKeysItem   = "keys"
	keyringActiveItem = "active"
)

// KeyringStore implements Store on the OS keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the OS keyring for falkey. Returns an error if no
// keyring backend is available on this platform.
func NewKeyringStore() (*KeyringStore, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  filepath.Join(xdg.DataHome, "falkey", "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return &KeyringStore{ring: ring}, nil
}

func (s *KeyringStore) LoadAll() (map[string]string, error) {
	item, err := s.ring.Get(keyringKeysItem)
	if err != nil {
		if err == keyring.ErrKeyNotFound {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("keyring get failed: %w", err)
	}

	var keys map[string]string
	if err := json.Unmarshal(item.Data, &keys); err != nil {
		// Corrupt blob, start over empty.
		return make(map[string]string), nil
	}
	if keys == nil {
		keys = make(map[string]string)
	}

	return keys, nil
}

func (s *KeyringStore) SaveAll(keys map[string]string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to serialize keys: %w", err)
	}

	item := keyring.Item{
		Key:  keyringKeysItem,
		Data: data,
	}
	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

func (s *KeyringStore) ActiveName() string {
	item, err := s.ring.Get(keyringActiveItem)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

func (s *KeyringStore) SetActiveName(name string) error {
	item := keyring.Item{
		Key:  keyringActiveItem,
		Data: []byte(name),
	}
	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}
