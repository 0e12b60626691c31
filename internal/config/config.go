package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// DefaultHostURL is the ComfyUI server the active key gets pushed to.
const DefaultHostURL = "http://127.0.0.1:8188"

// DefaultListenAddr is where `falkey serve` exposes the key endpoints.
const DefaultListenAddr = "127.0.0.1:8199"

// Config holds the CLI configuration
type Config struct {
	HostURL       string `json:"host_url,omitempty"`
	ListenAddr    string `json:"listen_addr,omitempty"`
	Store         string `json:"store,omitempty"`
	DefaultOutput string `json:"default_output,omitempty"`
}

// Load reads config from the XDG path, returns defaults if no file exists
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to the XDG config path
func (c *Config) Save() error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON (not JSON5 for writing - JSON is valid JSON5)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ResolvedHostURL returns the configured host URL or the default.
func (c *Config) ResolvedHostURL() string {
	if c.HostURL != "" {
		return c.HostURL
	}
	return DefaultHostURL
}

// ResolvedListenAddr returns the configured listen address or the default.
func (c *Config) ResolvedListenAddr() string {
	if c.ListenAddr != "" {
		return c.ListenAddr
	}
	return DefaultListenAddr
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == key || jsonTag == key+",omitempty" {
			return fmt.Sprintf("%v", v.Field(i).Interface()), nil
		}
	}

	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set sets a config value by key name and saves
func (c *Config) Set(key, value string) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == key || jsonTag == key+",omitempty" {
			v.Field(i).SetString(value)
			return c.Save()
		}
	}

	return fmt.Errorf("unknown config key: %s", key)
}

// Unset sets a config value to its zero value and saves
func (c *Config) Unset(key string) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == key || jsonTag == key+",omitempty" {
			v.Field(i).SetString("")
			return c.Save()
		}
	}

	return fmt.Errorf("unknown config key: %s", key)
}
