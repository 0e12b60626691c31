package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for falkey
// Typically ~/.config/falkey/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "falkey")
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for falkey
// Typically ~/.local/share/falkey/ on Linux (key storage lives here)
func DataDir() string {
	return filepath.Join(xdg.DataHome, "falkey")
}
