package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// NewStore creates a Store using the requested backend. "keyring" and
// "file" force a backend; "auto" (or "") tries the OS keyring first and
// falls back to plain files where a keyring can't work (WSL, headless).
func NewStore(backend string) (Store, error) {
	switch backend {
	case "keyring":
		return NewKeyringStore()
	case "file":
		return NewFileStore(DefaultDir())
	case "auto", "":
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}

	if IsWSL() || IsHeadless() {
		warnOnce("Detected WSL/headless environment, using file storage")
		return NewFileStore(DefaultDir())
	}

	store, err := NewKeyringStore()
	if err != nil {
		warnOnce(fmt.Sprintf("Keyring unavailable (%v), falling back to file storage", err))
		return NewFileStore(DefaultDir())
	}

	return store, nil
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running without a display server. Only
// meaningful on Linux; macOS and Windows are assumed to have a GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

// warnOnce prints a message to stderr the first time only; a marker file
// keeps later commands quiet. FALKEY_QUIET=1 suppresses it entirely.
func warnOnce(msg string) {
	if os.Getenv("FALKEY_QUIET") == "1" || os.Getenv("FALKEY_QUIET") == "true" {
		return
	}

	marker := filepath.Join(xdg.DataHome, "falkey", ".backend-warning-shown")
	if _, err := os.Stat(marker); err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, msg)

	_ = os.MkdirAll(filepath.Dir(marker), 0700)
	_ = os.WriteFile(marker, []byte("1"), 0600)
}
