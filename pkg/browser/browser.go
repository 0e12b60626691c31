// Package browser opens URLs in the user's default browser.
package browser

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open launches the default browser for url. On unsupported platforms
// it is a no-op so callers can always fall back to printing the URL.
func Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		if isWSL() {
			// Inside WSL the Windows side owns the browser.
			cmd = exec.Command("wslview", url)
		} else {
			cmd = exec.Command("xdg-open", url)
		}
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return nil
	}

	return cmd.Start()
}

func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}
