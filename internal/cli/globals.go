package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Host    string `help:"ComfyUI host base URL" default:"" env:"FALKEY_HOST"`
	Store   string `help:"Key storage backend" default:"" enum:"auto,keyring,file," env:"FALKEY_STORE"`
	Output  string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"FALKEY_OUTPUT"`
	Verbose bool   `help:"Verbose output" short:"v" env:"FALKEY_VERBOSE"`
}

// ResolvedOutput returns the effective output mode
// "auto" detects TTY: if stdout is TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput() string {
	if g.Output != "auto" {
		return g.Output
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
