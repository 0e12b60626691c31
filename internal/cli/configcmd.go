package cli

import (
	"fmt"
	"os"

	"github.com/falstudio/falkey/internal/config"
	"github.com/falstudio/falkey/internal/output"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (e.g., host_url, store)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitNotFound,
		}
	}

	fmt.Println(value)
	return nil
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
		}
	}

	if cmd.Key == "store" {
		switch cmd.Value {
		case "auto", "keyring", "file":
		default:
			return &output.CLIError{
				Message:  fmt.Sprintf("Invalid store backend: %s. Valid backends: auto, keyring, file", cmd.Value),
				ExitCode: output.ExitUsage,
			}
		}
	}

	if cmd.Key == "default_output" {
		switch cmd.Value {
		case "json", "plain", "rich", "auto":
		default:
			return &output.CLIError{
				Message:  fmt.Sprintf("Invalid output mode: %s. Valid modes: json, plain, rich, auto", cmd.Value),
				ExitCode: output.ExitUsage,
			}
		}
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(os.Stderr, "Set %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
		}
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to unset config: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(os.Stderr, "Unset %s\n", cmd.Key)
	return nil
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	type ConfigItem struct {
		Key   string
		Value string
	}

	items := []ConfigItem{
		{Key: "host_url", Value: cfg.HostURL},
		{Key: "listen_addr", Value: cfg.ListenAddr},
		{Key: "store", Value: cfg.Store},
		{Key: "default_output", Value: cfg.DefaultOutput},
	}

	cols := []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	}

	return fp.Formatter.PrintList(items, cols)
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	path := config.ConfigPath()

	fmt.Println(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "(file does not exist yet - will be created on first write)\n")
	} else {
		fmt.Fprintf(os.Stderr, "(file exists)\n")
	}

	return nil
}
