package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/falstudio/falkey/internal/config"
	"github.com/falstudio/falkey/internal/falapi"
	"github.com/falstudio/falkey/internal/keystore"
	"github.com/falstudio/falkey/internal/output"
	"github.com/falstudio/falkey/internal/panel"
)

// KeyAddCmd implements the key add command
type KeyAddCmd struct {
	Name string `arg:"" help:"Name for the key (e.g., prod, personal)"`
	Key  string `arg:"" optional:"" help:"The API key; prompted for when omitted"`
	Use  bool   `help:"Also make this key the active one" short:"u"`
}

// Run executes the add command
func (cmd *KeyAddCmd) Run(p *panel.Panel, fp *FormatterProvider) error {
	secret := cmd.Key
	if secret == "" {
		var err error
		secret, err = promptSecret(fmt.Sprintf("API key for %q: ", cmd.Name))
		if err != nil {
			return &output.CLIError{
				Message:  fmt.Sprintf("Failed to read key: %v", err),
				ExitCode: output.ExitGeneral,
			}
		}
	}

	if err := p.Add(cmd.Name, secret); err != nil {
		if errors.Is(err, panel.ErrInvalidInput) {
			return &output.CLIError{
				Message:  "Both a name and a key are required",
				ExitCode: output.ExitUsage,
			}
		}
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to store key: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(os.Stderr, "Stored key %q\n", cmd.Name)

	if cmd.Use {
		if err := p.Select(cmd.Name); err != nil {
			return &output.CLIError{
				Message:  fmt.Sprintf("Failed to set active key: %v", err),
				ExitCode: output.ExitGeneral,
			}
		}
		fmt.Fprintf(os.Stderr, "Active key is now %q\n", cmd.Name)
	}

	return nil
}

// KeyRemoveCmd implements the key remove command
type KeyRemoveCmd struct {
	Name string `arg:"" help:"Name of the key to delete"`
}

// Run executes the remove command
func (cmd *KeyRemoveCmd) Run(p *panel.Panel, fp *FormatterProvider) error {
	wasActive := p.Active() == cmd.Name

	if err := p.Remove(cmd.Name); err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return (&output.CLIError{
				Message:  fmt.Sprintf("No key named %q", cmd.Name),
				ExitCode: output.ExitNotFound,
			}).WithHint("Run: falkey key list")
		}
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to delete key: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(os.Stderr, "Deleted key %q\n", cmd.Name)
	if wasActive {
		fmt.Fprintf(os.Stderr, "No key is active now\n")
	}
	return nil
}

// KeyUseCmd implements the key use command
type KeyUseCmd struct {
	Name string `arg:"" help:"Name of the key to make active"`
}

// Run executes the use command
func (cmd *KeyUseCmd) Run(p *panel.Panel, store keystore.Store, fp *FormatterProvider) error {
	// The active name is set unconditionally; a missing entry just means
	// pushes become no-ops until the key is added.
	keys, err := store.LoadAll()
	if err == nil {
		if _, ok := keys[cmd.Name]; !ok {
			fmt.Fprintf(os.Stderr, "Warning: no stored key named %q; pushes will be skipped until it exists\n", cmd.Name)
		}
	}

	if err := p.Select(cmd.Name); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set active key: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	fmt.Fprintf(os.Stderr, "Active key is now %q\n", cmd.Name)
	return nil
}

// KeyListCmd implements the key list command
type KeyListCmd struct{}

// Run executes the list command
func (cmd *KeyListCmd) Run(p *panel.Panel, fp *FormatterProvider) error {
	entries, err := p.Entries()
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to read keys: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	type KeyItem struct {
		Name    string
		Preview string
		Active  string
	}

	active := p.Active()
	items := make([]KeyItem, 0, len(entries))
	for _, entry := range entries {
		item := KeyItem{Name: entry.Name, Preview: entry.Preview}
		if entry.Name == active {
			item.Active = "*"
		}
		items = append(items, item)
	}

	cols := []output.Column{
		{Name: "Name", Key: "Name"},
		{Name: "Key", Key: "Preview"},
		{Name: "Active", Key: "Active"},
	}

	return fp.Formatter.PrintList(items, cols)
}

// KeyStatusCmd implements the key status command
type KeyStatusCmd struct {
	Local bool `help:"Skip querying the host" short:"l"`
}

// Run executes the status command
func (cmd *KeyStatusCmd) Run(cfg *config.Config, p *panel.Panel, store keystore.Store, fp *FormatterProvider) error {
	options, value, err := p.Options()
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to read keys: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}

	type Status struct {
		Active    string
		Selector  string
		Keys      int
		HostKey   string
		HostError string `json:",omitempty"`
	}

	status := Status{
		Active:   p.Active(),
		Selector: value,
		Keys:     len(options),
	}
	if len(options) == 1 && options[0] == panel.Placeholder {
		status.Keys = 0
	}

	if !cmd.Local {
		client := falapi.NewClient(cfg.ResolvedHostURL(), store)
		hostKey, err := client.ActiveKeyName(context.Background())
		if err != nil {
			status.HostError = err.Error()
		} else {
			status.HostKey = hostKey
		}
	}

	return fp.Formatter.Print(status)
}

// KeyPushCmd implements the key push command
type KeyPushCmd struct{}

// Run executes the push command
func (cmd *KeyPushCmd) Run(cfg *config.Config, store keystore.Store, fp *FormatterProvider) error {
	client := falapi.NewClient(cfg.ResolvedHostURL(), store)
	ctx := context.Background()

	// The push itself is fire-and-forget by contract. For the explicit
	// command we follow up with a read so the user sees what landed.
	client.PushActive(ctx)

	hostKey, err := client.ActiveKeyName(ctx)
	if err != nil {
		return (&output.CLIError{
			Message:  fmt.Sprintf("Host %s is unreachable: %v", cfg.ResolvedHostURL(), err),
			ExitCode: output.ExitNetworkError,
		}).WithHint("Is the ComfyUI server running? Check: falkey config get host_url")
	}

	if hostKey == "" {
		fmt.Fprintf(os.Stderr, "Host holds no key (nothing active locally)\n")
		return nil
	}

	fmt.Fprintf(os.Stderr, "Host active key: %s\n", hostKey)
	return nil
}

// promptSecret reads a secret from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
