package cli

import (
	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/falstudio/falkey/internal/config"
	"github.com/falstudio/falkey/internal/keystore"
	"github.com/falstudio/falkey/internal/logging"
	"github.com/falstudio/falkey/internal/output"
	"github.com/falstudio/falkey/internal/panel"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
}

// CLI is the root command structure
type CLI struct {
	Globals

	Key       KeyCmd       `cmd:"" help:"Manage stored FAL API keys"`
	Queue     QueueCmd     `cmd:"" help:"Queue a workflow, pushing the active key first"`
	Manage    ManageCmd    `cmd:"" help:"Open the interactive key management dialog"`
	Serve     ServeCmd     `cmd:"" help:"Run the key endpoint server"`
	Config    ConfigCmd    `cmd:"" help:"Configuration commands"`
	Dashboard DashboardCmd `cmd:"" help:"Open the fal.ai key dashboard in a browser"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// BeforeApply hook runs before any command execution
// It loads config, creates the formatter and key store, and binds them
func (c *CLI) BeforeApply(ctx *kong.Context) error {
	logging.Setup(c.Verbose)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Resolve overrides: CLI flag > config > default
	if c.Host != "" {
		cfg.HostURL = c.Host
	}
	if c.Store != "" {
		cfg.Store = c.Store
	}
	if c.Output == "auto" && cfg.DefaultOutput != "" {
		c.Output = cfg.DefaultOutput
	}

	store, err := keystore.NewStore(cfg.Store)
	if err != nil {
		return &output.CLIError{
			Message:  "Failed to initialize key store: " + err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	formatter := &FormatterProvider{
		Formatter: output.New(c.ResolvedOutput()),
	}

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.BindTo(store, (*keystore.Store)(nil))
	ctx.Bind(panel.New(store))

	return nil
}

// KeyCmd holds key subcommands
type KeyCmd struct {
	Add    KeyAddCmd    `cmd:"" help:"Store a named API key"`
	Remove KeyRemoveCmd `cmd:"" help:"Delete a stored key"`
	Use    KeyUseCmd    `cmd:"" help:"Make a stored key the active one"`
	List   KeyListCmd   `cmd:"" help:"List stored keys"`
	Status KeyStatusCmd `cmd:"" help:"Show local and host key status"`
	Push   KeyPushCmd   `cmd:"" help:"Push the active key to the host now"`
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	println("falkey version " + version)
	return nil
}
