package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/falstudio/falkey/internal/cli"
	"github.com/falstudio/falkey/internal/output"
)

var (
	version = "dev"
)

func main() {
	// Parse CLI
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("falkey"),
		kong.Description("Manage named FAL API keys and sync the active one to ComfyUI"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	kongplete.Complete(parser,
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	// Run command with bound dependencies
	err = ctx.Run()
	if err != nil {
		// Handle error with proper exit code
		if cliErr, ok := err.(*output.CLIError); ok {
			// We need a formatter instance, create a basic one for error output
			formatter := output.New("plain")
			formatter.PrintError(err)
			if cliErr.Hint != "" {
				formatter.PrintHint(cliErr.Hint)
			}
			os.Exit(cliErr.ExitCode)
		}
		// Unknown error
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(output.ExitGeneral)
	}
}
