package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/falstudio/falkey/internal/config"
	"github.com/falstudio/falkey/internal/host"
	"github.com/falstudio/falkey/internal/output"
	"github.com/falstudio/falkey/internal/server"
)

// ServeCmd runs the key endpoint server: the receiving side of the
// set-key push, for hosts that don't carry the Python node pack.
type ServeCmd struct {
	Addr string `help:"Listen address" default:""`
}

// Run executes the serve command
func (cmd *ServeCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	addr := cmd.Addr
	if addr == "" {
		addr = cfg.ResolvedListenAddr()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.NewKeyState(), host.NewBus())
	if err := srv.Run(ctx, addr); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Server failed: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	return nil
}
