package cli

import (
	"fmt"
	"os"

	"github.com/falstudio/falkey/internal/output"
	"github.com/falstudio/falkey/pkg/browser"
)

// DashboardURL is where fal.ai keys are created and revoked.
const DashboardURL = "https://fal.ai/dashboard/keys"

// DashboardCmd opens the fal.ai key dashboard in the default browser.
type DashboardCmd struct{}

// Run executes the dashboard command
func (cmd *DashboardCmd) Run(fp *FormatterProvider) error {
	if err := browser.Open(DashboardURL); err != nil {
		return (&output.CLIError{
			Message:  fmt.Sprintf("Failed to open browser: %v", err),
			ExitCode: output.ExitGeneral,
		}).WithHint("Visit " + DashboardURL + " manually")
	}

	fmt.Fprintf(os.Stderr, "Opened %s\n", DashboardURL)
	return nil
}
