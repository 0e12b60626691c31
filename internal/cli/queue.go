package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/falstudio/falkey/internal/config"
	"github.com/falstudio/falkey/internal/falapi"
	"github.com/falstudio/falkey/internal/hook"
	"github.com/falstudio/falkey/internal/keystore"
	"github.com/falstudio/falkey/internal/output"
)

// QueueCmd submits a workflow file to the host's queue. The active key
// is pushed before the submission starts, same as the frontend does on
// every queue action.
type QueueCmd struct {
	File    string        `arg:"" type:"existingfile" help:"Workflow JSON file (API format)"`
	Timeout time.Duration `help:"Submission timeout" default:"30s"`
}

// Run executes the queue command
func (cmd *QueueCmd) Run(cfg *config.Config, store keystore.Store, fp *FormatterProvider) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to read workflow: %v", err),
			ExitCode: output.ExitGeneral,
		}
	}
	if !json.Valid(data) {
		return &output.CLIError{
			Message:  fmt.Sprintf("%s is not valid JSON", cmd.File),
			ExitCode: output.ExitUsage,
		}
	}

	hostURL := cfg.ResolvedHostURL()
	client := falapi.NewClient(hostURL, store)
	httpc := &http.Client{Timeout: cmd.Timeout}

	queue := func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
		body, err := json.Marshal(map[string]json.RawMessage{"prompt": workflow})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, hostURL+"/prompt", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		reply, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("host returned HTTP %d: %s", resp.StatusCode, reply)
		}

		return reply, nil
	}

	// Push happens-before the queue body, failures included.
	wrapped := hook.New(client).Wrap(queue)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	reply, err := wrapped(ctx, data)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Submission failed: %v", err),
			ExitCode: output.ExitHostError,
		}
	}

	var pretty any
	if err := json.Unmarshal(reply, &pretty); err != nil {
		fmt.Println(string(reply))
		return nil
	}
	return fp.Formatter.Print(pretty)
}
