package falapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/falstudio/falkey/internal/keystore"
	"github.com/falstudio/falkey/internal/logging"
)

var logger = logging.Component("falapi")

// Endpoint paths on the host side.
const (
	SetKeyPath        = "/fal-api/set-key"
	ActiveKeyInfoPath = "/fal-api/active-key-info"
)

// SetKeyRequest is the wire body for pushing a credential to the host.
type SetKeyRequest struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// SetKeyResponse is the host's reply to a set-key push.
type SetKeyResponse struct {
	Status        string `json:"status,omitempty"`
	ActiveKeyName string `json:"active_key_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ActiveKeyInfo is the host's reply to an active-key-info query. It never
// carries the key itself.
type ActiveKeyInfo struct {
	ActiveKeyName string `json:"active_key_name"`
}

// Client mirrors the locally stored active credential to a ComfyUI host.
type Client struct {
	baseURL string
	store   keystore.Store
	httpc   *http.Client
}

// NewClient creates a sync client for the given host base URL.
func NewClient(baseURL string, store keystore.Store) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		store:   store,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PushActive sends the active credential to the host. Best-effort by
// contract: no active name, a dangling name, or any transport/server
// failure all end here without surfacing an error. Submissions must never
// be blocked by a sync hiccup, so failures are logged and dropped, and
// nothing is retried.
func (c *Client) PushActive(ctx context.Context) {
	name := c.store.ActiveName()
	if name == "" {
		return
	}

	keys, err := c.store.LoadAll()
	if err != nil {
		logger.Warnf("key push skipped, store unreadable: %v", err)
		return
	}

	secret, ok := keys[name]
	if !ok {
		// Active name dangles after a deletion. Not an error.
		return
	}

	body, err := json.Marshal(SetKeyRequest{Key: secret, Name: name})
	if err != nil {
		logger.Warnf("key push skipped: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SetKeyPath, bytes.NewReader(body))
	if err != nil {
		logger.Warnf("key push failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Warnf("key push failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnf("key push failed: host returned HTTP %d", resp.StatusCode)
		return
	}

	logger.Debugf("active key %q pushed to %s", name, c.baseURL)
}

// ActiveKeyName asks the host which key it currently holds. Read-only, so
// transient failures are retried with exponential backoff.
func (c *Client) ActiveKeyName(ctx context.Context) (string, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = 10 * time.Second

	var info ActiveKeyInfo

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ActiveKeyInfoPath, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("host returned HTTP %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(expBackoff, ctx)); err != nil {
		return "", fmt.Errorf("query active key: %w", err)
	}

	return info.ActiveKeyName, nil
}
