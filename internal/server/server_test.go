package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falstudio/falkey/internal/falapi"
	"github.com/falstudio/falkey/internal/host"
)

func newServer(t *testing.T, bus *host.Bus) *Server {
	t.Helper()
	srv := New(NewKeyState(), bus)
	t.Cleanup(srv.Close)
	return srv
}

func postSetKey(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, falapi.SetKeyPath, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func getActiveKeyInfo(t *testing.T, srv *Server) falapi.ActiveKeyInfo {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, falapi.ActiveKeyInfoPath, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var info falapi.ActiveKeyInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	return info
}

func TestSetKeyAcceptsPush(t *testing.T) {
	t.Setenv(EnvKey, "")
	srv := newServer(t, nil)

	w := postSetKey(t, srv, falapi.SetKeyRequest{Key: "fal-aaa111", Name: "prod"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp falapi.SetKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "prod", resp.ActiveKeyName)

	assert.Equal(t, "fal-aaa111", os.Getenv(EnvKey), "accepted key must be exported for job execution")
}

func TestSetKeyRejectsEmptyKey(t *testing.T) {
	t.Setenv(EnvKey, "")
	srv := newServer(t, nil)

	for _, key := range []string{"", "   ", "\t"} {
		w := postSetKey(t, srv, falapi.SetKeyRequest{Key: key, Name: "prod"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No key provided")
	}

	assert.Equal(t, "", getActiveKeyInfo(t, srv).ActiveKeyName, "rejected push must not change state")
}

func TestSetKeyUnnamedFallsBackToEnvLabel(t *testing.T) {
	t.Setenv(EnvKey, "")
	srv := newServer(t, nil)

	w := postSetKey(t, srv, falapi.SetKeyRequest{Key: "fal-aaa111"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "config / env", getActiveKeyInfo(t, srv).ActiveKeyName)
}

func TestActiveKeyInfoNeverLeaksKey(t *testing.T) {
	t.Setenv(EnvKey, "")
	srv := newServer(t, nil)

	postSetKey(t, srv, falapi.SetKeyRequest{Key: "fal-secret-value", Name: "prod"})

	req := httptest.NewRequest(http.MethodGet, falapi.ActiveKeyInfoPath, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.NotContains(t, w.Body.String(), "fal-secret-value")
}

func TestSetKeyPublishesStatusEvent(t *testing.T) {
	t.Setenv(EnvKey, "")

	bus := host.NewBus()
	var got host.KeyStatus
	bus.Subscribe(host.KeyStatusEvent, func(payload any) {
		got = payload.(host.KeyStatus)
	})

	srv := newServer(t, bus)
	postSetKey(t, srv, falapi.SetKeyRequest{Key: "fal-aaa111", Name: "staging"})

	assert.Equal(t, host.KeyStatus{ActiveKeyName: "staging"}, got)
}

func TestCloseStopsBackgroundSweeper(t *testing.T) {
	t.Setenv(EnvKey, "")
	before := runtime.NumGoroutine()

	srv := New(NewKeyState(), nil)
	srv.Close()
	srv.Close() // idempotent

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "sweeper goroutine must exit after Close")
}

func TestKeyStateSeededFromEnv(t *testing.T) {
	t.Setenv(EnvKey, "fal-from-env")

	state := NewKeyState()
	assert.Equal(t, "fal-from-env", state.Key())
	assert.Equal(t, "config / env", state.ActiveKeyName())
}

func TestKeyStateEmpty(t *testing.T) {
	t.Setenv(EnvKey, "")

	state := NewKeyState()
	assert.Equal(t, "", state.ActiveKeyName())
}
