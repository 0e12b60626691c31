package falapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falstudio/falkey/internal/keystore"
)

func TestPushActiveSendsKeyAndName(t *testing.T) {
	var got SetKeyRequest
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SetKeyPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(SetKeyResponse{Status: "ok", ActiveKeyName: got.Name})
	}))
	defer srv.Close()

	store := keystore.NewMemStore()
	require.NoError(t, store.SaveAll(map[string]string{"prod": "fal-aaa111"}))
	require.NoError(t, store.SetActiveName("prod"))

	NewClient(srv.URL, store).PushActive(context.Background())

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, SetKeyRequest{Key: "fal-aaa111", Name: "prod"}, got)
}

func TestPushActiveNoActiveNameIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	store := keystore.NewMemStore()
	require.NoError(t, store.SaveAll(map[string]string{"prod": "fal-aaa111"}))

	NewClient(srv.URL, store).PushActive(context.Background())

	assert.Equal(t, int32(0), calls.Load(), "unset active name must not hit the network")
}

func TestPushActiveDanglingNameIsNoop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	store := keystore.NewMemStore()
	require.NoError(t, store.SetActiveName("deleted-key"))

	NewClient(srv.URL, store).PushActive(context.Background())

	assert.Equal(t, int32(0), calls.Load(), "dangling active name must not hit the network")
}

func TestPushActiveSwallowsServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := keystore.NewMemStore()
	require.NoError(t, store.SaveAll(map[string]string{"prod": "fal-aaa111"}))
	require.NoError(t, store.SetActiveName("prod"))

	// Must not panic or retry; exactly one attempt.
	NewClient(srv.URL, store).PushActive(context.Background())

	assert.Equal(t, int32(1), calls.Load(), "push is never retried")
}

func TestPushActiveSwallowsConnectionError(t *testing.T) {
	store := keystore.NewMemStore()
	require.NoError(t, store.SaveAll(map[string]string{"prod": "fal-aaa111"}))
	require.NoError(t, store.SetActiveName("prod"))

	// Nothing listens here; the failure must stay internal.
	NewClient("http://127.0.0.1:1", store).PushActive(context.Background())
}

func TestActiveKeyName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ActiveKeyInfoPath, r.URL.Path)
		json.NewEncoder(w).Encode(ActiveKeyInfo{ActiveKeyName: "prod"})
	}))
	defer srv.Close()

	name, err := NewClient(srv.URL, keystore.NewMemStore()).ActiveKeyName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prod", name)
}

func TestActiveKeyNameRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ActiveKeyInfo{ActiveKeyName: "staging"})
	}))
	defer srv.Close()

	name, err := NewClient(srv.URL, keystore.NewMemStore()).ActiveKeyName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "staging", name)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}
