package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigGet(t *testing.T) {
	cfg := &Config{
		HostURL: "http://localhost:8188",
		Store:   "file",
	}

	tests := []struct {
		key  string
		want string
	}{
		{"host_url", "http://localhost:8188"},
		{"store", "file"},
		{"listen_addr", ""},
		{"default_output", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown key returns error", func(t *testing.T) {
		_, err := cfg.Get("region")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown config key")
	})
}

func TestResolvedHostURL(t *testing.T) {
	assert.Equal(t, DefaultHostURL, (&Config{}).ResolvedHostURL())
	assert.Equal(t, "http://10.0.0.5:8188", (&Config{HostURL: "http://10.0.0.5:8188"}).ResolvedHostURL())
}

func TestResolvedListenAddr(t *testing.T) {
	assert.Equal(t, DefaultListenAddr, (&Config{}).ResolvedListenAddr())
	assert.Equal(t, ":9000", (&Config{ListenAddr: ":9000"}).ResolvedListenAddr())
}
