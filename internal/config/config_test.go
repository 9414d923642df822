package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
owner:
  token: "secret"
auction:
  denom: "xrd"
epoch:
  genesis_unix: 100
  interval_seconds: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "xrd", cfg.Auction.Denom)
	require.Equal(t, 30*time.Second, cfg.EpochInterval())
	require.Equal(t, time.Unix(100, 0).UTC(), cfg.EpochGenesis())
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
owner:
  token: "secret"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadDefaultsInterval(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
owner:
  token: "secret"
auction:
  denom: "xrd"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Minute, cfg.EpochInterval())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
owner:
  token: "secret"
auction:
  denom: "xrd"
`)
	t.Setenv("AUCTION_DENOM", "doge")
	t.Setenv("EPOCH_INTERVAL_SECONDS", "15")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "doge", cfg.Auction.Denom)
	require.Equal(t, 15*time.Second, cfg.EpochInterval())
}
