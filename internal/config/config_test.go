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
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults_When_Missing(t *testing.T) {
	req := require.New(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	req.NoError(err)
	req.Equal(8080, cfg.Port)
	req.Equal("memory", cfg.Presence.Backend)
	req.Equal(54*time.Second, cfg.WS.PingPeriod)
	req.Equal(5, cfg.Requests.Limit)
	req.Equal("kick", cfg.WS.Backpressure)
	req.Len(cfg.ICEServers, 1)
	req.Equal([]string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}

func TestLoadFile_Reads_Yaml(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `
mode: debug
port: 9000
allowed_origins: ["http://localhost:5173"]
ws:
  send_buffer: 8
  backpressure: drop
auth:
  jwt_secret: s3cret
  require_token: true
presence:
  backend: sqlite
  sqlite_path: /tmp/presence.db
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: bob
    credential: pw
`)

	cfg, err := LoadFile(path)

	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(9000, cfg.Port)
	req.Equal([]string{"http://localhost:5173"}, cfg.AllowedOrigins)
	req.Equal(8, cfg.WS.SendBuffer)
	req.Equal("drop", cfg.WS.Backpressure)
	req.True(cfg.Auth.RequireToken)
	req.Equal("sqlite", cfg.Presence.Backend)
	req.Equal([]ICEServer{{URLs: []string{"turn:turn.example.com:3478"}, Username: "bob", Credential: "pw"}}, cfg.ICEServers)
}

func TestLoadFile_Env_Overrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("INTERVIEW_PORT", "7000")
	t.Setenv("INTERVIEW_PRESENCE_BACKEND", "postgres")
	t.Setenv("INTERVIEW_PRESENCE_DATABASE_URL", "postgres://localhost/app")

	cfg, err := LoadFile(writeConfig(t, "mode: release\n"))

	req.NoError(err)
	req.Equal(7000, cfg.Port)
	req.Equal("postgres", cfg.Presence.Backend)
	req.Equal("postgres://localhost/app", cfg.Presence.DatabaseURL)
}

func TestLoadFile_Rejects_Invalid(t *testing.T) {
	req := require.New(t)

	_, err := LoadFile(writeConfig(t, "auth:\n  require_token: true\n"))
	req.Error(err)

	_, err = LoadFile(writeConfig(t, "presence:\n  backend: mongo\n"))
	req.Error(err)

	_, err = LoadFile(writeConfig(t, "ws:\n  ping_period: 90s\n"))
	req.Error(err)

	_, err = LoadFile(writeConfig(t, "ws:\n  backpressure: block\n"))
	req.Error(err)
}
