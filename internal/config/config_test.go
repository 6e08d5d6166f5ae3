package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
[server]
http_port = 8080
read_timeout = 15
write_timeout = 15
idle_timeout = 60
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "pawfield"
password = "secret"
dbname = "pf_booking"
sslmode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = 300

[logs]
file = "logs/booking-service.log"
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "pf-booking-service"

[rate_limit]
enabled = true
rps = 20.0
burst = 40

[client_service]
url = "http://localhost:8081"
timeout = 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "pf_booking", cfg.Database.DBName)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, "http://localhost:8081", cfg.ClientService.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6432")
	t.Setenv("PG_PASSWORD", "from-env")
	t.Setenv("CLIENT_SERVICE_URL", "http://clients.internal")

	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "http://clients.internal", cfg.ClientService.URL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg string) string
		wantErr string
	}{
		{
			name:    "zero http port",
			mutate:  func(cfg string) string { return replaceLine(cfg, "http_port = 8080", "http_port = 0") },
			wantErr: "server.http_port",
		},
		{
			name:    "missing db host",
			mutate:  func(cfg string) string { return replaceLine(cfg, `host = "localhost"`, `host = ""`) },
			wantErr: "database.host",
		},
		{
			name:    "metrics enabled without path",
			mutate:  func(cfg string) string { return replaceLine(cfg, `path = "/metrics"`, `path = ""`) },
			wantErr: "metrics.path",
		},
		{
			name:    "rate limit enabled with zero rps",
			mutate:  func(cfg string) string { return replaceLine(cfg, "rps = 20.0", "rps = 0.0") },
			wantErr: "rate_limit.rps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mutate(validTOML)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "pawfield",
		Password: "secret",
		DBName:   "pf_booking",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=pawfield password=secret dbname=pf_booking sslmode=disable",
		cfg.DSN())
}

func replaceLine(cfg, old, new string) string {
	return strings.Replace(cfg, old, new, 1)
}
