package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(`
[auth]
jwt_secret = "secret"
`)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, LockBackendLocal, cfg.Booking.LockBackend)
	assert.Equal(t, 14, cfg.Booking.HorizonDays)
	assert.Equal(t, "America/Montevideo", cfg.Booking.Location().String())
	assert.False(t, cfg.Notifications.Enabled)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{name: "missing jwt secret", toml: ``},
		{name: "unknown driver", toml: "[auth]\njwt_secret='s'\n[database]\ndriver='mysql'"},
		{name: "postgres without host", toml: "[auth]\njwt_secret='s'\n[database]\ndriver='postgres'\ndbname='x'"},
		{name: "unknown lock backend", toml: "[auth]\njwt_secret='s'\n[booking]\nlock_backend='etcd'"},
		{name: "bad timezone", toml: "[auth]\njwt_secret='s'\n[booking]\ntimezone='Mars/Olympus'"},
		{name: "twilio without credentials", toml: "[auth]\njwt_secret='s'\n[notifications]\nenabled=true\n[notifications.twilio]\nenabled=true"},
		{name: "sendgrid without key", toml: "[auth]\njwt_secret='s'\n[notifications]\nenabled=true\n[notifications.sendgrid]\nenabled=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Parse("[server")
	assert.Error(t, err)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")
	t.Setenv("TEST_DB_PASSWORD", "p@ss")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
driver = "postgres"
host = "db"
user = "booking"
password = "${TEST_DB_PASSWORD}"
dbname = "courts"

[auth]
jwt_secret = "${TEST_JWT_SECRET}"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://booking:p%40ss@db:5432/courts?sslmode=disable", cfg.Database.DSN())
}

func TestDSN_SQLite(t *testing.T) {
	d := DatabaseConfig{Driver: DriverSQLite, Path: "data/court.db"}
	assert.Equal(t, "file:data/court.db?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", d.DSN())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
