package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "ledger", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	assert.Equal(t, time.Hour, cfg.OverdueSweepInterval)
	assert.Equal(t, 200, cfg.OverdueSweepBatch)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("DB_LOCK_TIMEOUT", "750ms")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.DBLockTimeout)
	assert.Equal(t, 15*time.Minute, cfg.OverdueSweepInterval)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		StoreDriver:       DriverPostgres,
		DatabaseURL:       "postgres://localhost/ledger",
		MongoDatabase:     "ledger",
		OverdueSweepBatch: 100,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid postgres", mutate: func(*Config) {}},
		{name: "postgres without url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "mongo without uri", mutate: func(c *Config) { c.StoreDriver = DriverMongo }, wantErr: "MONGO_URI"},
		{name: "mongo", mutate: func(c *Config) { c.StoreDriver = DriverMongo; c.MongoURI = "mongodb://localhost" }},
		{name: "memory needs nothing", mutate: func(c *Config) { c.StoreDriver = DriverMemory; c.DatabaseURL = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantErr: "STORE_DRIVER"},
		{name: "zero batch", mutate: func(c *Config) { c.OverdueSweepBatch = 0 }, wantErr: "OVERDUE_SWEEP_BATCH"},
		{name: "negative lock timeout", mutate: func(c *Config) { c.DBLockTimeout = -time.Second }, wantErr: "DB_LOCK_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
