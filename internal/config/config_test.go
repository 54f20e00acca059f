package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CONFIG_FILE", "PORT", "DB_DSN", "LOG_FILE", "ADMIN_SECRET", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pixelmart.db", cfg.DBDSN)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelmart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
db_dsn: postgres://shop:pw@db:5432/shop
kafka_brokers: [k1:9092]
admin_secret: from-file
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("ADMIN_SECRET", "from-env")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://shop:pw@db:5432/shop", cfg.DBDSN)
	assert.Equal(t, "from-env", cfg.AdminSecret)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://shop:***@db:5432/shop", redactDSN("postgres://shop:pw@db:5432/shop"))
	assert.Equal(t, "pixelmart.db", redactDSN("pixelmart.db"))
}
