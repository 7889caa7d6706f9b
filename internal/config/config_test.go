package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
mysql:
  host: db.internal
  database: shop
auth:
  jwt_secret: from-file
pricing:
  shipping_fee: "12.50"
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MYSQL_HOST", "db.override")
	t.Setenv("JWT_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "db.override", cfg.MySQL.Host)
	assert.Equal(t, "shop", cfg.MySQL.Database)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "12.50", cfg.Pricing.ShippingFee)
	assert.Equal(t, "0.10", cfg.Pricing.TaxRate)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RejectsBadPricing(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "s"
	cfg.Pricing.TaxRate = "ten percent"
	assert.Error(t, cfg.Validate())

	cfg.Pricing.TaxRate = "-0.1"
	assert.Error(t, cfg.Validate())
}

func TestMySQLDSN(t *testing.T) {
	m := MySQLConfig{User: "u", Password: "p", Host: "h", Port: "3306", Database: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=UTC", m.DSN())
}

func TestPricingPolicy(t *testing.T) {
	policy, err := Default().Pricing.Policy()
	require.NoError(t, err)
	assert.Equal(t, "0.1", policy.TaxRate.String())
	assert.Equal(t, "10000", policy.FreeShippingThreshold.String())
	assert.Equal(t, "500", policy.ShippingFee.String())

	_, err = PricingConfig{TaxRate: "0.1", FreeShippingThreshold: "x", ShippingFee: "1"}.Policy()
	assert.Error(t, err)
}
