package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env         string        `yaml:"env"`
	Port        string        `yaml:"port"`
	FrontendURL string        `yaml:"frontend_url"`
	MySQL       MySQLConfig   `yaml:"mysql"`
	Redis       RedisConfig   `yaml:"redis"`
	RabbitMQ    RabbitConfig  `yaml:"rabbitmq"`
	Auth        AuthConfig    `yaml:"auth"`
	Pricing     PricingConfig `yaml:"pricing"`
}

type MySQLConfig struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	DB   int    `yaml:"db"`
}

func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RabbitConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type PricingConfig struct {
	TaxRate               string `yaml:"tax_rate"`
	FreeShippingThreshold string `yaml:"free_shipping_threshold"`
	ShippingFee           string `yaml:"shipping_fee"`
}

// Policy parses the pricing knobs into the policy used by cart and checkout.
func (p PricingConfig) Policy() (domain.PricingPolicy, error) {
	tax, err := decimal.NewFromString(p.TaxRate)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("config: pricing tax_rate: %w", err)
	}
	threshold, err := decimal.NewFromString(p.FreeShippingThreshold)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("config: pricing free_shipping_threshold: %w", err)
	}
	fee, err := decimal.NewFromString(p.ShippingFee)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("config: pricing shipping_fee: %w", err)
	}
	return domain.PricingPolicy{TaxRate: tax, FreeShippingThreshold: threshold, ShippingFee: fee}, nil
}

func Default() *Config {
	return &Config{
		Env:         "development",
		Port:        "8080",
		FrontendURL: "http://localhost:3000",
		MySQL: MySQLConfig{
			Host:            "localhost",
			Port:            "3306",
			Database:        "storefront",
			MaxOpenConns:    100,
			MaxIdleConns:    20,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis:    RedisConfig{Port: "6379"},
		RabbitMQ: RabbitConfig{Exchange: "storefront.exchange"},
		Auth:     AuthConfig{TokenTTL: 72 * time.Hour},
		Pricing: PricingConfig{
			TaxRate:               "0.10",
			FreeShippingThreshold: "10000",
			ShippingFee:           "500",
		},
	}
}

// Load reads defaults, then the YAML file named by CONFIG_FILE (if any),
// then environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = str("APP_ENV", c.Env)
	c.Port = str("PORT", c.Port)
	c.FrontendURL = str("FRONTEND_URL", c.FrontendURL)

	c.MySQL.User = str("MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = str("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.Host = str("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.Port = str("MYSQL_PORT", c.MySQL.Port)
	c.MySQL.Database = str("MYSQL_DATABASE", c.MySQL.Database)
	c.MySQL.MaxOpenConns = integer("MYSQL_MAX_OPEN_CONNS", c.MySQL.MaxOpenConns)
	c.MySQL.MaxIdleConns = integer("MYSQL_MAX_IDLE_CONNS", c.MySQL.MaxIdleConns)

	c.Redis.Host = str("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = str("REDIS_PORT", c.Redis.Port)

	c.RabbitMQ.URL = str("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Exchange = str("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)

	c.Auth.JWTSecret = str("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = duration("JWT_TTL", c.Auth.TokenTTL)

	c.Pricing.TaxRate = str("TAX_RATE", c.Pricing.TaxRate)
	c.Pricing.FreeShippingThreshold = str("FREE_SHIPPING_THRESHOLD", c.Pricing.FreeShippingThreshold)
	c.Pricing.ShippingFee = str("SHIPPING_FEE", c.Pricing.ShippingFee)
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: token ttl must be positive")
	}
	for name, v := range map[string]string{
		"tax_rate":                c.Pricing.TaxRate,
		"free_shipping_threshold": c.Pricing.FreeShippingThreshold,
		"shipping_fee":            c.Pricing.ShippingFee,
	} {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("config: pricing %s: %w", name, err)
		}
		if d.IsNegative() {
			return fmt.Errorf("config: pricing %s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func integer(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
