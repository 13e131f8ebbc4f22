package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Configはアプリ全体の設定
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	AppEnv    string `envconfig:"APP_ENV" default:"dev"` // dev/prod
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json/console

	Commerce CommerceConfig
	Cart     CartConfig
	Postgres PostgresConfig
	Redis    RedisConfig

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"` // カートcookieの署名
	CookieSecure  bool   `envconfig:"COOKIE_SECURE" default:"true"`
	FEURL         string `envconfig:"FE_URL"` // CORS許可（空なら無効）
}

// ヘッドレスコマースAPI
type CommerceConfig struct {
	BaseURL  string        `envconfig:"COMMERCE_API_URL" required:"true"`
	Token    string        `envconfig:"COMMERCE_API_TOKEN"`
	LangCode string        `envconfig:"COMMERCE_LANG_CODE" default:"en_US"`
	Timeout  time.Duration `envconfig:"COMMERCE_TIMEOUT" default:"10s"`

	// 注文フォーム・決済アカウントの識別子
	OrderForm      string `envconfig:"COMMERCE_ORDER_FORM" default:"orderForm"`
	PaymentAccount string `envconfig:"COMMERCE_PAYMENT_ACCOUNT" default:"stripe"`
}

type CartConfig struct {
	StorageDriver string        `envconfig:"CART_STORAGE_DRIVER" default:"memory"` // memory/postgres/redis
	TTL           time.Duration `envconfig:"CART_TTL" default:"720h"`              // 保存期間（redis）
	IdleTTL       time.Duration `envconfig:"CART_IDLE_TTL" default:"30m"`          // メモリ上の保持
	SweepInterval time.Duration `envconfig:"CART_SWEEP_INTERVAL" default:"1m"`
	CookieMaxAge  time.Duration `envconfig:"CART_COOKIE_MAX_AGE" default:"720h"`
}

type PostgresConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	DB       string `envconfig:"POSTGRES_DB" default:"storefront"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// DATABASE_URL があれば最優先
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode,
	)
}

type RedisConfig struct {
	URL      string `envconfig:"REDIS_URL"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.AppEnv, "prod")
}

// Loadは.env（あれば）→環境変数の順で読む
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// 無いのは問題なし
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

//必須チェック
func (c Config) validate() error {
	if strings.TrimSpace(c.Commerce.BaseURL) == "" {
		return errors.New("COMMERCE_API_URL is required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	switch c.Cart.StorageDriver {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("CART_STORAGE_DRIVER must be one of memory/postgres/redis: %q", c.Cart.StorageDriver)
	}
	if c.Cart.StorageDriver == StorageRedis && c.Redis.URL == "" && c.Redis.Addr == "" {
		return errors.New("REDIS_URL or REDIS_ADDR is required")
	}
	return nil
}
