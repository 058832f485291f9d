package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FORGESTORE"

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Admin   AdminConfig
	Kafka   KafkaConfig
	Metrics MetricsConfig
	Shop    ShopConfig
	Gateway GatewayConfig
}

// Load reads an optional .env file and then the environment. The port
// default depends on the service being started.
func Load(defaultPort string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.App.Port == "" {
		cfg.App.Port = defaultPort
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"FORGESTORE_APP_ENV" default:"dev"`
	Port     string `envconfig:"FORGESTORE_PORT"`
	LogLevel string `envconfig:"FORGESTORE_LOG_LEVEL" default:"info"`
}

func (a AppConfig) Addr() string { return ":" + a.Port }

// DBConfig: an empty DSN selects the in-memory stores.
type DBConfig struct {
	DSN string `envconfig:"FORGESTORE_DB_DSN"`
}

type RedisConfig struct {
	URL  string `envconfig:"FORGESTORE_REDIS_URL"`
	Addr string `envconfig:"FORGESTORE_REDIS_ADDR"`
}

func (r RedisConfig) Enabled() bool { return r.URL != "" || r.Addr != "" }

type JWTConfig struct {
	Secret     string        `envconfig:"FORGESTORE_JWT_SECRET" default:"dev-secret"`
	SessionTTL time.Duration `envconfig:"FORGESTORE_SESSION_TTL" default:"12h"`
}

type AdminConfig struct {
	Email      string `envconfig:"FORGESTORE_ADMIN_EMAIL"`
	Password   string `envconfig:"FORGESTORE_ADMIN_PASSWORD"`
	HiddenPath string `envconfig:"FORGESTORE_ADMIN_HIDDEN_PATH" default:"/forge-gate"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"FORGESTORE_KAFKA_BROKERS"`
	Topic   string   `envconfig:"FORGESTORE_KAFKA_ORDER_TOPIC" default:"store.order.copied"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type MetricsConfig struct {
	Enabled bool   `envconfig:"FORGESTORE_METRICS_ENABLED" default:"true"`
	Token   string `envconfig:"FORGESTORE_METRICS_TOKEN"`
}

type ShopConfig struct {
	ContactURL string `envconfig:"FORGESTORE_CONTACT_URL" default:"https://www.tiktok.com/@imnotok_793"`
	StatusID   int64  `envconfig:"FORGESTORE_STATUS_ID" default:"1"`
}

type GatewayConfig struct {
	StorefrontURL string `envconfig:"FORGESTORE_STOREFRONT_URL" default:"http://storefront:8082"`
	AdminURL      string `envconfig:"FORGESTORE_ADMIN_URL" default:"http://admin:8081"`
}
