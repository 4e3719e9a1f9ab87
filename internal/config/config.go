package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Database   DatabaseConfig   `envPrefix:"DATABASE_"`
	Cloudinary CloudinaryConfig `envPrefix:"CLOUDINARY_"`
	Auth       AuthConfig       `envPrefix:"AUTH_"`
	Kafka      KafkaConfig      `envPrefix:"KAFKA_"`
	Catalog    CatalogConfig    `envPrefix:"CATALOG_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
	// AllowedOrigins is a regexp matched against the Origin header for
	// dashboard CORS.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"^https?://localhost(:\\d+)?$"`
}

type DatabaseConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"catalog"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUD_NAME,required"`
	APIKey    string `env:"API_KEY,required"`
	APISecret string `env:"API_SECRET,required"`
	Folder    string `env:"FOLDER" envDefault:"tk-online-catalog"`
	// AllowedImageHost restricts which remote hosts product images may be
	// served from. Deployment wiring only, never consulted by core logic.
	AllowedImageHost string `env:"ALLOWED_IMAGE_HOST" envDefault:"res.cloudinary.com"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL,required"`
	AdminPassword string        `env:"ADMIN_PASSWORD_HASH,required"` // bcrypt hash
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"catalog-events"`
}

type CatalogConfig struct {
	PageSize      int           `env:"PAGE_SIZE" envDefault:"10"`
	RelatedLimit  int           `env:"RELATED_LIMIT" envDefault:"6"`
	ListTTL       time.Duration `env:"LIST_TTL" envDefault:"5m"`
	DetailSeedTTL time.Duration `env:"DETAIL_SEED_TTL" envDefault:"10s"`
	// DeleteMode picks how persisted-image removal behaves during edits:
	// "deferred" batches destroys at submit time, "immediate" destroys at
	// click time.
	DeleteMode string `env:"DELETE_MODE" envDefault:"deferred"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
