package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMongo  = "mongo"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	Env      string `yaml:"env" env:"DNSBOT_ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		BotName string `yaml:"bot_name" env-default:"DnsBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Cloudflare struct {
		ApiToken  string        `yaml:"api_token" env:"CLOUDFLARE_API_TOKEN" env-default:""`
		AccountID string        `yaml:"account_id" env:"CLOUDFLARE_ACCOUNT_ID" env-default:""`
		BaseURL   string        `yaml:"base_url" env-default:"https://api.cloudflare.com/client/v4"`
		Timeout   time.Duration `yaml:"timeout" env-default:"15s"`
	} `yaml:"cloudflare"`
	Storage struct {
		Backend string `yaml:"backend" env-default:"memory"`
	} `yaml:"storage"`
	Mongo struct {
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env-default:"dnsbot"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string        `yaml:"addr" env-default:"127.0.0.1:6379"`
		Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int           `yaml:"db" env-default:"0"`
		Prefix   string        `yaml:"prefix" env-default:"dnsbot"`
		TTL      time.Duration `yaml:"ttl" env-default:"0s"`
	} `yaml:"redis"`
	Listen struct {
		Enabled bool   `yaml:"enabled" env-default:"true"`
		BindIP  string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string `yaml:"port" env-default:"9100"`
		ApiKey  string `yaml:"key" env:"DNSBOT_API_KEY" env-default:""`
	} `yaml:"listen"`
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMongo, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Telegram.Enabled && c.Telegram.ApiKey == "" {
		return fmt.Errorf("telegram is enabled but api_key is empty")
	}
	if c.Cloudflare.ApiToken == "" {
		return fmt.Errorf("cloudflare api_token is empty")
	}
	return nil
}

// Load reads the config file and the environment.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return conf, nil
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		var err error
		instance, err = Load(path)
		if err != nil {
			log.Fatal(err)
		}
	})
	return instance
}
