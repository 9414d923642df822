package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`
	Owner struct {
		Token string `yaml:"token"`
	} `yaml:"owner"`
	Auction struct {
		Denom string `yaml:"denom"`
	} `yaml:"auction"`
	Epoch struct {
		GenesisUnix     int64 `yaml:"genesis_unix"`
		IntervalSeconds int64 `yaml:"interval_seconds"`
	} `yaml:"epoch"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.Owner.Token == "" {
		return nil, errors.New("owner.token is required")
	}
	if cfg.Auction.Denom == "" {
		return nil, errors.New("auction.denom is required")
	}
	if cfg.Epoch.IntervalSeconds <= 0 {
		cfg.Epoch.IntervalSeconds = 60
	}
	return &cfg, nil
}

// EpochInterval returns the configured epoch length.
func (c *Config) EpochInterval() time.Duration {
	return time.Duration(c.Epoch.IntervalSeconds) * time.Second
}

// EpochGenesis returns the configured genesis instant.
func (c *Config) EpochGenesis() time.Time {
	return time.Unix(c.Epoch.GenesisUnix, 0).UTC()
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("OWNER_TOKEN"); v != "" {
		cfg.Owner.Token = v
	}
	if v := os.Getenv("AUCTION_DENOM"); v != "" {
		cfg.Auction.Denom = v
	}
	if v := os.Getenv("EPOCH_GENESIS_UNIX"); v != "" {
		cfg.Epoch.GenesisUnix = atoi64Or(cfg.Epoch.GenesisUnix, v)
	}
	if v := os.Getenv("EPOCH_INTERVAL_SECONDS"); v != "" {
		cfg.Epoch.IntervalSeconds = atoi64Or(cfg.Epoch.IntervalSeconds, v)
	}
}

func atoi64Or(fallback int64, v string) int64 {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
