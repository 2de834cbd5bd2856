package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type APIConfig struct {
	Port             int           `yaml:"port"`
	JWTSecret        string        `yaml:"jwt_secret"`
	VerifyRateLimit  int           `yaml:"verify_rate_limit"` // calls per window per user
	VerifyRateWindow time.Duration `yaml:"verify_rate_window"`
}

// SolanaConfig drives the on-chain verification pipeline. An empty
// TreasuryWallet disables the whole subsystem.
type SolanaConfig struct {
	RPCURL               string        `yaml:"rpc_url"`
	Cluster              string        `yaml:"cluster"` // mainnet-beta | devnet | testnet
	TreasuryWallet       string        `yaml:"treasury_wallet"`
	PollAttempts         int           `yaml:"poll_attempts"`
	PollInterval         time.Duration `yaml:"poll_interval"`
	ToleranceBps         int64         `yaml:"tolerance_bps"` // underpayment tolerance, basis points
	ToleranceMinLamports int64         `yaml:"tolerance_min_lamports"`
}

type OracleConfig struct {
	Endpoint        string        `yaml:"endpoint"`
	FallbackUsdRate float64       `yaml:"fallback_usd_rate"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	Timeout         time.Duration `yaml:"timeout"`
}

type SweeperConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"` // how long pending intents live
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	API      APIConfig      `yaml:"api"`
	Solana   SolanaConfig   `yaml:"solana"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.PoolSize <= 0 {
		cfg.Database.PoolSize = 10
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.VerifyRateLimit <= 0 {
		cfg.API.VerifyRateLimit = 10
	}
	if cfg.API.VerifyRateWindow <= 0 {
		cfg.API.VerifyRateWindow = time.Minute
	}
	if cfg.Solana.Cluster == "" {
		cfg.Solana.Cluster = "mainnet-beta"
	}
	if cfg.Solana.PollAttempts <= 0 {
		cfg.Solana.PollAttempts = 30
	}
	if cfg.Solana.PollInterval <= 0 {
		cfg.Solana.PollInterval = 2 * time.Second
	}
	if cfg.Solana.ToleranceBps <= 0 {
		cfg.Solana.ToleranceBps = 100 // 1%
	}
	if cfg.Solana.ToleranceMinLamports <= 0 {
		cfg.Solana.ToleranceMinLamports = 1000
	}
	if cfg.Oracle.FallbackUsdRate <= 0 {
		cfg.Oracle.FallbackUsdRate = 150.0
	}
	if cfg.Oracle.CacheTTL <= 0 {
		cfg.Oracle.CacheTTL = 5 * time.Minute
	}
	if cfg.Oracle.Timeout <= 0 {
		cfg.Oracle.Timeout = 5 * time.Second
	}
	if cfg.Sweeper.Interval <= 0 {
		cfg.Sweeper.Interval = 10 * time.Minute
	}
	if cfg.Sweeper.Retention <= 0 {
		cfg.Sweeper.Retention = time.Hour
	}
}

// PaymentsEnabled reports whether the Solana subsystem is usable. The
// treasury wallet is the one piece of configuration nothing can default.
func (c *Config) PaymentsEnabled() bool {
	return c.Solana.TreasuryWallet != ""
}
