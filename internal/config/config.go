package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL                 string
	ManagerAddress         string
	TokenAddress           string
	WalletConnectProjectID string
	PrivateKey             string
	ListLimit              int
	PollInterval           time.Duration
	CacheTTL               time.Duration
	PGDSN                  string
	Out                    string
	LogLevel               string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("list-limit", 5)
	v.SetDefault("poll-interval", 15*time.Second)
	v.SetDefault("cache-ttl", 10*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:                 v.GetString("rpc"),
		ManagerAddress:         v.GetString("manager"),
		TokenAddress:           v.GetString("token"),
		WalletConnectProjectID: v.GetString("walletconnect-project-id"),
		PrivateKey:             v.GetString("private-key"),
		ListLimit:              v.GetInt("list-limit"),
		PollInterval:           v.GetDuration("poll-interval"),
		CacheTTL:               v.GetDuration("cache-ttl"),
		PGDSN:                  v.GetString("pg-dsn"),
		Out:                    v.GetString("out"),
		LogLevel:               v.GetString("log-level"),
	}

	return cfg, nil
}
