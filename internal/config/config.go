package config

import (
	"errors"

	"github.com/spf13/viper"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY = "general-config"
	ROUTER_CONFIG_KEY  = "router-config"
	DEX_CONFIG_KEY     = "dex-config"
	ENGINE_CONFIG_KEY  = "engine-config"
)

// v reads configuration from the environment. godotenv loads .env into
// the process environment before any Load() runs.
var v = func() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()
	return vp
}()

func getString(key, def string) string {
	v.SetDefault(key, def)
	return v.GetString(key)
}

func getInt(key string, def int) int {
	v.SetDefault(key, def)
	return v.GetInt(key)
}

func getBool(key string, def bool) bool {
	v.SetDefault(key, def)
	return v.GetBool(key)
}

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string

	// Token-bucket rate limiting, per client IP.
	RateLimitRPS   int
	RateLimitBurst int
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = getString("HTTP_PORT", "8080")
	gc.HTTPHost = getString("HTTP_HOST", "localhost")
	gc.Env = getString("ENV", DevEnv)
	gc.LogLevel = getString("LOG_LEVEL", "INFO")
	gc.RateLimitRPS = getInt("RATE_LIMIT_RPS", 10)
	gc.RateLimitBurst = getInt("RATE_LIMIT_BURST", 20)
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	if gc.RateLimitRPS <= 0 || gc.RateLimitBurst <= 0 {
		return errors.New("rate limit parameters must be positive")
	}
	return nil
}
