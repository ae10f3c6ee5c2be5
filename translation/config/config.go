// Package config resolve a configuração do processo uma única vez, a partir
// do ambiente (prefixo GAS_) e de flags ligadas na mesma instância do viper.
//
// Erros aqui são fatais para o binário: sem endpoint não existe tradução.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var (
	ErrMissing = errors.New("required configuration is missing")
	ErrInvalid = errors.New("invalid configuration value")
)

const (
	KeyURL          = "translation.url"
	KeyLimit        = "translation.limit"
	KeyLimitEnabled = "translation.limit_enabled"
	KeyFair         = "translation.fair"
	KeyCallTimeout  = "translation.call_timeout"

	KeyStatsEnabled       = "stats.enabled"
	KeyStatsRedisAddr     = "stats.redis_addr"
	KeyStatsRedisPassword = "stats.redis_password"
	KeyStatsRedisDB       = "stats.redis_db"
	KeyStatsPrefix        = "stats.prefix"
	KeyStatsTTL           = "stats.ttl"

	KeyListenAddr  = "server.listen_addr"
	KeyRateEnabled = "server.rate_enabled"
	KeyRateRPS     = "server.rate_rps"
	KeyRateBurst   = "server.rate_burst"
	KeyKeyHeader   = "server.key_header"
	KeyTrustXFF    = "server.trust_xff"
	KeyRetryAfter  = "server.retry_after"
)

// DefaultLimit é o teto de concorrência quando GAS_TRANSLATION_LIMIT não está definido.
const DefaultLimit = 3

type Limit struct {
	Enabled bool
	Max     int

	// Fair troca o gate de polling (sem ordem) por um gate FIFO.
	Fair bool
}

type Stats struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

type Server struct {
	ListenAddr  string
	RateEnabled bool
	RateRPS     float64
	RateBurst   int
	KeyHeader   string
	TrustXFF    bool
	RetryAfter  time.Duration
}

type Config struct {
	Endpoint    string
	Limit       Limit
	CallTimeout time.Duration
	Stats       Stats
	Server      Server
}

// NewViper cria uma instância ligada às variáveis GAS_* (ex: translation.url -> GAS_TRANSLATION_URL).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLimitEnabled, true)
	v.SetDefault(KeyFair, false)
	v.SetDefault(KeyCallTimeout, "0s")

	v.SetDefault(KeyStatsEnabled, false)
	v.SetDefault(KeyStatsRedisDB, 0)
	v.SetDefault(KeyStatsPrefix, "translation:stats")
	v.SetDefault(KeyStatsTTL, "24h")

	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyRateEnabled, true)
	v.SetDefault(KeyRateRPS, 10)
	v.SetDefault(KeyRateBurst, 20)
	v.SetDefault(KeyTrustXFF, false)
	v.SetDefault(KeyRetryAfter, "1s")
	return v
}

// Load lê e valida a configuração. Nada é lido de novo depois disso.
func Load(v *viper.Viper) (Config, error) {
	p := parser{v: v}
	cfg := Config{}

	cfg.Endpoint = strings.TrimSpace(v.GetString(KeyURL))
	if cfg.Endpoint == "" {
		return Config{}, fmt.Errorf("%w: GAS_TRANSLATION_URL is not set", ErrMissing)
	}

	cfg.Limit.Enabled = p.getBool(KeyLimitEnabled)
	cfg.Limit.Fair = p.getBool(KeyFair)
	cfg.Limit.Max = DefaultLimit
	if cfg.Limit.Enabled {
		// O viper trata variável vazia como ausente; aqui vazia é erro.
		raw := v.GetString(KeyLimit)
		if _, set := os.LookupEnv(envName(KeyLimit)); raw == "" && set {
			return Config{}, fmt.Errorf("%w: GAS_TRANSLATION_LIMIT is set but empty", ErrInvalid)
		}
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Config{}, fmt.Errorf("%w: the value 'GAS_TRANSLATION_LIMIT=%s' is invalid", ErrInvalid, raw)
			}
			if n <= 0 {
				return Config{}, fmt.Errorf("%w: GAS_TRANSLATION_LIMIT must be > 0, got %d", ErrInvalid, n)
			}
			cfg.Limit.Max = n
		}
	}
	cfg.CallTimeout = p.getDuration(KeyCallTimeout)

	cfg.Stats.Enabled = p.getBool(KeyStatsEnabled)
	cfg.Stats.RedisAddr = strings.TrimSpace(v.GetString(KeyStatsRedisAddr))
	cfg.Stats.RedisPassword = v.GetString(KeyStatsRedisPassword)
	cfg.Stats.RedisDB = p.getInt(KeyStatsRedisDB)
	cfg.Stats.Prefix = v.GetString(KeyStatsPrefix)
	cfg.Stats.TTL = p.getDuration(KeyStatsTTL)

	cfg.Server.ListenAddr = v.GetString(KeyListenAddr)
	cfg.Server.RateEnabled = p.getBool(KeyRateEnabled)
	cfg.Server.RateRPS = p.getFloat(KeyRateRPS)
	cfg.Server.RateBurst = p.getInt(KeyRateBurst)
	cfg.Server.KeyHeader = v.GetString(KeyKeyHeader)
	cfg.Server.TrustXFF = p.getBool(KeyTrustXFF)
	cfg.Server.RetryAfter = p.getDuration(KeyRetryAfter)

	if p.err != nil {
		return Config{}, p.err
	}
	if cfg.CallTimeout < 0 {
		return Config{}, fmt.Errorf("%w: GAS_TRANSLATION_CALL_TIMEOUT must be >= 0", ErrInvalid)
	}
	if cfg.Stats.Enabled && cfg.Stats.RedisAddr == "" {
		return Config{}, fmt.Errorf("%w: GAS_STATS_REDIS_ADDR is required when GAS_STATS_ENABLED=true", ErrMissing)
	}
	if cfg.Server.RateEnabled {
		if cfg.Server.RateRPS <= 0 {
			return Config{}, fmt.Errorf("%w: GAS_SERVER_RATE_RPS must be > 0", ErrInvalid)
		}
		if cfg.Server.RateBurst <= 0 {
			return Config{}, fmt.Errorf("%w: GAS_SERVER_RATE_BURST must be > 0", ErrInvalid)
		}
	}
	return cfg, nil
}

// parser guarda o primeiro erro de conversão para não repetir if err != nil em cada campo.
type parser struct {
	v   *viper.Viper
	err error
}

func (p *parser) fail(key string, raw any, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%v: %v", ErrInvalid, envName(key), raw, err)
	}
}

func (p *parser) getBool(key string) bool {
	raw := p.v.Get(key)
	b, err := cast.ToBoolE(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return b
}

func (p *parser) getInt(key string) int {
	raw := p.v.Get(key)
	if s, ok := raw.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			p.fail(key, raw, err)
		}
		return n
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return n
}

func (p *parser) getFloat(key string) float64 {
	raw := p.v.Get(key)
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return f
}

func (p *parser) getDuration(key string) time.Duration {
	raw := p.v.Get(key)
	d, err := cast.ToDurationE(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return d
}

func envName(key string) string {
	return "GAS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
