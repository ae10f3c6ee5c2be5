package main

import (
	"context"
	"fmt"
	"time"

	"translation-proxy/translation"
	"translation-proxy/translation/config"
	"translation-proxy/translation/domain"
	"translation-proxy/translation/infra"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:           "translate-proxy",
		Short:         "Concurrency-bounded client for a remote translation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.String("url", "", "translation endpoint (GAS_TRANSLATION_URL)")
	pf.String("limit", "", "max concurrent translations (GAS_TRANSLATION_LIMIT, default 3)")
	pf.Bool("no-limit", false, "disable the concurrency limit")
	pf.Bool("fair", false, "admit waiters in arrival order (GAS_TRANSLATION_FAIR)")
	pf.Duration("call-timeout", 0, "timeout for the remote call only (GAS_TRANSLATION_CALL_TIMEOUT)")
	pf.Bool("debug", false, "debug logging")

	mustBind(v, config.KeyURL, pf.Lookup("url"))
	mustBind(v, config.KeyLimit, pf.Lookup("limit"))
	mustBind(v, config.KeyFair, pf.Lookup("fair"))
	mustBind(v, config.KeyCallTimeout, pf.Lookup("call-timeout"))

	root.AddCommand(newServeCmd(v))
	root.AddCommand(newTranslateCmd(v))
	return root
}

// app agrupa o que os subcomandos precisam depois de ler a configuração.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	client *translation.Client
	close  func()
}

func newApp(cmd *cobra.Command, v *viper.Viper) (*app, error) {
	if noLimit, _ := cmd.Flags().GetBool("no-limit"); noLimit {
		v.Set(config.KeyLimitEnabled, false)
	}
	debug, _ := cmd.Flags().GetBool("debug")

	log := buildLogger(debug)

	cfg, err := config.Load(v)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("config error: %w", err)
	}

	var opts []translation.Option
	closers := []func(){func() { _ = log.Sync() }}

	if cfg.Stats.Enabled {
		stats, closeStats, err := buildRedisStats(cmd.Context(), cfg.Stats, log)
		if err != nil {
			_ = log.Sync()
			return nil, err
		}
		opts = append(opts, translation.WithStats(stats))
		closers = append(closers, closeStats)
	}

	client, err := translation.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	log.Named("main").Info("translation client ready",
		zap.String("endpoint", cfg.Endpoint),
		zap.Bool("limit_enabled", cfg.Limit.Enabled),
		zap.Int("limit", client.Max()),
		zap.Bool("fair", cfg.Limit.Fair),
		zap.Duration("call_timeout", cfg.CallTimeout),
		zap.Bool("stats", cfg.Stats.Enabled),
	)

	return &app{
		cfg:    cfg,
		log:    log,
		client: client,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func buildRedisStats(ctx context.Context, cfg config.Stats, log *zap.Logger) (domain.StatsStore, func(), error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis stats ping error: %w", err)
	}

	log.Named("stats").Info("redis stats enabled",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
		zap.String("prefix", cfg.Prefix),
		zap.Duration("ttl", cfg.TTL),
	)

	store := infra.NewRedisStatsStore(rdb,
		infra.WithStatsPrefix(cfg.Prefix),
		infra.WithStatsTTL(cfg.TTL),
	)
	return store, func() { _ = rdb.Close() }, nil
}

func buildLogger(debug bool) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.InfoLevel)
	if debug {
		logConfig.Level.SetLevel(zap.DebugLevel)
	}
	return zap.Must(logConfig.Build())
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
