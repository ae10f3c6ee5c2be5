package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"translation-proxy/translation/config"
	"translation-proxy/translation/httpapi"
	"translation-proxy/translation/infra"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose POST /translate over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	f := cmd.Flags()
	f.String("listen", ":8080", "listen address (GAS_SERVER_LISTEN_ADDR)")
	f.Bool("rate", true, "per-client rate limit (GAS_SERVER_RATE_ENABLED)")
	f.Float64("rate-rps", 10, "tokens per second per client (GAS_SERVER_RATE_RPS)")
	f.Int("rate-burst", 20, "bucket size per client (GAS_SERVER_RATE_BURST)")
	f.String("key-header", "", "header used as client key (GAS_SERVER_KEY_HEADER)")
	f.Bool("trust-xff", false, "use X-Forwarded-For as client key (GAS_SERVER_TRUST_XFF)")

	mustBind(v, config.KeyListenAddr, f.Lookup("listen"))
	mustBind(v, config.KeyRateEnabled, f.Lookup("rate"))
	mustBind(v, config.KeyRateRPS, f.Lookup("rate-rps"))
	mustBind(v, config.KeyRateBurst, f.Lookup("rate-burst"))
	mustBind(v, config.KeyKeyHeader, f.Lookup("key-header"))
	mustBind(v, config.KeyTrustXFF, f.Lookup("trust-xff"))
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	a, err := newApp(cmd, v)
	if err != nil {
		return err
	}
	defer a.close()

	log := a.log.Named("http")
	cfg := a.cfg.Server

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var limiter httpapi.ClientLimiter
	if cfg.RateEnabled {
		limiters := infra.NewClientLimiters(cfg.RateRPS, cfg.RateBurst)
		limiters.StartJanitor(ctx)
		limiter = limiters
	}

	h := httpapi.Handler{Translator: a.client, Gauge: a.client, Log: log}.Routes()
	h = httpapi.RateLimit(httpapi.RateLimitOptions{
		Limiter:            limiter,
		KeyHeader:          cfg.KeyHeader,
		TrustXForwardedFor: cfg.TrustXFF,
		RetryAfter:         cfg.RetryAfter,
	})(h)
	h = httpapi.AccessLog(log)(h)
	h = httpapi.RequestID(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening",
		zap.String("addr", cfg.ListenAddr),
		zap.Bool("rate_enabled", cfg.RateEnabled),
		zap.Float64("rate_rps", cfg.RateRPS),
		zap.Int("rate_burst", cfg.RateBurst),
		zap.String("key_header", cfg.KeyHeader),
		zap.Bool("trust_xff", cfg.TrustXFF),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}
