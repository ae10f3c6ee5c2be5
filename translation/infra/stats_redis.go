package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"translation-proxy/translation/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore conta resultados de tradução em hashes do Redis:
//
//	<prefix>:total               campo = outcome
//	<prefix>:minute:YYYYMMDDhhmm campo = outcome (expira com ttl)
//	<prefix>:pair                campo = "<source>-><target>:<outcome>"
//	<prefix>:latency             wait_ms / call_ms acumulados
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string

	// ttl aplica apenas nos buckets por minuto.
	// total e pair são cumulativos e não expiram.
	ttl time.Duration
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "translation:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}

	source := strings.TrimSpace(ev.Source)
	target := strings.TrimSpace(ev.Target)
	if source != "" || target != "" {
		pipe.HIncrBy(ctx, s.prefix+":pair", pairKey(source, target)+":"+field, 1)
	}

	latencyKey := s.prefix + ":latency"
	pipe.HIncrBy(ctx, latencyKey, "wait_ms", ev.Wait.Milliseconds())
	pipe.HIncrBy(ctx, latencyKey, "call_ms", ev.Duration.Milliseconds())

	_, err := pipe.Exec(ctx)
	return err
}
