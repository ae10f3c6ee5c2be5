package infra

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiters guarda um token bucket (x/time/rate) por cliente do front
// HTTP, com limpeza periódica das chaves inativas.
//
// Não participa da admissão das traduções: isso é papel do Gate. Aqui só se
// decide se um cliente pode mandar mais uma requisição agora.
type ClientLimiters struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type LimitersOption func(*ClientLimiters)

func WithIdleTTL(d time.Duration) LimitersOption {
	return func(s *ClientLimiters) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) LimitersOption {
	return func(s *ClientLimiters) { s.cleanupEvery = d }
}

func NewClientLimiters(rps float64, burst int, opts ...LimitersOption) *ClientLimiters {
	s := &ClientLimiters{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClientLimiters) RPS() float64 { return float64(s.rps) }
func (s *ClientLimiters) Burst() int   { return s.burst }

// Allow consome um token do cliente. Quando nega, também devolve quanto
// tempo falta para o próximo token.
func (s *ClientLimiters) Allow(key string) (bool, time.Duration) {
	lim := s.get(key)
	r := lim.ReserveN(s.now(), 1)
	if !r.OK() {
		return false, 0
	}
	delay := r.DelayFrom(s.now())
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(s.now())
	return false, delay
}

func (s *ClientLimiters) get(key string) *rate.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *ClientLimiters) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *ClientLimiters) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *ClientLimiters) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
