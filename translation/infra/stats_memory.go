package infra

import (
	"context"
	"sync"

	"translation-proxy/translation/domain"
)

type Counters struct {
	Succeeded int64
	Rejected  int64
	Failed    int64
}

func (c *Counters) add(o domain.Outcome) {
	switch o {
	case domain.OutcomeSucceeded:
		c.Succeeded++
	case domain.OutcomeRejected:
		c.Rejected++
	default:
		c.Failed++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu     sync.Mutex
	total  Counters
	byPair map[string]Counters
	events []domain.StatsEvent

	keepEvents bool
}

type MemoryStatsOption func(*MemoryStatsStore)

// WithKeepEvents guarda cada evento recebido (para inspeção em testes).
func WithKeepEvents(keep bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.keepEvents = keep }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{byPair: make(map[string]Counters)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	pair := pairKey(ev.Source, ev.Target)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)
	c := s.byPair[pair]
	c.add(ev.Outcome)
	s.byPair[pair] = c
	if s.keepEvents {
		s.events = append(s.events, ev)
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByPair() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byPair))
	for k, v := range s.byPair {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) Events() []domain.StatsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StatsEvent(nil), s.events...)
}

func pairKey(source, target string) string {
	return source + "->" + target
}
