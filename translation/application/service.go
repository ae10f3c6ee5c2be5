package application

import (
	"context"
	"time"

	"translation-proxy/translation/domain"
)

// DefaultStatsTimeout limita o registro de estatísticas quando
// Service.StatsTimeout é zero.
const DefaultStatsTimeout = 500 * time.Millisecond

// Invoker faz a chamada remota propriamente dita.
type Invoker interface {
	Invoke(ctx context.Context, req domain.Request) (string, error)
}

// Service concentra a regra acquire -> invoke -> release, sem saber nada
// sobre HTTP.
type Service struct {
	Gate    domain.Gate
	Invoker Invoker
	Stats   domain.StatsStore
	Now     func() time.Time

	// CallTimeout > 0 limita só a chamada remota. A espera por vaga no
	// Gate nunca é abandonada.
	CallTimeout time.Duration

	// StatsTimeout limita Stats.Record; a gravação não herda o cancelamento
	// do chamador.
	StatsTimeout time.Duration
}

// Translate devolve o texto traduzido ou o erro da chamada, sem logar nem
// tentar de novo. A vaga é liberada em todos os caminhos, antes do retorno.
func (s Service) Translate(ctx context.Context, req domain.Request) (string, error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	queuedAt := now()
	release := s.acquire()
	admittedAt := now()

	text, err := s.invoke(ctx, req, release)
	doneAt := now()

	s.record(ctx, domain.StatsEvent{
		Outcome:  domain.OutcomeOf(err),
		Source:   req.Source,
		Target:   req.Target,
		Wait:     admittedAt.Sub(queuedAt),
		Duration: doneAt.Sub(admittedAt),
		At:       doneAt,
	})
	return text, err
}

func (s Service) record(ctx context.Context, ev domain.StatsEvent) {
	if s.Stats == nil {
		return
	}
	timeout := s.StatsTimeout
	if timeout <= 0 {
		timeout = DefaultStatsTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	_ = s.Stats.Record(ctx, ev)
}

func (s Service) acquire() func() {
	if s.Gate == nil {
		return func() {}
	}
	return s.Gate.Acquire()
}

func (s Service) invoke(ctx context.Context, req domain.Request, release func()) (string, error) {
	defer release()

	if s.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.CallTimeout)
		defer cancel()
	}
	return s.Invoker.Invoke(ctx, req)
}
