package domain

import (
	"context"
	"errors"
	"time"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// OutcomeOf classifica o erro devolvido por uma chamada.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrRemote):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// StatsEvent representa o resultado de uma tradução já liberada do gate.
//
// Wait é o tempo gasto esperando vaga; Duration é o tempo da chamada remota.
// Observação: Source/Target entram em chaves de estatística, cuidado com
// cardinalidade se os códigos vierem direto do usuário.
type StatsEvent struct {
	Outcome Outcome
	Source  string
	Target  string

	Wait     time.Duration
	Duration time.Duration

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas.
//
// Implementações podem armazenar em Redis, memória, etc.
// Quem chama trata erro como best-effort (não derruba a tradução).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
