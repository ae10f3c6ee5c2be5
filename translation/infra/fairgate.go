package infra

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// FairGate admite em ordem de chegada: semaphore.Weighted mantém uma fila
// de waiters e só libera o próximo da fila.
//
// Acquire usa context.Background, então nunca desiste no meio da espera.
type FairGate struct {
	max      int64
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

func NewFairGate(max int) *FairGate {
	if max < 1 {
		max = 1
	}
	return &FairGate{max: int64(max), sem: semaphore.NewWeighted(int64(max))}
}

func (g *FairGate) Acquire() func() {
	// Com context.Background o Acquire só retorna quando obtém a vaga.
	_ = g.sem.Acquire(context.Background(), 1)
	g.inFlight.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			g.inFlight.Add(-1)
			g.sem.Release(1)
		})
	}
}

func (g *FairGate) InFlight() int { return int(g.inFlight.Load()) }
func (g *FairGate) Max() int      { return int(g.max) }
