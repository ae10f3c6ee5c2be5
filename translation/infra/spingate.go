package infra

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// SpinGate é um semáforo de contagem sem fila de espera.
//
// Acquire lê o contador e tenta um CompareAndSwap para current+1 enquanto
// current < max; se perder a corrida ou não houver vaga, cede o processador
// (runtime.Gosched) e tenta de novo. Não há timeout nem erro.
//
// Limitação conhecida: não é FIFO. Sob saturação, quem tiver o CAS aceito
// primeiro entra, independente da ordem de chegada, e um waiter específico
// pode ficar sem vaga por tempo indeterminado. Para ordem de chegada use FairGate.
//
// Nenhum lock é segurado durante a chamada protegida.
type SpinGate struct {
	max     int64
	current atomic.Int64
	yield   func()
}

func NewSpinGate(max int) *SpinGate {
	if max < 1 {
		max = 1
	}
	return &SpinGate{max: int64(max), yield: runtime.Gosched}
}

func (g *SpinGate) Acquire() func() {
	for !g.tryAcquire() {
		g.yield()
	}
	var once sync.Once
	return func() { once.Do(g.release) }
}

// TryAcquire tenta uma única vez, sem esperar.
func (g *SpinGate) TryAcquire() (func(), bool) {
	if !g.tryAcquire() {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(g.release) }, true
}

func (g *SpinGate) tryAcquire() bool {
	cur := g.current.Load()
	return cur < g.max && g.current.CompareAndSwap(cur, cur+1)
}

func (g *SpinGate) release() {
	g.current.Add(-1)
}

func (g *SpinGate) InFlight() int { return int(g.current.Load()) }
func (g *SpinGate) Max() int      { return int(g.max) }
