package infra

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"translation-proxy/translation/domain"
)

// waitFor faz polling até cond ser verdadeira ou estourar o prazo.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s", d)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewGate_SelectsStrategy(t *testing.T) {
	if _, ok := NewGate(GateOptions{Max: 0}).(NopGate); !ok {
		t.Fatalf("expected NopGate when Max <= 0")
	}
	if _, ok := NewGate(GateOptions{Max: 2}).(*SpinGate); !ok {
		t.Fatalf("expected SpinGate by default")
	}
	if _, ok := NewGate(GateOptions{Max: 2, Fair: true}).(*FairGate); !ok {
		t.Fatalf("expected FairGate when Fair=true")
	}
}

func TestGates_NeverExceedMaxUnderContention(t *testing.T) {
	gates := map[string]interface {
		domain.Gate
		domain.Gauge
	}{
		"spin": NewSpinGate(4),
		"fair": NewFairGate(4),
	}

	for name, g := range gates {
		t.Run(name, func(t *testing.T) {
			var active, peak atomic.Int64
			var violations atomic.Int64
			var wg sync.WaitGroup

			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 50; j++ {
						release := g.Acquire()
						n := active.Add(1)
						for {
							p := peak.Load()
							if n <= p || peak.CompareAndSwap(p, n) {
								break
							}
						}
						if n > 4 || g.InFlight() > 4 || g.InFlight() < 1 {
							violations.Add(1)
						}
						active.Add(-1)
						release()
					}
				}()
			}
			wg.Wait()

			if v := violations.Load(); v != 0 {
				t.Fatalf("observed %d invariant violations", v)
			}
			if p := peak.Load(); p > 4 {
				t.Fatalf("peak %d exceeded max 4", p)
			}
			if g.InFlight() != 0 {
				t.Fatalf("expected counter back to 0, got %d", g.InFlight())
			}
		})
	}
}

func TestSpinGate_CeilingOneSerializesCalls(t *testing.T) {
	g := NewSpinGate(1)

	var active, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := g.Acquire()
			defer release()
			n := active.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	if peak.Load() != 1 {
		t.Fatalf("expected at most 1 in flight, peak=%d", peak.Load())
	}
}

func TestSpinGate_FiveCallsCeilingThreePeaksAtThree(t *testing.T) {
	g := NewSpinGate(3)
	hold := make(chan struct{})

	var started atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := g.Acquire()
			defer release()
			started.Add(1)
			<-hold
		}()
	}

	waitFor(t, time.Second, func() bool { return g.InFlight() == 3 })
	// dá tempo para os dois restantes tentarem entrar
	time.Sleep(20 * time.Millisecond)
	if got := started.Load(); got != 3 {
		t.Fatalf("expected exactly 3 admitted at peak, got %d", got)
	}

	close(hold)
	wg.Wait()

	if started.Load() != 5 {
		t.Fatalf("expected all 5 calls to complete, got %d", started.Load())
	}
	if g.InFlight() != 0 {
		t.Fatalf("expected counter back to 0, got %d", g.InFlight())
	}
}

func TestSpinGate_AcquireWithFreeSlotDoesNotWait(t *testing.T) {
	g := NewSpinGate(2)
	g.yield = func() { t.Errorf("yield must not be called when a slot is free") }

	r1 := g.Acquire()
	r2 := g.Acquire()
	if g.InFlight() != 2 {
		t.Fatalf("expected 2 in flight, got %d", g.InFlight())
	}
	r1()
	r2()
}

func TestSpinGate_ReleaseIsIdempotent(t *testing.T) {
	g := NewSpinGate(1)

	release := g.Acquire()
	release()
	release()

	if g.InFlight() != 0 {
		t.Fatalf("double release must not go negative, got %d", g.InFlight())
	}
}

func TestSpinGate_TryAcquire(t *testing.T) {
	g := NewSpinGate(1)

	release, ok := g.TryAcquire()
	if !ok {
		t.Fatalf("expected first TryAcquire to succeed")
	}
	if _, ok := g.TryAcquire(); ok {
		t.Fatalf("expected TryAcquire to fail at capacity")
	}
	release()
	if _, ok := g.TryAcquire(); !ok {
		t.Fatalf("expected TryAcquire to succeed after release")
	}
}

// SpinGate não tem fila: uma tentativa que chega depois pode pegar a vaga
// enquanto um waiter mais antigo ainda está cedendo o processador.
func TestSpinGate_IsNotFIFO(t *testing.T) {
	g := NewSpinGate(1)

	yielding := make(chan struct{}, 1)
	resume := make(chan struct{})
	g.yield = func() {
		select {
		case yielding <- struct{}{}:
		default:
		}
		<-resume
	}

	holder := g.Acquire()

	waiterDone := make(chan struct{})
	go func() {
		release := g.Acquire()
		release()
		close(waiterDone)
	}()

	select {
	case <-yielding:
	case <-time.After(time.Second):
		t.Fatalf("waiter never started polling")
	}

	holder()
	late, ok := g.TryAcquire()
	if !ok {
		t.Fatalf("expected late arrival to barge ahead of the waiting caller")
	}
	late()

	close(resume)
	select {
	case <-waiterDone:
	case <-time.After(time.Second):
		t.Fatalf("earlier waiter was never admitted")
	}
}

func TestFairGate_AdmitsInArrivalOrder(t *testing.T) {
	g := NewFairGate(1)
	holder := g.Acquire()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := g.Acquire()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			release()
		}(i)
		// garante que o waiter i entrou na fila antes do próximo
		time.Sleep(30 * time.Millisecond)
	}

	holder()
	wg.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("expected FIFO admission, got order %v", order)
		}
	}
	if g.InFlight() != 0 {
		t.Fatalf("expected counter back to 0, got %d", g.InFlight())
	}
}

func TestNopGate_DoesNotThrottle(t *testing.T) {
	g := NewGate(GateOptions{})

	const n = 64
	hold := make(chan struct{})
	var inside atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := g.Acquire()
			defer release()
			inside.Add(1)
			<-hold
		}()
	}

	waitFor(t, time.Second, func() bool { return inside.Load() == n })
	close(hold)
	wg.Wait()
}
