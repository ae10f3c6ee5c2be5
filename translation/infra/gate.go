package infra

import (
	"translation-proxy/translation/domain"
)

type GateOptions struct {
	// Max <= 0 desliga o limite (NopGate).
	Max int

	// Fair usa FairGate (ordem de chegada) no lugar do SpinGate.
	Fair bool
}

// NewGate escolhe a estratégia de admissão na construção.
func NewGate(opts GateOptions) domain.Gate {
	switch {
	case opts.Max <= 0:
		return NopGate{}
	case opts.Fair:
		return NewFairGate(opts.Max)
	default:
		return NewSpinGate(opts.Max)
	}
}

// NopGate é o gate de quando o limite está desligado: não conta nada.
type NopGate struct{}

func (NopGate) Acquire() func() { return func() {} }

func (NopGate) InFlight() int { return 0 }
func (NopGate) Max() int      { return 0 }
