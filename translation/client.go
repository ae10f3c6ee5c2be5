package translation

import (
	"context"
	"net/http"

	"translation-proxy/translation/application"
	"translation-proxy/translation/config"
	"translation-proxy/translation/domain"
	"translation-proxy/translation/infra"
)

type Client struct {
	svc  application.Service
	gate domain.Gate
}

type options struct {
	httpClient *http.Client
	gate       domain.Gate
	stats      domain.StatsStore
}

type Option func(*options)

// WithHTTPClient troca o http.Client usado pelo invoker.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithGate injeta um gate já construído (ignora cfg.Limit).
func WithGate(g domain.Gate) Option {
	return func(o *options) { o.gate = g }
}

func WithStats(s domain.StatsStore) Option {
	return func(o *options) { o.stats = s }
}

// New monta o cliente a partir de uma configuração já validada.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, config.ErrMissing
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	gate := o.gate
	if gate == nil {
		gate = GateFromConfig(cfg.Limit)
	}

	return &Client{
		svc: application.Service{
			Gate:        gate,
			Invoker:     infra.NewHTTPInvoker(cfg.Endpoint, o.httpClient),
			Stats:       o.stats,
			CallTimeout: cfg.CallTimeout,
		},
		gate: gate,
	}, nil
}

// GateFromConfig escolhe entre SpinGate, FairGate e NopGate.
func GateFromConfig(l config.Limit) domain.Gate {
	if !l.Enabled {
		return infra.NewGate(infra.GateOptions{})
	}
	return infra.NewGate(infra.GateOptions{Max: l.Max, Fair: l.Fair})
}

func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	return c.svc.Translate(ctx, domain.Request{Text: text, Source: source, Target: target})
}

// InFlight devolve quantas chamadas seguram vaga agora (0 se o gate não expõe).
func (c *Client) InFlight() int {
	if g, ok := c.gate.(domain.Gauge); ok {
		return g.InFlight()
	}
	return 0
}

// Max devolve o teto de concorrência; 0 significa sem limite.
func (c *Client) Max() int {
	if g, ok := c.gate.(domain.Gauge); ok {
		return g.Max()
	}
	return 0
}
