// Package translation é o cliente de tradução com limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (Gate, Request, erros) sem net/http
//   - application: caso de uso acquire -> invoke -> release
//   - infra: gates (CAS, FIFO, no-op), invoker HTTP, estatísticas
//   - config: configuração do processo (GAS_TRANSLATION_URL, GAS_TRANSLATION_LIMIT, ...)
//   - translation (este pacote): wiring a partir de config.Config
//
// Fluxo de uma chamada:
//
//  1. Translate(ctx, text, source, target)
//  2. o Gate adquire uma vaga (espera sem timeout, sem ordem de chegada por padrão)
//  3. POST JSON até o endpoint configurado
//  4. a vaga é liberada, com sucesso ou erro
//  5. texto traduzido ou erro (*domain.RemoteError / *domain.TransportError)
//
// Um Client deve existir uma vez por processo; o limite vale para todas as
// goroutines que o compartilham.
package translation
