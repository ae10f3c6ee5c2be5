// Package httpapi expõe o cliente de tradução por HTTP (net/http) para outros
// processos.
//
// Fluxo no servidor:
//
//  1. RequestID: garante X-Request-ID
//  2. AccessLog: uma linha zap por requisição
//  3. RateLimit: token bucket por cliente (IP/header/XFF); bloqueado -> 429
//  4. Handler: POST /translate chama o Client (que respeita o Gate)
//
// O limite de concorrência das traduções continua no Gate do Client; aqui
// só se protege o front contra clientes abusivos.
package httpapi
