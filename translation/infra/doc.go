// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - SpinGate: contador atômico com CAS + yield (sem fila, sem ordem)
//   - FairGate: semáforo FIFO usando golang.org/x/sync/semaphore
//   - HTTPInvoker: POST JSON até o serviço de tradução
//   - RedisStatsStore / MemoryStatsStore: estatísticas por resultado
//   - ClientLimiters: token bucket por cliente (golang.org/x/time/rate) para o front HTTP
package infra
