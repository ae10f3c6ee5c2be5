package domain

// Gate limita quantas traduções podem estar em andamento ao mesmo tempo.
//
// A semântica é: Acquire bloqueia até conseguir uma vaga (sem timeout e sem
// erro). Ao adquirir, retorna uma função de release que deve ser chamada
// exatamente uma vez, em qualquer caminho de saída da chamada protegida.
//
// Não há garantia de ordem entre quem espera: a implementação pode admitir
// fora da ordem de chegada.
type Gate interface {
	Acquire() (release func())
}

// Gauge expõe a ocupação atual de um Gate.
// Max == 0 significa sem limite.
type Gauge interface {
	InFlight() int
	Max() int
}
