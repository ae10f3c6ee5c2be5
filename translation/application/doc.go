// Package application contém o caso de uso de tradução com admissão limitada.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Translate adquire vaga no Gate, chama o Invoker, libera a vaga
// e só então devolve o resultado.
package application
