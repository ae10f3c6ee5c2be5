// Package domain define contratos e tipos de domínio do proxy de tradução.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar a regra de
// admissão (gate) dos detalhes do transporte até o serviço remoto.
package domain
