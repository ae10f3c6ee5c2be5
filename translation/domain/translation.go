package domain

// StatusOK é o código que o serviço remoto devolve no envelope quando a
// tradução deu certo.
const StatusOK = 200

// Request é a tripla imutável de uma chamada. Os códigos de idioma são opacos:
// quem valida é o serviço remoto.
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Envelope é o corpo de resposta do serviço remoto.
// Se Code != StatusOK, Text carrega a mensagem de erro do servidor.
type Envelope struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}
