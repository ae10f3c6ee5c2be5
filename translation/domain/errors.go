package domain

import (
	"errors"
	"fmt"
)

// ErrRemote casa (via errors.Is) com qualquer *RemoteError.
var ErrRemote = errors.New("translation rejected by remote service")

// RemoteError é uma resposta bem formada cujo código não é StatusOK.
// Error() devolve exatamente a mensagem enviada pelo servidor.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// TransportError cobre falha de conexão, status HTTP fora de 2xx e corpo
// malformado. Op indica a etapa ("encode", "request", "status", "decode").
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("translation transport: %s: http %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("translation transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
