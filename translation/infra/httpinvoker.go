package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"translation-proxy/translation/domain"
)

// maxResponseBytes limita quanto do corpo de resposta é lido.
const maxResponseBytes = 4 << 20

// HTTPInvoker faz exatamente uma chamada POST ao serviço de tradução por
// Invoke. Não tem retry nem cache.
type HTTPInvoker struct {
	endpoint string
	client   *http.Client
}

// NewHTTPInvoker usa http.DefaultClient quando client == nil.
func NewHTTPInvoker(endpoint string, client *http.Client) *HTTPInvoker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPInvoker{endpoint: endpoint, client: client}
}

func (i *HTTPInvoker) Invoke(ctx context.Context, req domain.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &domain.TransportError{Op: "encode", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &domain.TransportError{Op: "request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(httpReq)
	if err != nil {
		return "", &domain.TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drena para reaproveitar a conexão
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", &domain.TransportError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var env wireEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return "", &domain.TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}
	if err := env.validate(); err != nil {
		return "", &domain.TransportError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	if *env.Code != domain.StatusOK {
		return "", &domain.RemoteError{Code: *env.Code, Message: *env.Text}
	}
	return *env.Text, nil
}

// wireEnvelope usa ponteiros para distinguir campo ausente de valor zero.
type wireEnvelope struct {
	Code *int    `json:"code"`
	Text *string `json:"text"`
}

func (e wireEnvelope) validate() error {
	switch {
	case e.Code == nil:
		return errors.New("response is missing \"code\"")
	case e.Text == nil:
		return errors.New("response is missing \"text\"")
	case *e.Code < 0:
		return fmt.Errorf("response code %d is negative", *e.Code)
	}
	return nil
}
