package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"translation-proxy/translation/domain"

	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type Handler struct {
	Translator Translator
	Log        *zap.Logger

	// Gauge é opcional; alimenta /healthz.
	Gauge domain.Gauge
}

type healthResponse struct {
	InFlight int `json:"in_flight"`
	Max      int `json:"max"`
}

// Routes registra POST /translate e GET /healthz.
func (h Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", h.translate)
	mux.HandleFunc("/healthz", h.health)
	return mux
}

func (h Handler) translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeEnvelope(w, http.StatusMethodNotAllowed, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}

	var req domain.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.Translator.Translate(r.Context(), req.Text, req.Source, req.Target)
	if err == nil {
		writeEnvelope(w, http.StatusOK, domain.StatusOK, text)
		return
	}

	// rejeição do serviço remoto passa adiante no mesmo envelope
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		writeEnvelope(w, http.StatusOK, remote.Code, remote.Message)
		return
	}

	h.logger().Warn("translation failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("source", req.Source),
		zap.String("target", req.Target),
		zap.Error(err),
	)
	writeEnvelope(w, http.StatusBadGateway, http.StatusBadGateway, "bad gateway")
}

func (h Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	resp := healthResponse{}
	if h.Gauge != nil {
		resp.InFlight = h.Gauge.InFlight()
		resp.Max = h.Gauge.Max()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func writeEnvelope(w http.ResponseWriter, status, code int, text string) {
	writeJSON(w, status, domain.Envelope{Code: code, Text: text})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
