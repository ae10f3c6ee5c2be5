// fake-translator é um serviço de tradução de mentira para validar o proxy
// localmente: responde no envelope {"code","text"} e segura cada requisição
// por FAKE_DELAY, o que deixa visível o teto de concorrência.
package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"translation-proxy/translation/domain"

	"go.uber.org/zap"
)

func main() {
	log := zap.Must(zap.NewDevelopment()).Named("fake-translator")
	defer func() { _ = log.Sync() }()

	addr := getenvDefault("LISTEN_ADDR", ":8081")
	delay, err := time.ParseDuration(getenvDefault("FAKE_DELAY", "500ms"))
	if err != nil {
		log.Fatal("invalid FAKE_DELAY", zap.Error(err))
	}

	var inFlight, peak atomic.Int64

	http.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		var req domain.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		p := raisePeak(&peak, n)
		log.Info("request", zap.String("source", req.Source), zap.String("target", req.Target),
			zap.Int64("in_flight", n), zap.Int64("peak", p))

		time.Sleep(delay)

		env := domain.Envelope{Code: domain.StatusOK, Text: "[" + req.Target + "] " + req.Text}
		if strings.TrimSpace(req.Target) == "" || req.Target == req.Source {
			env = domain.Envelope{Code: http.StatusBadRequest, Text: "unsupported language"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(env)
	})

	log.Info("listening", zap.String("addr", addr), zap.Duration("delay", delay))
	if err := http.ListenAndServe(addr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// raisePeak sobe peak até n sem perder atualizações concorrentes e devolve o
// valor observado.
func raisePeak(peak *atomic.Int64, n int64) int64 {
	for {
		p := peak.Load()
		if n <= p {
			return p
		}
		if peak.CompareAndSwap(p, n) {
			return n
		}
	}
}
