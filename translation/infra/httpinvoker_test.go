package infra

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"translation-proxy/translation/domain"
)

func TestHTTPInvoker_SendsJSONPostAndReturnsText(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		var got domain.Request
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if got != (domain.Request{Text: "hello", Source: "en", Target: "es"}) {
			t.Errorf("unexpected request body %+v", got)
		}
		_, _ = io.WriteString(w, `{"code":200,"text":"hola"}`)
	}))
	defer srv.Close()

	inv := NewHTTPInvoker(srv.URL, srv.Client())
	out, err := inv.Invoke(context.Background(), domain.Request{Text: "hello", Source: "en", Target: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hola" {
		t.Fatalf("expected hola, got %q", out)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", calls.Load())
	}
}

func TestHTTPInvoker_RemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":400,"text":"unsupported language"}`)
	}))
	defer srv.Close()

	_, err := NewHTTPInvoker(srv.URL, nil).Invoke(context.Background(), domain.Request{Text: "x", Source: "en", Target: "zz"})

	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %T %v", err, err)
	}
	if err.Error() != "unsupported language" || remote.Code != 400 {
		t.Fatalf("unexpected remote error %+v", remote)
	}
}

func TestHTTPInvoker_MalformedJSONIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewHTTPInvoker(srv.URL, nil).Invoke(context.Background(), domain.Request{})

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != "decode" {
		t.Fatalf("expected decode TransportError, got %v", err)
	}
}

func TestHTTPInvoker_Non2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPInvoker(srv.URL, nil).Invoke(context.Background(), domain.Request{})

	var te *domain.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status TransportError with 502, got %v", err)
	}
}

func TestHTTPInvoker_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	_, err = NewHTTPInvoker("http://"+addr+"/translate", nil).Invoke(context.Background(), domain.Request{})

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Op != "request" {
		t.Fatalf("expected request TransportError, got %v", err)
	}
}

func TestHTTPInvoker_IncompleteEnvelopeIsTransportError(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"null", `null`},
		{"empty object", `{}`},
		{"missing code", `{"text":"hola"}`},
		{"missing text", `{"code":200}`},
		{"negative code", `{"code":-1,"text":"hola"}`},
		{"null text", `{"code":200,"text":null}`},
		{"fractional code", `{"code":200.5,"text":"hola"}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, c.body)
			}))
			defer srv.Close()

			out, err := NewHTTPInvoker(srv.URL, nil).Invoke(context.Background(), domain.Request{Text: "hello", Source: "en", Target: "es"})

			var te *domain.TransportError
			if !errors.As(err, &te) || te.Op != "decode" {
				t.Fatalf("expected decode TransportError for %s, got out=%q err=%v", c.body, out, err)
			}
			if errors.Is(err, domain.ErrRemote) {
				t.Fatalf("incomplete envelope must not be reported as a remote rejection")
			}
		})
	}
}

func TestHTTPInvoker_EmptyTextIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":200,"text":""}`)
	}))
	defer srv.Close()

	out, err := NewHTTPInvoker(srv.URL, nil).Invoke(context.Background(), domain.Request{})
	if err != nil || out != "" {
		t.Fatalf("expected empty translation without error, got %q, %v", out, err)
	}
}
