package translation_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"translation-proxy/translation"
	"translation-proxy/translation/config"
	"translation-proxy/translation/domain"
)

func Example() {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			_, _ = io.WriteString(w, `{"code":400,"text":"unsupported language"}`)
			return
		}
		_, _ = io.WriteString(w, `{"code":200,"text":"hola"}`)
	}))
	defer remote.Close()

	client, err := translation.New(config.Config{
		Endpoint: remote.URL,
		Limit:    config.Limit{Enabled: true, Max: config.DefaultLimit},
	})
	if err != nil {
		panic(err)
	}

	out, err := client.Translate(context.Background(), "hello", "en", "es")
	fmt.Println(out, err)
	fmt.Println("in flight:", client.InFlight(), "max:", client.Max())

	failing, _ := translation.New(config.Config{Endpoint: remote.URL + "?fail=1"})
	_, err = failing.Translate(context.Background(), "hello", "en", "xx")
	fmt.Println(err, errors.Is(err, domain.ErrRemote))

	// Output:
	// hola <nil>
	// in flight: 0 max: 3
	// unsupported language true
}
