package http

import (
	"context"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"crimecast/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

func TestServerServeAndShutdown(t *testing.T) {
	t.Setenv("TEST_API_PORT", "0")
	srv := NewServer(config.New().Prefix("TEST_API_"), func(m *chi.Mux) {
		m.Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusNoContent) })
	})
	if srv.Addr() != ":0" {
		t.Fatalf("addr = %q", srv.Addr())
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, time.Second) }()

	resp, err := stdhttp.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != stdhttp.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
