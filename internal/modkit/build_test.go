package modkit

import (
	"net/http"
	"testing"

	phttp "crimecast/internal/platform/net/http"
)

func TestBuild(t *testing.T) {
	type ports struct{ N int }
	called := false
	mw := func(h http.Handler) http.Handler { return h }

	b := Build(
		WithName("predictor"),
		WithPrefix("predictor/"),
		WithMiddlewares(mw, mw),
		WithPorts(ports{N: 3}),
		WithRegister(func(phttp.Router) { called = true }),
	)
	if b.Name != "predictor" || b.Prefix != "/predictor" || len(b.Mw) != 2 {
		t.Fatalf("built = %+v", b)
	}
	if p, ok := b.Ports.(ports); !ok || p.N != 3 {
		t.Fatalf("ports = %#v", b.Ports)
	}
	b.Register(nil)
	if !called {
		t.Fatalf("register not kept")
	}

	empty := Build()
	empty.Register(nil)
	if empty.Prefix != "" {
		t.Fatalf("empty prefix = %q", empty.Prefix)
	}
}

func TestDepsFromNilStore(t *testing.T) {
	d := DepsFrom(Deps{}.Log, Deps{}.Cfg, nil)
	if d.PG != nil || d.CH != nil || d.Lite != nil {
		t.Fatalf("expected empty deps")
	}
}
