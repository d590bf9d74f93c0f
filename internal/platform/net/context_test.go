package net

import (
	"context"
	"testing"

	"crimecast/internal/platform/logger"
)

func TestWithRequest(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-1")
	if RequestID(ctx) != "req-1" || logger.RequestID(ctx) != "req-1" {
		t.Fatalf("request id not propagated")
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("expected empty id")
	}
	if WithRequest(context.Background(), "") != context.Background() {
		t.Fatalf("empty id should not wrap")
	}
}
