package ch

import (
	"context"
	"errors"
	"testing"
	"time"

	kit "crimecast/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func TestOptions(t *testing.T) {
	opts, err := Options(Config{URL: "clickhouse://u:p@localhost:9000/analytics", Database: "crimecast", Role: "api"})
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Auth.Database != "crimecast" || opts.Auth.Username != "u" {
		t.Fatalf("auth = %+v", opts.Auth)
	}
	if opts.DialTimeout != 5*time.Second {
		t.Fatalf("dial timeout = %v", opts.DialTimeout)
	}
	if len(opts.ClientInfo.Products) == 0 || opts.ClientInfo.Products[1].Version != "api" {
		t.Fatalf("client info = %+v", opts.ClientInfo)
	}
	if _, err := Options(Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}

func TestOpenPropagatesDialError(t *testing.T) {
	kit.Serial(t)
	boom := errors.New("dial")
	kit.Swap(t, &openConn, func(*clickhouse.Options) (driver.Conn, error) { return nil, boom })
	if _, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var c *CH
	if c.Close() != nil {
		t.Fatalf("nil close should be a no-op")
	}
}

func TestBuildClientInfo(t *testing.T) {
	ci := BuildClientInfo("train", "v1.2.3")
	if ci.Products[0].Name != "crimecast" || ci.Products[0].Version != "v1.2.3" {
		t.Fatalf("products = %+v", ci.Products)
	}
}
