package repokit

import (
	"context"
	"time"

	perr "crimecast/internal/platform/errors"
	"crimecast/internal/platform/store"
)

// StartupTimeout bounds MustPing and MustGuard when ctx carries no deadline
const StartupTimeout = 5 * time.Second

func bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, StartupTimeout)
}

// MustPing panics with an Unavailable error when p is nil or does not answer.
// Use it at process start for backends a command cannot run without.
func MustPing(ctx context.Context, name string, p store.Pinger) {
	if p == nil {
		panic(perr.Newf(perr.ErrorCodeUnavailable, "%s: not configured", name))
	}
	ctx, cancel := bounded(ctx)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		panic(perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s: ping", name))
	}
}

// MustGuard pings every backend st has open and panics on the joined failures
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	ctx, cancel := bounded(ctx)
	defer cancel()
	if err := st.Guard(ctx); err != nil {
		panic(perr.Wrap(err, perr.ErrorCodeUnavailable, "storage guard"))
	}
}
