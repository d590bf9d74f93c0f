// Command crimecast-seed fills the crime store with synthetic crimes
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"crimecast/internal/modkit"
	"crimecast/internal/platform/config"
	"crimecast/internal/platform/logger"
	"crimecast/internal/platform/store"

	crimesmod "crimecast/internal/services/crimes/module"
)

func main() {
	config.LoadDotenv("")

	var (
		fCount  = flag.Int("n", 500, "number of crimes to generate")
		fSeed   = flag.Int64("seed", 1, "random seed")
		fForce  = flag.Bool("force", false, "insert even when crimes already exist")
		fSource = flag.String("source", "", "auto | pg | sqlite (default CORE_CRIMES_SOURCE)")
	)
	flag.Parse()
	if *fSource != "" {
		_ = os.Setenv("CORE_CRIMES_SOURCE", *fSource)
	}
	_ = os.Setenv("CORE_CRIMES_ENSURE_SCHEMA", "true")

	l := logger.Get()
	if err := run(config.New(), l, *fCount, *fSeed, *fForce); err != nil {
		l.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
}

func run(root config.Conf, l *logger.Logger, n int, seed int64, force bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "crimecast-seed"), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	crimes := crimesmod.New(modkit.DepsFrom(*l, root, st), crimesmod.FromConfig(root))
	inserted, err := crimes.Service().Seed(ctx, n, seed, force)
	if err != nil {
		return err
	}
	if inserted == 0 {
		l.Info().Msg("crimes already present, nothing seeded (use -force)")
		return nil
	}
	l.Info().Int("crimes", inserted).Int64("seed", seed).Msg("synthetic crimes seeded")
	return nil
}
