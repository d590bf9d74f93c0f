// Command crimecast-train fits a new model on the crime store and activates it
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
	predictordomain "crimecast/internal/services/predictor/domain"
	predictormod "crimecast/internal/services/predictor/module"
)

func main() {
	config.LoadDotenv("")

	var (
		fTarget = flag.String("target", "", "train against one crime category (default: every crime is positive)")
		fTrees  = flag.Int("trees", 0, "number of trees (default CORE_PREDICTOR_TREES)")
		fDir    = flag.String("models", "", "model directory (default CORE_PREDICTOR_MODEL_DIR)")
	)
	flag.Parse()
	setIf("CORE_PREDICTOR_TARGET_CATEGORY", *fTarget)
	setIf("CORE_PREDICTOR_MODEL_DIR", *fDir)
	if *fTrees > 0 {
		setIf("CORE_PREDICTOR_TREES", flag.Lookup("trees").Value.String())
	}
	// the job trains explicitly; never start a second background run
	_ = os.Setenv("CORE_PREDICTOR_TRAIN_ON_START", "false")

	l := logger.Get()
	if err := run(config.New(), l); err != nil {
		l.Error().Err(err).Msg("training failed")
		os.Exit(1)
	}
}

func run(root config.Conf, l *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "crimecast-train"), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.DepsFrom(*l, root, st)
	crimes := crimesmod.New(deps, crimesmod.FromConfig(root))
	predictor, err := predictormod.New(deps, predictormod.FromConfig(root),
		modkit.WithPorts[predictordomain.CrimeSource](crimes.Service()))
	if err != nil {
		return err
	}

	m, err := predictor.Service().Train(ctx)
	if err != nil {
		return err
	}
	l.Info().
		Str("version", m.Version).
		Int("positives", m.Positives).
		Int("negatives", m.Negatives).
		Float64("accuracy", m.Accuracy).
		Float64("oob_accuracy", m.OOBScore).
		Msg("model trained and activated")
	return nil
}

func setIf(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}
