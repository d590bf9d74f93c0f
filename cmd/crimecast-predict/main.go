// Command crimecast-predict prints the segment predictions for one point as GeoJSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
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
		fLat  = flag.Float64("lat", 0, "latitude")
		fLon  = flag.Float64("lon", 0, "longitude")
		fDate = flag.String("date", "", "date YYYY-MM-DD")
		fType = flag.String("type", "", "crime type (default ALL)")
	)
	flag.Parse()

	l := logger.Get()
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["lat"] || !set["lon"] || *fDate == "" {
		fmt.Fprintln(os.Stderr, "usage: crimecast-predict -lat 41.88 -lon -87.63 -date 2026-10-16 [-type ROBBERY]")
		os.Exit(2)
	}

	in := predictordomain.PredictInput{Latitude: fLat, Longitude: fLon, Date: *fDate, CrimeType: *fType}
	if err := run(config.New(), l, in); err != nil {
		l.Error().Err(err).Msg("prediction failed")
		os.Exit(1)
	}
}

func run(root config.Conf, l *logger.Logger, in predictordomain.PredictInput) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "crimecast-predict"), store.WithLogger(*l))
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

	fc, err := predictor.Service().Predict(ctx, in)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
