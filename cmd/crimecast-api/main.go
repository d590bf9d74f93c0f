// @title         Crimecast API
// @version       0.1.0
// @description   Crime hotspot prediction over historical crime records
// @BasePath      /api/v1

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"crimecast/internal/modkit/repokit"
	"crimecast/internal/platform/config"
	"crimecast/internal/platform/logger"
	phttp "crimecast/internal/platform/net/http"
	"crimecast/internal/platform/store"

	"crimecast/internal/services/api"
)

func main() {
	config.LoadDotenv("")
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "crimecast-api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT / READ_TIMEOUT / WRITE_TIMEOUT)
	srv := phttp.NewServer(apiCfg)

	mounted, err := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Origins:        apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout:        apiCfg.MayDuration("REQUEST_TIMEOUT", 0),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}
	// the crime source must answer before the server accepts predictions
	repokit.MustPing(ctx, "crimes source", mounted.Crimes.Service())

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
