package module

import (
	"crimecast/internal/platform/config"
	"crimecast/internal/services/predictor/domain"
	"crimecast/internal/services/predictor/service"
)

// Options for the predictor module
type Options struct {
	// ModelDir is the registry directory
	ModelDir string
	// TrainOnStart trains in the background when no model is active at startup
	TrainOnStart bool
	// EnsureSchema creates prediction_models and crime_predictions on startup
	EnsureSchema bool

	Service service.Config
}

// FromConfig reads CORE_PREDICTOR_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_PREDICTOR_")
	def := service.DefaultConfig()
	return Options{
		ModelDir:     c.MayString("MODEL_DIR", "./models"),
		TrainOnStart: c.MayBool("TRAIN_ON_START", false),
		EnsureSchema: c.MayBool("ENSURE_SCHEMA", true),
		Service: service.Config{
			ModelName: c.MayString("MODEL_NAME", def.ModelName),
			Params: domain.Params{
				Hotspots:         c.MayInt("HOTSPOTS", def.Params.Hotspots),
				Trees:            c.MayInt("TREES", def.Params.Trees),
				Seed:             c.MayInt64("SEED", def.Params.Seed),
				MaxDepth:         c.MayInt("MAX_DEPTH", 0),
				NegativeRatio:    c.MayInt("NEGATIVE_RATIO", def.Params.NegativeRatio),
				NegativeMinKm:    c.MayFloat64("NEGATIVE_MIN_KM", def.Params.NegativeMinKm),
				NegativeAttempts: c.MayInt("NEGATIVE_ATTEMPTS", def.Params.NegativeAttempts),
				Target:           c.MayString("TARGET_CATEGORY", ""),
			},
			AutoTrain:      c.MayBool("AUTO_TRAIN", false),
			TrainTimeout:   c.MayDuration("TRAIN_TIMEOUT", def.TrainTimeout),
			Radius:         c.MayInt("RADIUS", def.Radius),
			LogPredictions: c.MayBool("LOG_PREDICTIONS", def.LogPredictions),
		},
	}
}
