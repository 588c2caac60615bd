package main

import (
	"flag"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mortality-engine/internal/config"
	"mortality-engine/internal/engine"
	"mortality-engine/internal/handler"
	"mortality-engine/internal/refdata"
	"mortality-engine/internal/shorthorizon"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Building logger: %v", err)
	}
	defer logger.Sync()

	repo, err := refdata.New()
	if err != nil {
		// Corrupt reference data is unrecoverable; refuse to serve.
		logger.Fatal("loading reference data", zap.Error(err))
	}

	eng := engine.New(repo, logger,
		engine.WithReplicates(cfg.Bootstrap.Replicates),
		engine.WithWorkers(cfg.Bootstrap.Workers),
	)
	h := handler.New(eng, shorthorizon.New(repo), repo, logger)

	versions := repo.Versions()
	logger.Info("mortality engine starting",
		zap.String("port", cfg.Port),
		zap.String("model_version", engine.ModelVersion),
		zap.String("baseline_version", versions.Baseline),
		zap.String("priors_version", versions.Priors))

	if err := fasthttp.ListenAndServe(":"+cfg.Port, h.Route); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
