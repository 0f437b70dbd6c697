package main

import (
	"context"
	"flag"
	"log"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpadapter "github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/http"
	metricsinmem "github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/metrics/inmemory"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/narration"
	gormrepo "github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/gorm"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/memory"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/replay"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/session"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	sink, sessions, err := buildRepos(cfg.Database, logger)
	if err != nil {
		logger.Fatal("build repositories", zap.Error(err))
	}

	narrator, err := buildNarrator(cfg.Narration, logger)
	if err != nil {
		logger.Fatal("build narrator", zap.Error(err))
	}

	kpiRecorder := metricsinmem.NewRecorder()

	launcher := session.NewLauncher(session.LauncherConfig{
		Sink:             sink,
		Sessions:         sessions,
		Narrator:         narrator,
		Metrics:          kpiRecorder,
		Logger:           logger,
		DefaultMaxRounds: cfg.Session.DefaultMaxRounds,
		RetreatIncrement: cfg.Session.RetreatIncrement,
		NarrationTimeout: cfg.Session.NarrationTimeout,
	})

	h := httpadapter.Handler{
		Launcher: launcher,
		Sessions: sessions,
		ReplayUC: replay.UseCase{Events: sink},
		KPI:      kpiRecorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.ListenAddr))
	h.RegisterRoutes(s)

	logger.Info("session server listening", zap.String("addr", cfg.Server.ListenAddr))
	s.Spin()
}

func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func buildRepos(cfg config.DatabaseConfig, logger *zap.Logger) (ports.EventSink, ports.SessionRepository, error) {
	if cfg.DSN == "" {
		logger.Info("no database configured, using in-memory repositories")
		store := memory.NewStore()
		return memory.NewEventSink(store), memory.NewSessionRepo(store), nil
	}

	db, err := gormrepo.OpenPostgres(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := gormrepo.Migrate(context.Background(), db); err != nil {
		return nil, nil, err
	}
	return gormrepo.NewEventSink(db), gormrepo.NewSessionRepo(db), nil
}

func buildNarrator(cfg config.NarrationConfig, logger *zap.Logger) (ports.Narrator, error) {
	if cfg.Endpoint == "" {
		logger.Info("no narration endpoint configured, using template narrator")
		return narration.NewTemplateNarrator(), nil
	}
	return narration.NewHTTPClient(narration.ClientConfig{
		Endpoint:       cfg.Endpoint,
		APIKey:         cfg.APIKey,
		RequestTimeout: cfg.RequestTimeout,
		MaxElapsedTime: cfg.MaxElapsedTime,
	}, logger)
}
