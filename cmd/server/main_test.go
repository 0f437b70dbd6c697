package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/config"
)

func TestBuildLogger_Levels(t *testing.T) {
	logger, err := buildLogger(config.LoggerConfig{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("buildLogger error: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level enabled")
	}

	if _, err := buildLogger(config.LoggerConfig{Level: "nope"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestBuildRepos_MemoryFallback(t *testing.T) {
	sink, sessions, err := buildRepos(config.DatabaseConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("buildRepos error: %v", err)
	}
	if sink == nil || sessions == nil {
		t.Fatal("expected in-memory repositories")
	}
}

func TestBuildNarrator_TemplateFallback(t *testing.T) {
	n, err := buildNarrator(config.NarrationConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("buildNarrator error: %v", err)
	}
	if n == nil {
		t.Fatal("expected a narrator")
	}
}
