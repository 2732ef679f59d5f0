package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLoggerConfig(t *testing.T) {
	if lvl := NewLoggerConfig(false).Level.Level(); lvl != zap.InfoLevel {
		t.Errorf("expected info level, got %v", lvl)
	}
	if lvl := NewLoggerConfig(true).Level.Level(); lvl != zap.DebugLevel {
		t.Errorf("expected debug level, got %v", lvl)
	}
	cfg := NewLoggerConfig(true)
	if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != "stderr" {
		t.Errorf("expected stderr output, got %v", cfg.OutputPaths)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("cablesim", false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Error("debug should be disabled when not verbose")
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be enabled")
	}
}
