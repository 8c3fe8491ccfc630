package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"restauranthub/internal/config"
)

// New builds the process logger from the log section. An unknown level falls back
// to info; console encoding is meant for local runs.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Encoding == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Service != "" {
		zcfg.InitialFields = map[string]interface{}{"service": cfg.Service}
	}

	return zcfg.Build()
}
