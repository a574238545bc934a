package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simaogato/ventureflow/internal/config"
)

// ServiceName is attached to every entry as the "service" field
const ServiceName = "ventureflow"

// New builds the process logger from the log section of the configuration
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return buildConfig(cfg).Build()
}

// buildConfig maps the log section onto a zap.Config
// Rules:
//   - unknown levels fall back to info
//   - an empty encoding means console
//   - development mode, or console output, uses the development encoder
//     (ISO timestamps, capitalized levels); json in production keeps the
//     production encoder with ISO timestamps
func buildConfig(cfg config.LogConfig) zap.Config {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if encoding == "" {
		encoding = "console"
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development || encoding == "console" {
		encoder = zap.NewDevelopmentEncoderConfig()
		if encoding == "console" {
			encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		EncoderConfig:     encoder,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields:     map[string]interface{}{"service": ServiceName},
	}

	// development logs are never sampled
	if cfg.Sampling && !cfg.Development {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	}

	return zc
}
