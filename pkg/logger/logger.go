package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/lessonplanner/pkg/config"
	"github.com/samber/lo"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := Config(cfg)
	return zapCfg.Build()
}

// Config derives the zap configuration of the planner. Every entry carries the environment, and everything is
// written to stderr so the CLI can keep stdout for results
func Config(cfg *config.Config) zap.Config {
	zapCfg := lo.Ternary(cfg.Env == config.EnvProduction, zap.NewProductionConfig(), zap.NewDevelopmentConfig())

	zapCfg.Encoding = lo.Ternary(cfg.Log.Format == "console", "console", "json")
	zapCfg.Level = zap.NewAtomicLevelAt(level(cfg.Log.Level, zapCfg.Level.Level()))

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	zapCfg.InitialFields = map[string]any{"env": cfg.Env}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	return zapCfg
}

// level keeps the environment's default for an empty name and falls back to info for an unknown one
func level(name string, fallback zapcore.Level) zapcore.Level {
	if name == "" {
		return fallback
	}
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}
