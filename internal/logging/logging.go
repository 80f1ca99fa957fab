// Package logging builds the process-wide zap logger. Output goes to
// stdout so Lambda forwards it to CloudWatch Logs unchanged.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const levelEnvKey = "STATUS_REPORT_LOG_LEVEL"

// New builds a production logger. The level is taken from
// STATUS_REPORT_LOG_LEVEL when set (debug, info, warn, error).
func New() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	if raw := os.Getenv(levelEnvKey); raw != "" {
		if level, err := zapcore.ParseLevel(raw); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	return logger
}
