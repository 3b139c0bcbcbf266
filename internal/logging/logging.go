// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

// New builds the root logger. JSON output in production, console output with
// debug level when verbose is set.
func New(verbose bool) *zap.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
