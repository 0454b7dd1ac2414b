package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	consoleEncoding   = "console"
	standardErrorPath = "stderr"
	logMessageKey     = "message"
)

// NewApplicationLogger constructs the console logger used for warnings and run
// summaries. It writes to stderr so stdout carries only the prompt.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:          consoleEncoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     logMessageKey,
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{standardErrorPath},
		ErrorOutputPaths: []string{standardErrorPath},
	}
	return loggerConfig.Build()
}
