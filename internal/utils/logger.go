package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const consoleEncoding = "console"

// LoggerOptions configures NewApplicationLogger.
type LoggerOptions struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Colored selects the colored level encoder.
	Colored bool
}

// StderrIsTerminal reports whether diagnostics go to an interactive terminal.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output on stderr.
func NewApplicationLogger(options LoggerOptions) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = consoleEncoding
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if options.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if options.Colored {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
