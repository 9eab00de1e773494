package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugLogPath receives a copy of every log line when debug is enabled.
const DebugLogPath = "./vtdash-debug.log"

// Logger is the logging shape every component accepts.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// ZapLogger names a child logger per component.
type ZapLogger struct {
	core *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogOptions configures NewZapLogger.
type LogOptions struct {
	Level string
	Debug bool
	// OutputPaths defaults to stderr.
	OutputPaths []string
}

func NewZapLogger(opts LogOptions) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	if opts.Debug {
		level = zapcore.DebugLevel
		outputs = append(outputs, DebugLogPath)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	core, err := cfg.Build(zap.AddStacktrace(zapcore.DPanicLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{core: core}, nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(core *zap.Logger) *ZapLogger {
	return &ZapLogger{core: core}
}

func (l *ZapLogger) Infof(component string, format string, args ...interface{}) {
	l.core.Named(component).Sugar().Infof(format, args...)
}

func (l *ZapLogger) Errorf(component string, format string, args ...interface{}) {
	l.core.Named(component).Sugar().Errorf(format, args...)
}

// Sync flushes buffered output.
func (l *ZapLogger) Sync() error {
	return l.core.Sync()
}
