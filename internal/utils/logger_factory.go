package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel enumerates the logging granularities pressctl accepts in
// configuration files, the environment, and on the command line.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultLogLevel applies when configuration leaves the level unset.
	DefaultLogLevel = LogLevelInfo
)

// LogFormat selects between machine-readable and operator-facing output.
type LogFormat string

const (
	// LogFormatStructured emits JSON lines for log shippers.
	LogFormatStructured LogFormat = "structured"
	// LogFormatConsole emits human-readable lines for interactive maintenance runs.
	LogFormatConsole LogFormat = "console"

	// DefaultLogFormat applies when configuration leaves the format unset.
	DefaultLogFormat = LogFormatStructured
)

const (
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	structuredZapEncodingConstant        = "json"
	consoleZapEncodingConstant           = "console"
)

func (logLevel LogLevel) zapLevel() (zapcore.Level, error) {
	switch logLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, logLevel)
	}
}

func (logFormat LogFormat) zapEncoding() (string, error) {
	switch logFormat {
	case LogFormatStructured:
		return structuredZapEncodingConstant, nil
	case LogFormatConsole:
		return consoleZapEncodingConstant, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, logFormat)
	}
}

// LoggerFactory builds zap.Logger instances honoring the pressctl logging vocabulary.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger for the requested level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelError := requestedLogLevel.zapLevel()
	if levelError != nil {
		return nil, levelError
	}

	encoding, encodingError := requestedLogFormat.zapEncoding()
	if encodingError != nil {
		return nil, encodingError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding

	return configuration.Build()
}
