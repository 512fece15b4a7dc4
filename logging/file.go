package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File rotation limits.
const (
	fileMaxSizeMB  = 64
	fileMaxBackups = 3
)

// NewFileLogger returns a logger that writes to stderr like NewLoggerAt and
// additionally appends JSON lines to a size-rotated file at path.
func NewFileLogger(name, path string, level zapcore.Level) Logger {
	config := NewLoggerConfig()
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	fileEncoder := config.EncoderConfig
	fileEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		Compress:   true,
	}
	file := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(rotating), level)

	return zap.New(zapcore.NewTee(console, file)).Sugar().Named(name)
}
