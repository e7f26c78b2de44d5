package rlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
	atom   = zap.NewAtomicLevel()
	opts   = NewOptions()
)

func Configure(op *Options) {
	mu.Lock()
	defer mu.Unlock()

	atom.SetLevel(op.Level)
	opts = op

	loggerOpts := make([]zap.Option, 0)
	if opts.LineNum {
		loggerOpts = append(loggerOpts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	cores := make([]zapcore.Core, 0, 2)
	if !opts.NoConsole {
		var enc zapcore.Encoder
		if opts.JSON {
			enc = zapcore.NewJSONEncoder(newEncoderConfig())
		} else {
			cfg := newEncoderConfig()
			cfg.EncodeLevel = zapcore.CapitalLevelEncoder
			enc = zapcore.NewConsoleEncoder(cfg)
		}
		// stdout carries command output
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom))
	}
	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(newEncoderConfig()), fileWriter, atom))
	}
	logger = zap.New(zapcore.NewTee(cores...), loggerOpts...)
}

func Level() zapcore.Level {
	return atom.Level()
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "time",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "linenum",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		EncodeName:    zapcore.FullNameEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02T15:04:05.000-07:00"))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

func get() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Configure(NewOptions())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Info(msg string, fields ...zap.Field) {
	get().Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	get().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	get().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	get().Error(msg, fields...)
}

func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return nil
	}
	if err := logger.Sync(); err != nil && !isStdSyncErr(err) {
		fmt.Fprintln(os.Stderr, "logger sync error", err)
		return err
	}
	return nil
}

// fsync on a terminal or pipe fails with EINVAL/ENOTTY; zap surfaces it anyway.
func isStdSyncErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "invalid argument") || strings.Contains(s, "inappropriate ioctl")
}

type Log interface {
	Info(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Logger prefixes every message with a component name.
type Logger struct {
	prefix string
}

func New(prefix string) *Logger {

	return &Logger{prefix: prefix}
}

func (l *Logger) msg(m string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(l.prefix)
	b.WriteString("] ")
	b.WriteString(m)
	return b.String()
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	Info(l.msg(msg), fields...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	Debug(l.msg(msg), fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	Warn(l.msg(msg), fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	Error(l.msg(msg), fields...)
}
