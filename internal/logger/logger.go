package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "orderdesk"

// global is read from every request goroutine and swapped by Init and Replace.
var global atomic.Pointer[zap.Logger]

// New builds a logger for env. "production" logs JSON to stdout; anything else uses the
// colored console encoder at debug level.
func New(env string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("service", serviceName)), nil
}

// Init installs the global logger for env. It panics when zap cannot be configured.
func Init(env string) {
	l, err := New(env)
	if err != nil {
		panic(err)
	}
	global.Store(l)
}

// L returns the global logger, building one from APP_ENV on first use.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l, err := New(os.Getenv("APP_ENV"))
	if err != nil {
		l = zap.NewNop()
	}
	if global.CompareAndSwap(nil, l) {
		return l
	}
	return global.Load()
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := L()
	global.Store(l)
	return func() { global.Store(prev) }
}

// Sync flushes buffered entries.
func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}
