package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultLogger *zap.SugaredLogger

func init() {
	defaultLogger = newLogger(zapcore.InfoLevel)
}

func newLogger(lvl zapcore.Level) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}

func SetDebug() {
	defaultLogger = newLogger(zapcore.DebugLevel)
}

func Infof(s string, args ...any) {
	defaultLogger.Infow(s, args...)
}

func Errorf(s string, args ...any) {
	defaultLogger.Errorw(s, args...)
}

func Fatalf(s string, args ...any) {
	defaultLogger.Fatalw(s, args...)
}

func Debugf(s string, args ...any) {
	defaultLogger.Debugw(s, args...)
}

func Warnf(s string, args ...any) {
	defaultLogger.Warnw(s, args...)
}
