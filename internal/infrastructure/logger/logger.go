package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"identity-api/config"
)

// New builds the process logger. Output always goes to stdout; cfg.File adds
// a rotated file sink. The returned func flushes buffered entries.
func New(cfg config.Log) (*zap.Logger, func()) {
	core := newCore(cfg, zapcore.AddSync(os.Stdout))
	l := zap.New(core, zap.AddCaller())
	if !cfg.JSON {
		l = l.WithOptions(zap.Development())
	}

	return l, func() { _ = l.Sync() }
}

func newCore(cfg config.Log, stdout zapcore.WriteSyncer) zapcore.Core {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(cfg.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	enc := newEncoder(cfg.JSON)
	cores := []zapcore.Core{zapcore.NewCore(enc, stdout, lvl)}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSizeMB),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAgeDays),
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, rotWriter{rotator}, lvl))
	}

	return zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)
}

func newEncoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// lumberjack has no Sync; rotation flushes on every write.
type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Sync() error { return nil }
