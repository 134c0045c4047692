package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey string

// RunIDKey tags log lines with the run (process) they belong to.
const RunIDKey ctxKey = "run_id"

var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger   = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

// InitLogger points all loggers at rotating JSON files under dir.
// Nothing is written to stdout so the terminal client keeps a clean screen.
func InitLogger(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create log dir %s: %w", dir, err)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	newLogger := func(name string, maxSize, maxAge int, level zapcore.Level) *zap.Logger {
		core := zapcore.NewCore(encoder,
			zapcore.AddSync(&lumberjack.Logger{
				Filename: filepath.Join(dir, name), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
			}),
			level,
		)
		return zap.New(core)
	}

	AppLogger = newLogger("app.log", 100, 28, zap.DebugLevel)
	RequestLogger = newLogger("request.log", 50, 7, zap.InfoLevel)
	TimerLogger = newLogger("timer.log", 50, 7, zap.InfoLevel)
	ErrorLogger = newLogger("error.log", 100, 30, zap.ErrorLevel)
	return nil
}

// Sync flushes every logger; call it on shutdown.
func Sync() {
	for _, l := range []*zap.Logger{AppLogger, RequestLogger, TimerLogger, ErrorLogger} {
		_ = l.Sync()
	}
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	runID, _ := ctx.Value(RunIDKey).(string)

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if runID != "" {
			fields = append(fields, zap.String("run_id", runID))
		}
		TimerLogger.Info("Function timed", fields...)
	}
}
