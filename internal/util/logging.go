// Package util provides shared helper utilities.
package util

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu   sync.Mutex
	logger  = newConsoleLogger(zapcore.InfoLevel, nil)
	logOut  *os.File
	verbose atomic.Bool
)

// ConfigureLogging rebuilds the shared logger. Console output is colourised;
// when logFile is set the same records are also written to it as JSON. The
// file opened by a previous call is closed once the old logger is flushed.
func ConfigureLogging(isVerbose bool, logFile string) error {
	level := zapcore.InfoLevel
	if isVerbose {
		level = zapcore.DebugLevel
	}
	var (
		f    *os.File
		file zapcore.WriteSyncer
	)
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
		var err error
		f, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		file = zapcore.AddSync(f)
	}
	logMu.Lock()
	defer logMu.Unlock()
	_ = logger.Sync()
	if logOut != nil {
		_ = logOut.Close()
	}
	logger = newConsoleLogger(level, file)
	logOut = f
	verbose.Store(isVerbose)
	return nil
}

// SyncLogs flushes buffered log output.
func SyncLogs() {
	_ = current().Sync()
}

func newConsoleLogger(level zapcore.Level, file zapcore.WriteSyncer) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), file, level))
	}
	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func current() *zap.SugaredLogger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	current().Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	current().Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	current().Errorf(format, args...)
}

// Highlightf logs a message worth spotting in a long run, such as a new
// disagreement signature.
func Highlightf(format string, args ...any) {
	current().With("note", true).Infof(format, args...)
}

// Detailf logs a debug message, only when verbose logging is on.
func Detailf(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	current().Debugf(format, args...)
}
