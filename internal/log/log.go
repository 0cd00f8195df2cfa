// Package log is the process wide structured logger, backed by logrus.
package log

import (
	"io"
	"os"
	"sync"

	"firestige.xyz/overwatch/internal/config"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger
)

// GetLogger returns the global logger. Before Init it is an info level
// pattern logger on stderr.
func GetLogger() Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, _ = newLogger(config.DefaultLogConfig(), os.Stderr)
	}
	return logger
}

// Init replaces the global logger. Console output goes to stderr so that
// stdout carries rendered frames only.
func Init(cfg config.LogConfig) error {
	return InitWithOutput(cfg, os.Stderr)
}

// InitWithOutput is Init with an explicit console writer.
func InitWithOutput(cfg config.LogConfig, console io.Writer) error {
	l, err := newLogger(cfg, console)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}
