/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log provides module and level based logging. The underlying zap logger is
// lazily initialized on first use, so importers may call SetLevel or replace
// the backend before any line is logged.
type Log struct {
	module   string
	instance *zap.SugaredLogger
	once     sync.Once
}

var (
	mu    sync.RWMutex
	base  *zap.Logger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// New creates and returns a Logger implementation scoped to the given module
// name.
func New(module string) *Log {
	return &Log{module: module}
}

// SetLevel sets the logging level for all module loggers.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Initialize replaces the backend logger. Loggers created before this call
// but not yet used pick up the new backend; loggers already in use keep the
// backend they bound to.
func Initialize(logger *zap.Logger) {
	mu.Lock()
	base = logger
	mu.Unlock()
}

func backend() *zap.Logger {
	mu.RLock()
	b := base
	mu.RUnlock()

	if b != nil {
		return b
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level

	b, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		b = zap.NewNop()
	}

	mu.Lock()
	if base == nil {
		base = b
	}
	b = base
	mu.Unlock()

	return b
}

func (l *Log) logger() *zap.SugaredLogger {
	l.once.Do(func() {
		l.instance = backend().Named(l.module).Sugar()
	})

	return l.instance
}

// Fatalf calls Fatalf on the underlying logger and exits the process.
func (l *Log) Fatalf(msg string, args ...interface{}) {
	l.logger().Fatalf(msg, args...)
}

// Panicf calls Panicf on the underlying logger.
func (l *Log) Panicf(msg string, args ...interface{}) {
	l.logger().Panicf(msg, args...)
}

// Debugf calls Debugf on the underlying logger.
func (l *Log) Debugf(msg string, args ...interface{}) {
	l.logger().Debugf(msg, args...)
}

// Infof calls Infof on the underlying logger.
func (l *Log) Infof(msg string, args ...interface{}) {
	l.logger().Infof(msg, args...)
}

// Warnf calls Warnf on the underlying logger.
func (l *Log) Warnf(msg string, args ...interface{}) {
	l.logger().Warnf(msg, args...)
}

// Errorf calls Errorf on the underlying logger.
func (l *Log) Errorf(msg string, args ...interface{}) {
	l.logger().Errorf(msg, args...)
}
