// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DefaultLogger is a global logger configured to output messages at InfoLevel
	// and above to os.Stdout.
	DefaultLogger = New(InfoLevel, os.Stdout)

	// DebugLogger is a global logger configured to output messages at DebugLevel
	// and above to os.Stdout.
	DebugLogger = New(DebugLevel, os.Stdout)

	// DiscardLogger is a no-op logger that discards all log messages.
	DiscardLogger Logger = discardLogger{}
)

// Zap implements Logger with zap as the underlying logging library.
type Zap struct {
	logger  *zap.Logger
	sugar   *zap.SugaredLogger
	outputs []io.Writer
}

// enforce compilation and linter error
var _ Logger = (*Zap)(nil)

// New creates an instance of Zap writing to the given writers at the given
// level. When no writer is supplied os.Stdout is used.
func New(level Level, writers ...io.Writer) *Zap {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zap.CombineWriteSyncers(syncers...),
		toZapLevel(level),
	)

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.PanicLevel))

	return &Zap{
		logger:  zapLogger,
		sugar:   zapLogger.Sugar(),
		outputs: writers,
	}
}

// Debug starts a message with debug level
func (z *Zap) Debug(v ...any) {
	z.sugar.Debug(v...)
}

// Debugf starts a message with debug level
func (z *Zap) Debugf(format string, v ...any) {
	z.sugar.Debugf(format, v...)
}

// Info starts a message with info level
func (z *Zap) Info(v ...any) {
	z.sugar.Info(v...)
}

// Infof starts a message with info level
func (z *Zap) Infof(format string, v ...any) {
	z.sugar.Infof(format, v...)
}

// Warn starts a message with warn level
func (z *Zap) Warn(v ...any) {
	z.sugar.Warn(v...)
}

// Warnf starts a message with warn level
func (z *Zap) Warnf(format string, v ...any) {
	z.sugar.Warnf(format, v...)
}

// Error starts a message with error level
func (z *Zap) Error(v ...any) {
	z.sugar.Error(v...)
}

// Errorf starts a message with error level
func (z *Zap) Errorf(format string, v ...any) {
	z.sugar.Errorf(format, v...)
}

// Fatal starts a new message with fatal level. The os.Exit(1) function
// is called which terminates the program immediately.
func (z *Zap) Fatal(v ...any) {
	z.sugar.Fatal(v...)
}

// Fatalf starts a new message with fatal level. The os.Exit(1) function
// is called which terminates the program immediately.
func (z *Zap) Fatalf(format string, v ...any) {
	z.sugar.Fatalf(format, v...)
}

// LogLevel returns the log level that is used
func (z *Zap) LogLevel() Level {
	switch z.logger.Level() {
	case zapcore.FatalLevel:
		return FatalLevel
	case zapcore.PanicLevel:
		return PanicLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	case zapcore.WarnLevel:
		return WarningLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.DebugLevel:
		return DebugLevel
	default:
		return InvalidLevel
	}
}

// LogOutput returns the log output that is set
func (z *Zap) LogOutput() []io.Writer {
	return z.outputs
}

// toZapLevel maps a Level to the corresponding zapcore level.
func toZapLevel(level Level) zapcore.Level {
	switch level {
	case FatalLevel:
		return zapcore.FatalLevel
	case PanicLevel:
		return zapcore.PanicLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case DebugLevel:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
