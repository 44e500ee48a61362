package logger

import (
	"go.uber.org/zap"
)

var _ Logger = &Zap{}

// Zap is a zap wrapper that implements the logger.Logger interface.
type Zap zap.Logger

func adaptFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}

	return zapFields
}

// Debug prints a debug log message.
func (l *Zap) Debug(msg string, fields ...Field) {
	(*zap.Logger)(l).Debug(msg, adaptFields(fields)...)
}

// Info prints an info log message.
func (l *Zap) Info(msg string, fields ...Field) {
	(*zap.Logger)(l).Info(msg, adaptFields(fields)...)
}

// Error prints an error log message.
func (l *Zap) Error(msg string, fields ...Field) {
	(*zap.Logger)(l).Error(msg, adaptFields(fields)...)
}

// WrapZap wraps a zap.Logger into a logger.Zap instance.
func WrapZap(l *zap.Logger) *Zap {
	return (*Zap)(l)
}
