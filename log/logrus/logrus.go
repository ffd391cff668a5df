// Package logrus adapts a *logrus.Entry to qpb.Logger.
package logrus

import (
	"github.com/qpbtools/qpb"
	"github.com/sirupsen/logrus"
)

var _ qpb.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f qpb.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f qpb.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f qpb.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f qpb.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
