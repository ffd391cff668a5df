// Package zap adapts a *zap.Logger to qpb.Logger.
package zap

import (
	"github.com/qpbtools/qpb"
	"go.uber.org/zap"
)

var _ qpb.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f qpb.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f qpb.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f qpb.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f qpb.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f qpb.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
