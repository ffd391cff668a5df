// Package zerolog adapts a zerolog.Logger to qpb.Logger.
package zerolog

import (
	"github.com/qpbtools/qpb"
	"github.com/rs/zerolog"
)

var _ qpb.Logger = ZerologLogger{}

type ZerologLogger struct{ L zerolog.Logger }

func (z ZerologLogger) Debug(msg string, f qpb.Fields) { emit(z.L.Debug(), msg, f) }
func (z ZerologLogger) Info(msg string, f qpb.Fields)  { emit(z.L.Info(), msg, f) }
func (z ZerologLogger) Warn(msg string, f qpb.Fields)  { emit(z.L.Warn(), msg, f) }
func (z ZerologLogger) Error(msg string, f qpb.Fields) { emit(z.L.Error(), msg, f) }

// emit is a no-op for events disabled by the logger's level.
func emit(event *zerolog.Event, msg string, f qpb.Fields) {
	if event == nil {
		return
	}
	for k, v := range f {
		switch v := v.(type) {
		case string:
			event.Str(k, v)
		case int:
			event.Int(k, v)
		case uint64:
			event.Uint64(k, v)
		case error:
			event.AnErr(k, v)
		default:
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}
