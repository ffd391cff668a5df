package zap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qpbtools/qpb"
	"github.com/qpbtools/qpb/value"
)

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Debug("d", qpb.Fields{"n": 1})
	l.Info("i", nil)
	l.Warn("w", qpb.Fields{"s": "x"})
	l.Error("e", qpb.Fields{})

	all := logs.All()
	require.Len(t, all, 4)
	assert.Equal(t, zapcore.DebugLevel, all[0].Level)
	assert.Equal(t, int64(1), all[0].ContextMap()["n"])
	assert.Equal(t, zapcore.InfoLevel, all[1].Level)
	assert.Empty(t, all[1].Context)
	assert.Equal(t, "x", all[2].ContextMap()["s"])
	assert.Equal(t, zapcore.ErrorLevel, all[3].Level)
}

func TestZapLogger_WithCodec(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := qpb.New(qpb.Options{Logger: ZapLogger{L: zap.New(core)}})

	b, err := c.Encode(value.NewMessage().Set(4, value.Bytes{0xff}))
	require.NoError(t, err)
	_, err = c.Decode(b)
	require.NoError(t, err)

	failed := logs.FilterMessage("qpb.speculation_failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, uint64(4), failed[0].ContextMap()["field"])
	assert.Equal(t, 1, logs.FilterMessage("qpb.decode").Len())
}
