package qpb

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/qpbtools/qpb/value"
	"github.com/qpbtools/qpb/wire"
)

// Options configures a Codec.
type Options struct {
	// Logger receives debug summaries and swallowed speculation failures.
	// Nil disables logging.
	Logger Logger

	// Config overrides the decoder configuration. Nil means the package
	// configuration of wire at the time New is called.
	Config *wire.Config
}

// Codec binds a decoder configuration to a logger. It holds no mutable state
// and is safe for concurrent use.
type Codec struct {
	log Logger
	cfg wire.Config
}

// New returns a Codec built from opts.
func New(opts Options) *Codec {
	c := &Codec{cfg: wire.CurrentConfig()}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	if opts.Config != nil {
		c.cfg = *opts.Config
	}
	return c
}

// Config returns the decoder configuration in use.
func (c *Codec) Config() wire.Config { return c.cfg }

// Encode serializes a message tree. The top-level value must be a
// *value.Message; anything else fails with wire.ErrInvalidInput.
func (c *Codec) Encode(v value.Value) ([]byte, error) {
	out, err := wire.Encode(v)
	if err != nil {
		c.log.Debug("qpb.encode_failed", Fields{"err": err.Error()})
		return nil, err
	}
	c.log.Debug("qpb.encode", Fields{"bytes": len(out)})
	return out, nil
}

// Decode parses data into a message, inferring nested messages where the
// bytes allow it.
func (c *Codec) Decode(data []byte) (*value.DecodedMessage, error) {
	cfg := c.cfg
	next := cfg.OnSpeculationFailure
	cfg.OnSpeculationFailure = func(field wire.FieldNumber, depth int, err error) {
		c.log.Debug("qpb.speculation_failed", Fields{
			"field": uint64(field),
			"depth": depth,
			"err":   err.Error(),
		})
		if next != nil {
			next(field, depth, err)
		}
	}

	msg, err := wire.DecodeWithConfig(data, cfg)
	if err != nil {
		c.log.Debug("qpb.decode_failed", Fields{"bytes": len(data), "err": err.Error()})
		return nil, err
	}
	c.log.Debug("qpb.decode", Fields{"bytes": len(data), "fields": msg.Len()})
	return msg, nil
}

// Encode serializes v without logging.
func Encode(v value.Value) ([]byte, error) {
	return wire.Encode(v)
}

// Decode parses data with the package configuration of wire.
func Decode(data []byte) (*value.DecodedMessage, error) {
	return wire.Decode(data)
}

// Untag reads one tag from the front of b and splits it. Group markers are
// returned as is; reserved wire types 6 and 7 fail. Bytes after the tag are
// ignored.
func Untag(b []byte) (wire.FieldNumber, wire.WireType, error) {
	return wire.ReadTag(b)
}

// IntToZigZag maps a signed integer of any size onto its zigzag form.
func IntToZigZag(v *big.Int) *big.Int {
	return wire.EncodeBigZigZag(v)
}

// ZigZagToInt inverts IntToZigZag. Negative input has no zigzag meaning and
// fails with wire.ErrInvalidInput.
func ZigZagToInt(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 {
		return nil, errors.Wrapf(wire.ErrInvalidInput, "zigzag value %s is negative", v)
	}
	return wire.DecodeBigZigZag(v), nil
}
