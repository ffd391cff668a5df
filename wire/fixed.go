package wire

import (
	"github.com/qpbtools/qpb/value"
)

const (
	fixed64Size = 8
	fixed32Size = 4
)

// DecodeFixed64 reads the 8 bytes of an I64 payload.
func (d *Decoder) DecodeFixed64() (value.Fixed64, error) {
	var f value.Fixed64
	if err := d.need(fixed64Size, "I64"); err != nil {
		return f, err
	}
	copy(f[:], d.buf[d.pos:])
	d.pos += fixed64Size
	return f, nil
}

// DecodeFixed32 reads the 4 bytes of an I32 payload.
func (d *Decoder) DecodeFixed32() (value.Fixed32, error) {
	var f value.Fixed32
	if err := d.need(fixed32Size, "I32"); err != nil {
		return f, err
	}
	copy(f[:], d.buf[d.pos:])
	d.pos += fixed32Size
	return f, nil
}

// need checks that n more bytes are available for a payload of kind.
func (d *Decoder) need(n uint64, kind string) error {
	if have := uint64(len(d.buf) - d.pos); n > have {
		return malformed(d.pos, "%s payload truncated: need %d bytes, have %d", kind, n, have)
	}
	return nil
}
