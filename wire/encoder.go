package wire

import (
	"math/big"
)

// MaxFieldNumber is the largest field number whose tag still fits in a
// 64-bit varint.
const MaxFieldNumber FieldNumber = 1<<61 - 1

// Encoder handles low-level protobuf wire format encoding
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeVarint encodes a uint64 as varint
func (e *Encoder) EncodeVarint(v uint64) {
	e.buf = AppendVarint(e.buf, v)
}

// EncodeBigVarint encodes a non-negative integer of any width as varint.
func (e *Encoder) EncodeBigVarint(v *big.Int) {
	e.buf = AppendBigVarint(e.buf, v)
}

// EncodeTag encodes the tag for fieldNumber and wireType.
func (e *Encoder) EncodeTag(fieldNumber FieldNumber, wireType WireType) {
	e.EncodeVarint(uint64(MakeTag(fieldNumber, wireType)))
}

// AppendTag appends the tag for fieldNumber and wireType to b.
func AppendTag(b []byte, fieldNumber FieldNumber, wireType WireType) []byte {
	return AppendVarint(b, uint64(MakeTag(fieldNumber, wireType)))
}
