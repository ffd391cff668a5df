package wire

import (
	"math/big"

	"google.golang.org/protobuf/encoding/protowire"
)

var bigOne = big.NewInt(1)

// ENCODER FUNCTIONS

// AppendVarint appends v as a base-128 varint: 7 bits per byte, least
// significant group first, high bit set on every byte but the last.
func AppendVarint(b []byte, v uint64) []byte {
	return protowire.AppendVarint(b, v)
}

// AppendBigVarint appends a non-negative integer of any width as a varint.
// It panics if v is negative; callers map negatives through zigzag first.
func AppendBigVarint(b []byte, v *big.Int) []byte {
	if v.Sign() < 0 {
		panic("wire: negative varint")
	}
	if v.IsUint64() {
		return protowire.AppendVarint(b, v.Uint64())
	}

	x := new(big.Int).Set(v)
	var group big.Int
	mask := big.NewInt(0x7f)
	for x.BitLen() > 7 {
		group.And(x, mask)
		b = append(b, byte(group.Uint64())|0x80)
		x.Rsh(x, 7)
	}
	return append(b, byte(x.Uint64()))
}

// VarintSize returns the number of bytes needed to encode the given varint
func VarintSize(v uint64) int {
	return protowire.SizeVarint(v)
}

// BigVarintSize returns the encoded size of a non-negative integer.
func BigVarintSize(v *big.Int) int {
	if n := (v.BitLen() + 6) / 7; n > 0 {
		return n
	}
	return 1
}

// DECODER METHODS

// scanVarint finds the end of the varint starting at the cursor without
// consuming it. An empty cursor yields ErrEndOfStream; a continuation bit on
// the last available byte is malformed.
func (d *Decoder) scanVarint() (int, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrEndOfStream
	}
	for i := d.pos; i < len(d.buf); i++ {
		if d.buf[i] < 0x80 {
			return i + 1, nil
		}
	}
	return 0, malformed(d.pos, "truncated varint: %d bytes with continuation bit set", len(d.buf)-d.pos)
}

// DecodeVarint decodes a varint that must fit in 64 bits. Tags and LEN
// lengths go through here.
func (d *Decoder) DecodeVarint() (uint64, error) {
	end, err := d.scanVarint()
	if err != nil {
		return 0, err
	}

	var result uint64
	var shift uint
	for i := d.pos; i < end; i++ {
		group := uint64(d.buf[i] & 0x7f)
		if group != 0 && (shift >= 64 || group>>(64-shift) != 0) {
			return 0, malformed(d.pos, "varint overflows 64 bits")
		}
		if shift < 64 {
			result |= group << shift
		}
		shift += 7
	}

	d.pos = end
	return result, nil
}

// DecodeBigVarint decodes a varint of any length.
func (d *Decoder) DecodeBigVarint() (*big.Int, error) {
	end, err := d.scanVarint()
	if err != nil {
		return nil, err
	}

	// 9 groups carry 63 bits, always safe in a uint64.
	if end-d.pos <= 9 {
		var result uint64
		for i, shift := d.pos, uint(0); i < end; i, shift = i+1, shift+7 {
			result |= uint64(d.buf[i]&0x7f) << shift
		}
		d.pos = end
		return new(big.Int).SetUint64(result), nil
	}

	result := new(big.Int)
	var group big.Int
	for i := end - 1; i >= d.pos; i-- {
		result.Lsh(result, 7)
		result.Or(result, group.SetUint64(uint64(d.buf[i]&0x7f)))
	}
	d.pos = end
	return result, nil
}

// ZIGZAG

// EncodeZigZag maps a signed integer onto an unsigned one so that small
// magnitudes stay small: 0, -1, 1, -2 become 0, 1, 2, 3.
func EncodeZigZag(v int64) uint64 {
	return protowire.EncodeZigZag(v)
}

// DecodeZigZag inverts EncodeZigZag.
func DecodeZigZag(v uint64) int64 {
	return protowire.DecodeZigZag(v)
}

// EncodeBigZigZag is EncodeZigZag for integers of any width.
func EncodeBigZigZag(v *big.Int) *big.Int {
	r := new(big.Int).Lsh(v, 1)
	if v.Sign() < 0 {
		r.Neg(r)
		r.Sub(r, bigOne)
	}
	return r
}

// DecodeBigZigZag inverts EncodeBigZigZag. v must be non-negative.
func DecodeBigZigZag(v *big.Int) *big.Int {
	r := new(big.Int).Rsh(v, 1)
	if v.Bit(0) == 1 {
		r.Neg(r)
		r.Sub(r, bigOne)
	}
	return r
}
