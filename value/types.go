// Package value holds the generic value trees exchanged with the wire codec.
//
// Two closed families live here. Value is what the encoder accepts: Integer,
// Text, Bytes, List and *Message. Decoded is what the decoder produces: Uint,
// Fixed64, Fixed32, Raw, Repeated and *DecodedMessage. The decoded family is
// looser on purpose since wire bytes alone cannot recover the original shape.
package value

import (
	"fmt"
	"math/big"
	"strings"
)

// FieldNumber identifies a field inside a message. No ceiling is enforced
// beyond the width of the type.
type FieldNumber uint64

// Value is a node of the tree accepted by the encoder.
type Value interface {
	fmt.Stringer
	isValue()
}

// Integer is an arbitrary-precision signed integer. The zero Integer is 0.
type Integer struct {
	v *big.Int
}

// Int returns v as an Integer.
func Int(v int64) Integer {
	return Integer{v: big.NewInt(v)}
}

// BigInt returns a copy of v as an Integer. A nil v is treated as zero.
func BigInt(v *big.Int) Integer {
	if v == nil {
		return Integer{}
	}
	return Integer{v: new(big.Int).Set(v)}
}

// Big returns a copy of the integer.
func (i Integer) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Sign returns -1, 0 or +1.
func (i Integer) Sign() int {
	if i.v == nil {
		return 0
	}
	return i.v.Sign()
}

func (i Integer) String() string {
	if i.v == nil {
		return "0"
	}
	return i.v.String()
}

// Equal reports whether both integers hold the same number.
func (i Integer) Equal(o Integer) bool {
	return i.Big().Cmp(o.Big()) == 0
}

// Text is a UTF-8 string. It encodes as a length-delimited record.
type Text string

func (t Text) String() string { return quoteText(string(t)) }

// Bytes is an opaque byte sequence. It encodes as a length-delimited record.
type Bytes []byte

func (b Bytes) String() string { return quoteBytes(b) }

// List encodes packed: elements without their own tags, wrapped once.
type List []Value

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = stringOf(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether both lists hold equal elements in the same order.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !Equal(l[i], o[i]) {
			return false
		}
	}
	return true
}

func (Integer) isValue()  {}
func (Text) isValue()     {}
func (Bytes) isValue()    {}
func (List) isValue()     {}
func (*Message) isValue() {}

// Equal compares two value trees structurally.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x.Equal(y)
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && string(x) == string(y)
	case List:
		y, ok := b.(List)
		return ok && x.Equal(y)
	case *Message:
		y, ok := b.(*Message)
		return ok && x.Equal(y)
	case nil:
		return b == nil
	default:
		return false
	}
}

func stringOf(s fmt.Stringer) string {
	if s == nil {
		return "None"
	}
	return s.String()
}
