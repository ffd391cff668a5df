package value

import (
	"fmt"
	"iter"
	"math/big"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// Decoded is a value inferred from wire bytes without a schema.
type Decoded interface {
	fmt.Stringer
	isDecoded()
}

// Uint is the unsigned integer carried by a VARINT record. VARINT payloads
// are never zigzag-decoded since the wire does not say whether they were.
type Uint struct {
	v *big.Int
}

// Uint64 returns v as a Uint.
func Uint64(v uint64) Uint {
	return Uint{v: new(big.Int).SetUint64(v)}
}

// BigUint returns a copy of v as a Uint. A nil v is treated as zero.
func BigUint(v *big.Int) Uint {
	if v == nil {
		return Uint{}
	}
	return Uint{v: new(big.Int).Set(v)}
}

// Big returns a copy of the integer.
func (u Uint) Big() *big.Int {
	if u.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(u.v)
}

// Uint64 returns the integer and whether it fits in 64 bits.
func (u Uint) Uint64() (uint64, bool) {
	if u.v == nil {
		return 0, true
	}
	return u.v.Uint64(), u.v.IsUint64()
}

func (u Uint) String() string {
	if u.v == nil {
		return "0"
	}
	return u.v.String()
}

// Equal reports whether both hold the same number.
func (u Uint) Equal(o Uint) bool {
	return u.Big().Cmp(o.Big()) == 0
}

// Fixed64 holds the 8 little-endian bytes of an I64 record, uninterpreted:
// width alone cannot tell a double from a fixed64 or sfixed64.
type Fixed64 [8]byte

func (f Fixed64) String() string { return quoteBytes(f[:]) }

// Fixed32 holds the 4 little-endian bytes of an I32 record, uninterpreted.
type Fixed32 [4]byte

func (f Fixed32) String() string { return quoteBytes(f[:]) }

// Raw is a LEN payload that did not parse as a nested message.
type Raw []byte

func (r Raw) String() string { return quoteBytes(r) }

// Repeated holds the values of a field that occurred more than once, in
// record order.
type Repeated []Decoded

func (r Repeated) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = stringOf(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether both sequences hold equal values in the same order.
func (r Repeated) Equal(o Repeated) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !EqualDecoded(r[i], o[i]) {
			return false
		}
	}
	return true
}

// DecodedMessage maps field numbers to inferred values in first-seen order.
type DecodedMessage struct {
	fields *orderedmap.OrderedMap[FieldNumber, Decoded]
}

// NewDecodedMessage returns an empty message.
func NewDecodedMessage() *DecodedMessage {
	return &DecodedMessage{fields: orderedmap.NewOrderedMap[FieldNumber, Decoded]()}
}

// Set stores v under num and returns m.
func (m *DecodedMessage) Set(num FieldNumber, v Decoded) *DecodedMessage {
	if m.fields == nil {
		m.fields = orderedmap.NewOrderedMap[FieldNumber, Decoded]()
	}
	m.fields.Set(num, v)
	return m
}

// Get returns the value stored under num.
func (m *DecodedMessage) Get(num FieldNumber) (Decoded, bool) {
	if m == nil || m.fields == nil {
		return nil, false
	}
	return m.fields.Get(num)
}

// Len returns the number of distinct field numbers.
func (m *DecodedMessage) Len() int {
	if m == nil || m.fields == nil {
		return 0
	}
	return m.fields.Len()
}

// Fields iterates over the fields in first-seen order.
func (m *DecodedMessage) Fields() iter.Seq2[FieldNumber, Decoded] {
	return func(yield func(FieldNumber, Decoded) bool) {
		if m == nil || m.fields == nil {
			return
		}
		for el := m.fields.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

func (m *DecodedMessage) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for num, v := range m.Fields() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(strconv.FormatUint(uint64(num), 10))
		sb.WriteString(": ")
		sb.WriteString(stringOf(v))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether both messages hold equal fields in the same order.
func (m *DecodedMessage) Equal(o *DecodedMessage) bool {
	if m.Len() != o.Len() {
		return false
	}
	next, stop := iter.Pull2(o.Fields())
	defer stop()
	for num, v := range m.Fields() {
		onum, ov, ok := next()
		if !ok || num != onum || !EqualDecoded(v, ov) {
			return false
		}
	}
	return true
}

func (Uint) isDecoded()            {}
func (Fixed64) isDecoded()         {}
func (Fixed32) isDecoded()         {}
func (Raw) isDecoded()             {}
func (Repeated) isDecoded()        {}
func (*DecodedMessage) isDecoded() {}

// EqualDecoded compares two decoded trees structurally. Values of different
// variants are never equal, even when their bytes match.
func EqualDecoded(a, b Decoded) bool {
	switch x := a.(type) {
	case Uint:
		y, ok := b.(Uint)
		return ok && x.Equal(y)
	case Fixed64:
		y, ok := b.(Fixed64)
		return ok && x == y
	case Fixed32:
		y, ok := b.(Fixed32)
		return ok && x == y
	case Raw:
		y, ok := b.(Raw)
		return ok && string(x) == string(y)
	case Repeated:
		y, ok := b.(Repeated)
		return ok && x.Equal(y)
	case *DecodedMessage:
		y, ok := b.(*DecodedMessage)
		return ok && x.Equal(y)
	case nil:
		return b == nil
	default:
		return false
	}
}
