package value

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"integer", Int(-42), "-42"},
		{"zero integer", Integer{}, "0"},
		{"big integer", BigInt(new(big.Int).Lsh(big.NewInt(1), 70)), "1180591620717411303424"},
		{"text", Text("hi"), "'hi'"},
		{"text with quote", Text("it's"), `"it's"`},
		{"text with both quotes", Text(`'"`), `'\'"'`},
		{"text escapes", Text("a\tb\n\x01\u00a0é"), `'a\tb\n\x01\xa0é'`},
		{"bytes", Bytes("abc"), "b'abc'"},
		{"bytes escapes", Bytes{0x00, '\\', 0x7f, 0xff, '\r'}, `b'\x00\\\x7f\xff\r'`},
		{"list", List{Int(1), Text("a"), List{}}, "[1, 'a', []]"},
		{"list with nil", List{nil}, "[None]"},
		{"message", NewMessage().Set(2, Int(1)).Set(1, Bytes("x")), "{2: 1, 1: b'x'}"},
		{"empty message", NewMessage(), "{}"},
		{"nested", NewMessage().Set(1, NewMessage().Set(2, List{Int(3)})), "{1: {2: [3]}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestDecodedString(t *testing.T) {
	tests := []struct {
		name string
		in   Decoded
		want string
	}{
		{"uint", Uint64(150), "150"},
		{"zero uint", Uint{}, "0"},
		{"fixed64", Fixed64{1, 0, 0, 0, 0, 0, 0, 0}, `b'\x01\x00\x00\x00\x00\x00\x00\x00'`},
		{"fixed32", Fixed32{'a', 'b', 'c', 'd'}, "b'abcd'"},
		{"raw with quote", Raw("it's"), `b"it's"`},
		{"repeated", Repeated{Uint64(5), Uint64(9)}, "[5, 9]"},
		{
			"message",
			NewDecodedMessage().Set(1, Uint64(1)).Set(2, Repeated{Raw("x"), NewDecodedMessage()}),
			"{1: 1, 2: [b'x', {}]}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestMessageSetKeepsPosition(t *testing.T) {
	m := NewMessage().Set(1, Int(1)).Set(2, Int(2)).Set(1, Int(3))
	assert.Equal(t, "{1: 3, 2: 2}", m.String())
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.True(t, Equal(Int(3), v))

	_, ok = m.Get(9)
	assert.False(t, ok)
}

func TestZeroMessages(t *testing.T) {
	var m Message
	assert.Equal(t, 0, m.Len())
	m.Set(4, Text("ok"))
	assert.Equal(t, "{4: 'ok'}", m.String())

	var nilMsg *Message
	assert.Equal(t, 0, nilMsg.Len())
	_, ok := nilMsg.Get(1)
	assert.False(t, ok)

	var dm DecodedMessage
	dm.Set(1, Uint64(1))
	assert.Equal(t, 1, dm.Len())

	var nilDecoded *DecodedMessage
	assert.Equal(t, "{}", nilDecoded.String())
}

func TestFieldsStopsEarly(t *testing.T) {
	m := NewMessage().Set(1, Int(1)).Set(2, Int(2)).Set(3, Int(3))
	var seen []FieldNumber
	for num := range m.Fields() {
		seen = append(seen, num)
		if num == 2 {
			break
		}
	}
	assert.Equal(t, []FieldNumber{1, 2}, seen)
}

func TestEqual(t *testing.T) {
	a := NewMessage().Set(1, Int(1)).Set(2, List{Text("x"), Bytes("y")})
	b := NewMessage().Set(1, BigInt(big.NewInt(1))).Set(2, List{Text("x"), Bytes("y")})
	reordered := NewMessage().Set(2, List{Text("x"), Bytes("y")}).Set(1, Int(1))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(reordered), "order is significant")
	assert.False(t, Equal(Text("x"), Bytes("x")))
	assert.False(t, Equal(Int(1), nil))
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal(Integer{}, Int(0)))
}

func TestEqualDecoded(t *testing.T) {
	a := NewDecodedMessage().Set(1, Repeated{Uint64(1), Raw("x")})
	b := NewDecodedMessage().Set(1, Repeated{BigUint(big.NewInt(1)), Raw("x")})

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("unexpected diff (-a +b):\n%s", diff)
	}
	assert.False(t, EqualDecoded(Raw{1, 2, 3, 4}, Fixed32{1, 2, 3, 4}), "variants differ")
	assert.False(t, EqualDecoded(Repeated{Uint64(1)}, Uint64(1)))
	assert.False(t, a.Equal(NewDecodedMessage()))
}

func TestIntegerCopies(t *testing.T) {
	src := big.NewInt(5)
	i := BigInt(src)
	src.SetInt64(6)
	assert.Equal(t, "5", i.String())

	out := i.Big()
	out.SetInt64(7)
	assert.Equal(t, "5", i.String())
	assert.Equal(t, -1, Int(-3).Sign())

	u := BigUint(nil)
	n, fits := u.Uint64()
	assert.True(t, fits)
	assert.Equal(t, uint64(0), n)
}
