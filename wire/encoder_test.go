package wire

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qpbtools/qpb/value"
)

// shadowInt satisfies value.Value through embedding but is not one of the
// shapes the encoder knows.
type shadowInt struct{ value.Integer }

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   *value.Message
		want []byte
	}{
		{
			name: "empty",
			in:   value.NewMessage(),
			want: []byte{},
		},
		{
			name: "integer",
			in:   value.NewMessage().Set(1, value.Int(150)),
			want: []byte{0x08, 0x96, 0x01},
		},
		{
			name: "zero",
			in:   value.NewMessage().Set(1, value.Int(0)),
			want: []byte{0x08, 0x00},
		},
		{
			name: "negative uses zigzag",
			in:   value.NewMessage().Set(1, value.Int(-1)).Set(2, value.Int(-2)),
			want: []byte{0x08, 0x01, 0x10, 0x03},
		},
		{
			name: "positive skips zigzag",
			in:   value.NewMessage().Set(1, value.Int(1)),
			want: []byte{0x08, 0x01},
		},
		{
			name: "field zero",
			in:   value.NewMessage().Set(0, value.Int(1)),
			want: []byte{0x00, 0x01},
		},
		{
			name: "text",
			in:   value.NewMessage().Set(2, value.Text("hi")),
			want: []byte{0x12, 0x02, 'h', 'i'},
		},
		{
			name: "bytes",
			in:   value.NewMessage().Set(3, value.Bytes{0x00, 0xff}),
			want: []byte{0x1a, 0x02, 0x00, 0xff},
		},
		{
			name: "packed integers",
			in:   value.NewMessage().Set(4, value.List{value.Int(1), value.Int(2), value.Int(300)}),
			want: []byte{0x22, 0x04, 0x01, 0x02, 0xac, 0x02},
		},
		{
			name: "packed negative",
			in:   value.NewMessage().Set(1, value.List{value.Int(-1)}),
			want: []byte{0x0a, 0x01, 0x01},
		},
		{
			name: "packed text keeps element lengths",
			in:   value.NewMessage().Set(1, value.List{value.Text("a"), value.Text("bc")}),
			want: []byte{0x0a, 0x05, 0x01, 'a', 0x02, 'b', 'c'},
		},
		{
			name: "packed messages",
			in:   value.NewMessage().Set(1, value.List{value.NewMessage().Set(1, value.Int(1))}),
			want: []byte{0x0a, 0x03, 0x02, 0x08, 0x01},
		},
		{
			name: "empty list",
			in:   value.NewMessage().Set(1, value.List{}),
			want: []byte{0x0a, 0x00},
		},
		{
			name: "nested message",
			in:   value.NewMessage().Set(1, value.NewMessage().Set(2, value.Int(7))),
			want: []byte{0x0a, 0x02, 0x10, 0x07},
		},
		{
			name: "insertion order",
			in:   value.NewMessage().Set(2, value.Int(1)).Set(1, value.Int(2)),
			want: []byte{0x10, 0x01, 0x08, 0x02},
		},
		{
			name: "integer wider than 64 bits",
			in:   value.NewMessage().Set(1, value.BigInt(pow2(64))),
			want: []byte{0x08, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02},
		},
		{
			name: "negative wider than 64 bits",
			in:   value.NewMessage().Set(1, value.BigInt(new(big.Int).Neg(pow2(64)))),
			want: []byte{0x08, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x03},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRejectsNonMessage(t *testing.T) {
	inputs := []value.Value{
		nil,
		value.Int(1),
		value.Text("x"),
		value.Bytes("x"),
		value.List{value.Int(1)},
		(*value.Message)(nil),
	}
	for _, in := range inputs {
		got, err := Encode(in)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %v", in)
		assert.Nil(t, got)
	}
}

func TestEncodeRejectsBadFields(t *testing.T) {
	tests := []struct {
		name string
		in   *value.Message
		path []string
	}{
		{
			name: "nil value",
			in:   value.NewMessage().Set(1, value.Int(1)).Set(2, nil),
			path: []string{"2"},
		},
		{
			name: "foreign shape",
			in:   value.NewMessage().Set(5, shadowInt{value.Int(1)}),
			path: []string{"5"},
		},
		{
			name: "nil nested message",
			in:   value.NewMessage().Set(3, (*value.Message)(nil)),
			path: []string{"3"},
		},
		{
			name: "inside list",
			in:   value.NewMessage().Set(4, value.List{value.Int(1), value.List{nil}}),
			path: []string{"4", "[1]", "[0]"},
		},
		{
			name: "field number too large",
			in:   value.NewMessage().Set(MaxFieldNumber+1, value.Int(1)),
			path: []string{"2305843009213693952"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, got, "no partial output on error")

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.path, fieldErr.FieldPath)
		})
	}
}

func TestEncodeDecodeNested(t *testing.T) {
	in := value.NewMessage().Set(1, value.NewMessage().Set(2, value.Int(7)))
	enc, err := Encode(in)
	require.NoError(t, err)

	got, err := Decode(enc)
	require.NoError(t, err)

	want := value.NewDecodedMessage().
		Set(1, value.NewDecodedMessage().Set(2, value.Uint64(7)))
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestEncodeNegativeDecodesAsZigZag(t *testing.T) {
	enc, err := Encode(value.NewMessage().Set(1, value.Int(-1)))
	require.NoError(t, err)
	assert.Equal(t, append(AppendTag(nil, 1, WireVarint), AppendVarint(nil, EncodeZigZag(-1))...), enc)

	got, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "{1: 1}", got.String())
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.EncodeBytes([]byte("abc"))
	assert.Equal(t, []byte{0x03, 'a', 'b', 'c'}, e.Bytes())
	assert.Equal(t, 4, BytesSize([]byte("abc")))

	e.Reset()
	assert.Empty(t, e.Bytes())
	e.EncodeBigVarint(big.NewInt(300))
	assert.Equal(t, []byte{0xac, 0x02}, e.Bytes())
}
