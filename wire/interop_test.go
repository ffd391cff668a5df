package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/qpbtools/qpb/value"
)

var deterministic = proto.MarshalOptions{Deterministic: true}

// Messages built by hand must match what protobuf-go produces for the
// equivalent generated types.
func TestEncodeMatchesProtobufGo(t *testing.T) {
	tests := []struct {
		name string
		pb   proto.Message
		in   *value.Message
	}{
		{
			name: "uint64 wrapper",
			pb:   wrapperspb.UInt64(150),
			in:   value.NewMessage().Set(1, value.Int(150)),
		},
		{
			name: "string wrapper",
			pb:   wrapperspb.String("hi"),
			in:   value.NewMessage().Set(1, value.Text("hi")),
		},
		{
			name: "bytes wrapper",
			pb:   wrapperspb.Bytes([]byte{0, 1, 2}),
			in:   value.NewMessage().Set(1, value.Bytes{0, 1, 2}),
		},
		{
			name: "packed repeated int32",
			pb:   &descriptorpb.SourceCodeInfo_Location{Path: []int32{1, 2, 300}},
			in:   value.NewMessage().Set(1, value.List{value.Int(1), value.Int(2), value.Int(300)}),
		},
		{
			name: "nested message",
			pb: &descriptorpb.DescriptorProto{
				Name:  proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{{Number: proto.Int32(7)}},
			},
			in: value.NewMessage().
				Set(1, value.Text("M")).
				Set(2, value.NewMessage().Set(3, value.Int(7))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := deterministic.Marshal(tt.pb)
			require.NoError(t, err)

			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeProtobufGoOutput(t *testing.T) {
	tests := []struct {
		name string
		pb   proto.Message
		want string
	}{
		{
			name: "descriptor",
			pb: &descriptorpb.DescriptorProto{
				Name:  proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{{Number: proto.Int32(7)}},
			},
			want: "{1: b'M', 2: {3: 7}}",
		},
		{
			name: "repeated submessages",
			pb: &descriptorpb.DescriptorProto{
				Field: []*descriptorpb.FieldDescriptorProto{
					{Number: proto.Int32(1)},
					{Number: proto.Int32(2)},
				},
			},
			want: "{2: [{3: 1}, {3: 2}]}",
		},
		{
			name: "packed ints that do not parse",
			pb:   &descriptorpb.SourceCodeInfo_Location{Path: []int32{1, 2, 300}},
			want: `{1: b'\x01\x02\xac\x02'}`,
		},
		{
			name: "double",
			pb:   wrapperspb.Double(1),
			want: `{1: b'\x00\x00\x00\x00\x00\x00\xf0?'}`,
		},
		{
			name: "negative int64 is not zigzag",
			pb:   wrapperspb.Int64(-1),
			want: "{1: 18446744073709551615}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := deterministic.Marshal(tt.pb)
			require.NoError(t, err)

			got, err := Decode(b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDecodeRejectsGroups(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.StartGroupType)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)
	b = protowire.AppendTag(b, 1, protowire.EndGroupType)

	_, err := Decode(b)
	assert.ErrorIs(t, err, ErrUnsupportedWireType)
}

func TestReadRecordAgreesWithProtowire(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 1<<40)
	b = protowire.AppendTag(b, 2, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 0xdeadbeef)
	b = protowire.AppendTag(b, 3, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "payload")

	d := NewDecoder(b)
	for off := 0; off < len(b); {
		num, typ, n := protowire.ConsumeTag(b[off:])
		require.Greater(t, n, 0)
		m := protowire.ConsumeFieldValue(num, typ, b[off+n:])
		require.Greater(t, m, 0)
		off += n + m

		rec, err := d.ReadRecord()
		require.NoError(t, err)
		assert.Equal(t, FieldNumber(num), rec.FieldNumber)
		assert.Equal(t, WireType(typ), rec.WireType)
		assert.Equal(t, off, d.Pos())
	}

	_, err := d.ReadRecord()
	assert.ErrorIs(t, err, ErrEndOfStream)
}
