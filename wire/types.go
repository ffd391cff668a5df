package wire

import (
	"strconv"

	"github.com/qpbtools/qpb/value"
)

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType is the 3-bit suffix of a tag that selects the payload shape.
type WireType uint8

const (
	WireVarint  WireType = 0 // base-128 varint
	WireFixed64 WireType = 1 // 8 little-endian bytes
	WireBytes   WireType = 2 // varint length, then that many bytes
	WireSGroup  WireType = 3 // start group, unsupported
	WireEGroup  WireType = 4 // end group, unsupported
	WireFixed32 WireType = 5 // 4 little-endian bytes
)

var wireTypeNames = [...]string{
	WireVarint:  "VARINT",
	WireFixed64: "I64",
	WireBytes:   "LEN",
	WireSGroup:  "SGROUP",
	WireEGroup:  "EGROUP",
	WireFixed32: "I32",
}

// Valid reports whether t is one of the six defined wire types.
func (t WireType) Valid() bool {
	return t <= WireFixed32
}

func (t WireType) String() string {
	if t.Valid() {
		return wireTypeNames[t]
	}
	return "WireType(" + strconv.Itoa(int(t)) + ")"
}

// FieldNumber identifies a field in a message.
type FieldNumber = value.FieldNumber

// Tag is a field number and wire type packed as (number << 3) | type.
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType&0x7))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// Record is one tagged record read off the wire. Payload is value.Uint for
// VARINT, value.Fixed64 for I64, value.Fixed32 for I32 and value.Raw for LEN.
type Record struct {
	FieldNumber FieldNumber
	WireType    WireType
	Payload     value.Decoded
}
