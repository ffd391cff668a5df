package wire

import (
	"github.com/pkg/errors"

	"github.com/qpbtools/qpb/value"
)

// Decoder is a cursor over wire bytes. It is not safe for concurrent use.
type Decoder struct {
	buf   []byte
	pos   int
	cfg   Config
	depth int
}

// NewDecoder creates a decoder using the package configuration.
func NewDecoder(data []byte) *Decoder {
	return NewDecoderWithConfig(data, CurrentConfig())
}

// NewDecoderWithConfig creates a decoder with an explicit configuration.
func NewDecoderWithConfig(data []byte, cfg Config) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
		cfg: cfg,
	}
}

// Pos returns the offset of the next unread byte.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// DecodeTag reads one tag. An exhausted cursor yields ErrEndOfStream. Group
// markers and the reserved wire types 6 and 7 fail with
// *UnsupportedWireTypeError and leave the cursor on the tag.
func (d *Decoder) DecodeTag() (FieldNumber, WireType, error) {
	return d.decodeTag(false)
}

func (d *Decoder) decodeTag(allowGroups bool) (FieldNumber, WireType, error) {
	start := d.pos
	tag, err := d.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}

	fieldNumber, wireType := ParseTag(Tag(tag))
	grouped := wireType == WireSGroup || wireType == WireEGroup
	if !wireType.Valid() || (grouped && !allowGroups) {
		d.pos = start
		return 0, 0, &UnsupportedWireTypeError{WireType: wireType}
	}
	return fieldNumber, wireType, nil
}

// ReadRecord reads exactly one tagged record. ErrEndOfStream means the
// cursor was empty at a record boundary, which ends a message normally. Any
// shortfall once the tag has been read is ErrMalformed.
func (d *Decoder) ReadRecord() (Record, error) {
	fieldNumber, wireType, err := d.DecodeTag()
	if err != nil {
		return Record{}, err
	}

	rec := Record{FieldNumber: fieldNumber, WireType: wireType}
	switch wireType {
	case WireVarint:
		v, err := d.DecodeBigVarint()
		if err != nil {
			return Record{}, d.inPayload(err)
		}
		rec.Payload = value.BigUint(v)
	case WireFixed64:
		f, err := d.DecodeFixed64()
		if err != nil {
			return Record{}, err
		}
		rec.Payload = f
	case WireFixed32:
		f, err := d.DecodeFixed32()
		if err != nil {
			return Record{}, err
		}
		rec.Payload = f
	case WireBytes:
		b, err := d.DecodeBytes()
		if err != nil {
			return Record{}, err
		}
		rec.Payload = value.Raw(b)
	default:
		return Record{}, &UnsupportedWireTypeError{WireType: wireType}
	}
	return rec, nil
}

// inPayload turns an end of stream hit after a tag into a malformed error.
func (d *Decoder) inPayload(err error) error {
	if errors.Is(err, ErrEndOfStream) {
		return malformed(d.pos, "record truncated after tag")
	}
	return err
}

// ReadTag decodes the tag at the start of b, ignoring anything after it.
// Unlike DecodeTag it names group markers instead of rejecting them, since
// it is meant for inspecting a tag rather than reading a record.
func ReadTag(b []byte) (FieldNumber, WireType, error) {
	return NewDecoder(b).decodeTag(true)
}
