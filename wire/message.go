package wire

import (
	"fmt"
	"strconv"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/pkg/errors"

	"github.com/qpbtools/qpb/value"
)

// ENCODING

// Encode encodes a top-level message. Anything other than a non-nil
// *value.Message is rejected with ErrInvalidInput, and no partial output is
// returned on error.
func Encode(v value.Value) ([]byte, error) {
	m, ok := v.(*value.Message)
	if !ok || m == nil {
		return nil, invalidInput("top-level value must be a message, got %s", shapeOf(v))
	}

	e := NewEncoder()
	if err := e.EncodeMessage(m); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeMessage appends one tagged record per field, in insertion order.
func (e *Encoder) EncodeMessage(m *value.Message) error {
	for num, v := range m.Fields() {
		segment := strconv.FormatUint(uint64(num), 10)
		if num > MaxFieldNumber {
			return wrapWithField(invalidInput("field number exceeds %d", uint64(MaxFieldNumber)), segment)
		}
		if err := e.encodeValue(v, num, true); err != nil {
			return wrapWithField(err, segment)
		}
	}
	return nil
}

// encodeValue appends v. When tagged is false the tag is left out, which is
// how list elements are packed.
func (e *Encoder) encodeValue(v value.Value, num FieldNumber, tagged bool) error {
	switch x := v.(type) {
	case value.Integer:
		n := x.Big()
		if n.Sign() < 0 {
			n = EncodeBigZigZag(n)
		}
		if tagged {
			e.EncodeTag(num, WireVarint)
		}
		e.EncodeBigVarint(n)
		return nil

	case value.List:
		body := NewEncoder()
		for i, el := range x {
			if err := body.encodeValue(el, 0, false); err != nil {
				return wrapWithField(err, fmt.Sprintf("[%d]", i))
			}
		}
		e.encodeDelimited(num, tagged, body.Bytes())
		return nil

	case *value.Message:
		if x == nil {
			return invalidInput("nil message")
		}
		body := NewEncoder()
		if err := body.EncodeMessage(x); err != nil {
			return err
		}
		e.encodeDelimited(num, tagged, body.Bytes())
		return nil

	case value.Text:
		e.encodeDelimited(num, tagged, []byte(x))
		return nil

	case value.Bytes:
		e.encodeDelimited(num, tagged, x)
		return nil

	default:
		return invalidInput("unencodable value of type %s", shapeOf(v))
	}
}

func (e *Encoder) encodeDelimited(num FieldNumber, tagged bool, body []byte) {
	if tagged {
		e.EncodeTag(num, WireBytes)
	}
	e.EncodeBytes(body)
}

func shapeOf(v value.Value) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// DECODING

// Decode decodes wire bytes into a message using the package configuration.
func Decode(data []byte) (*value.DecodedMessage, error) {
	return DecodeWithConfig(data, CurrentConfig())
}

// DecodeWithConfig decodes wire bytes into a message.
//
// Records are read until the input ends at a record boundary. Values sharing
// a field number are kept in record order; a field seen once is stored bare,
// a field seen more often as value.Repeated. Every LEN payload is tried as a
// nested message and kept as value.Raw when that fails. Text or opaque bytes
// that happen to parse as records are therefore reported as messages: there
// is no way to tell them apart without a schema.
func DecodeWithConfig(data []byte, cfg Config) (*value.DecodedMessage, error) {
	if cfg.MaxInputSize > 0 && len(data) > cfg.MaxInputSize {
		return nil, errors.Wrapf(ErrInputTooLarge, "%d bytes, limit %d", len(data), cfg.MaxInputSize)
	}
	return NewDecoderWithConfig(data, cfg).DecodeMessage()
}

// DecodeMessage reads records until the cursor is exhausted.
func (d *Decoder) DecodeMessage() (*value.DecodedMessage, error) {
	collected := orderedmap.NewOrderedMap[FieldNumber, []value.Decoded]()
	for {
		rec, err := d.ReadRecord()
		if errors.Is(err, ErrEndOfStream) {
			break
		}
		if err != nil {
			return nil, err
		}
		values, _ := collected.Get(rec.FieldNumber)
		collected.Set(rec.FieldNumber, append(values, rec.Payload))
	}

	result := value.NewDecodedMessage()
	for el := collected.Front(); el != nil; el = el.Next() {
		values := el.Value
		for i, v := range values {
			raw, ok := v.(value.Raw)
			if !ok {
				continue
			}
			nested, ok, err := d.speculate(el.Key, raw)
			if err != nil {
				return nil, err
			}
			if ok {
				values[i] = nested
			}
		}

		if len(values) == 1 {
			result.Set(el.Key, values[0])
		} else {
			result.Set(el.Key, value.Repeated(values))
		}
	}
	return result, nil
}

// speculate tries to read payload as a nested message. ok is false when the
// payload does not parse or the depth limit forbids trying; err is only set
// for failures that are not about the payload's shape.
func (d *Decoder) speculate(num FieldNumber, payload []byte) (nested *value.DecodedMessage, ok bool, err error) {
	depth := d.depth + 1
	if d.cfg.DisableInference || depth > d.cfg.maxDepth() {
		return nil, false, nil
	}

	sub := &Decoder{buf: payload, cfg: d.cfg, depth: depth}
	nested, err = sub.DecodeMessage()
	switch {
	case err == nil:
		return nested, true, nil
	case IsParseFailure(err):
		if d.cfg.OnSpeculationFailure != nil {
			d.cfg.OnSpeculationFailure(num, depth, err)
		}
		return nil, false, nil
	default:
		return nil, false, err
	}
}
