// Package qpb encodes and decodes protobuf wire data without a schema.
//
// Encoding takes a value.Message tree and picks the wire type from the shape
// of each value: integers become varints (negative ones zigzag-mapped), text,
// bytes, lists and nested messages become length-delimited records. Lists are
// always written packed.
//
// Decoding walks the records of a buffer and guesses at structure. Every
// length-delimited payload is tried as a nested message first and kept as raw
// bytes when that fails. Fields seen once decode to a bare value, fields seen
// more than once to a value.Repeated in wire order.
//
// Components:
//   - wire: varint, zigzag and tag codecs, the record reader, Encode and Decode.
//   - value: the generic value trees on both sides of the codec.
//   - Codec: a facade binding a wire.Config to a Logger.
//
// Round trip:
//
//	c := qpb.New(qpb.Options{})
//	b, _ := c.Encode(value.NewMessage().Set(1, value.Int(150)))
//	m, _ := c.Decode(b) // {1: 150}
package qpb
