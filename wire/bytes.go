package wire

// DecodeBytes decodes a length-delimited byte array. The result is a copy
// and does not share the decoder's buffer.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	length, err := d.DecodeVarint()
	if err != nil {
		return nil, d.inPayload(err)
	}
	if err := d.need(length, "LEN"); err != nil {
		return nil, err
	}

	data := make([]byte, length)
	copy(data, d.buf[d.pos:])
	d.pos += int(length)
	return data, nil
}

// EncodeBytes encodes a byte array as length-delimited
func (e *Encoder) EncodeBytes(data []byte) {
	e.EncodeVarint(uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// BytesSize returns the size needed to encode the given bytes
func BytesSize(data []byte) int {
	return VarintSize(uint64(len(data))) + len(data)
}
