// Package jsonvalue converts between JSON documents and value trees.
//
// Input: objects keyed by decimal field numbers become messages with their
// keys in document order, integers become Integer, strings Text, arrays List
// and booleans 1 or 0. Floats and null have no wire form and are rejected.
//
// Output: decoded messages become objects keyed by field number, varints
// become numbers, raw and fixed-width payloads base64 strings, repeated
// fields arrays.
package jsonvalue

import (
	"encoding/base64"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/qpbtools/qpb/value"
)

// ErrInvalidJSON is wrapped by every error Parse returns.
var ErrInvalidJSON = errors.New("invalid json input")

// Parse converts a JSON document into a value tree.
func Parse(data []byte) (value.Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidJSON, "malformed document")
	}
	return convert(gjson.ParseBytes(data), "$")
}

// ParseMessage is Parse for documents whose root must be an object.
func ParseMessage(data []byte) (*value.Message, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*value.Message)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidJSON, "root must be an object, got %s", v)
	}
	return m, nil
}

func convert(r gjson.Result, path string) (value.Value, error) {
	switch r.Type {
	case gjson.True:
		return value.Int(1), nil
	case gjson.False:
		return value.Int(0), nil
	case gjson.Null:
		return nil, errors.Wrapf(ErrInvalidJSON, "%s: null is not supported", path)
	case gjson.String:
		return value.Text(r.Str), nil
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return nil, errors.Wrapf(ErrInvalidJSON, "%s: floats are not supported: %s", path, r.Raw)
		}
		n, ok := new(big.Int).SetString(r.Raw, 10)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidJSON, "%s: bad number %s", path, r.Raw)
		}
		return value.BigInt(n), nil
	}

	switch {
	case r.IsObject():
		return convertObject(r, path)
	case r.IsArray():
		list := value.List{}
		var err error
		r.ForEach(func(_, elem gjson.Result) bool {
			var v value.Value
			v, err = convert(elem, path+"["+strconv.Itoa(len(list))+"]")
			if err != nil {
				return false
			}
			list = append(list, v)
			return true
		})
		if err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, errors.Wrapf(ErrInvalidJSON, "%s: unexpected value %s", path, r.Raw)
}

func convertObject(r gjson.Result, path string) (value.Value, error) {
	msg := value.NewMessage()
	var err error
	r.ForEach(func(key, elem gjson.Result) bool {
		num, perr := strconv.ParseUint(key.Str, 10, 64)
		if perr != nil {
			err = errors.Wrapf(ErrInvalidJSON, "%s: key %q is not a field number", path, key.Str)
			return false
		}
		var v value.Value
		if v, err = convert(elem, path+"."+key.Str); err != nil {
			return false
		}
		msg.Set(value.FieldNumber(num), v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Marshal renders a decoded message as indented JSON, fields in wire order.
func Marshal(m *value.DecodedMessage) []byte {
	return pretty.Pretty(appendDecoded(nil, m))
}

// MarshalCompact is Marshal without indentation.
func MarshalCompact(m *value.DecodedMessage) []byte {
	return pretty.Ugly(appendDecoded(nil, m))
}

func appendDecoded(b []byte, d value.Decoded) []byte {
	switch d := d.(type) {
	case *value.DecodedMessage:
		b = append(b, '{')
		first := true
		for num, v := range d.Fields() {
			if !first {
				b = append(b, ',')
			}
			first = false
			b = append(b, '"')
			b = strconv.AppendUint(b, uint64(num), 10)
			b = append(b, '"', ':')
			b = appendDecoded(b, v)
		}
		return append(b, '}')
	case value.Repeated:
		b = append(b, '[')
		for i, v := range d {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendDecoded(b, v)
		}
		return append(b, ']')
	case value.Uint:
		return d.Big().Append(b, 10)
	case value.Fixed64:
		return appendBase64(b, d[:])
	case value.Fixed32:
		return appendBase64(b, d[:])
	case value.Raw:
		return appendBase64(b, d)
	}
	return append(b, "null"...)
}

func appendBase64(b, data []byte) []byte {
	b = append(b, '"')
	b = base64.StdEncoding.AppendEncode(b, data)
	return append(b, '"')
}
