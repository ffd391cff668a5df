package value

import (
	"iter"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
)

// Message maps field numbers to values. Iteration follows insertion order,
// which is also the order the encoder emits fields in. The zero Message is
// empty and ready to use.
type Message struct {
	fields *orderedmap.OrderedMap[FieldNumber, Value]
}

// NewMessage returns an empty message.
func NewMessage() *Message {
	return &Message{fields: orderedmap.NewOrderedMap[FieldNumber, Value]()}
}

// Set stores v under num and returns m so calls can be chained. Replacing an
// existing field keeps its original position.
func (m *Message) Set(num FieldNumber, v Value) *Message {
	if m.fields == nil {
		m.fields = orderedmap.NewOrderedMap[FieldNumber, Value]()
	}
	m.fields.Set(num, v)
	return m
}

// Get returns the value stored under num.
func (m *Message) Get(num FieldNumber) (Value, bool) {
	if m == nil || m.fields == nil {
		return nil, false
	}
	return m.fields.Get(num)
}

// Len returns the number of fields.
func (m *Message) Len() int {
	if m == nil || m.fields == nil {
		return 0
	}
	return m.fields.Len()
}

// Fields iterates over the fields in insertion order.
func (m *Message) Fields() iter.Seq2[FieldNumber, Value] {
	return func(yield func(FieldNumber, Value) bool) {
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

func (m *Message) String() string {
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
func (m *Message) Equal(o *Message) bool {
	if m.Len() != o.Len() {
		return false
	}
	next, stop := iter.Pull2(o.Fields())
	defer stop()
	for num, v := range m.Fields() {
		onum, ov, ok := next()
		if !ok || num != onum || !Equal(v, ov) {
			return false
		}
	}
	return true
}
