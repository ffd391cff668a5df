package wire

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrEndOfStream marks a clean end of input at a record boundary. It is
	// io.EOF so callers looping over records can test for it the usual way.
	ErrEndOfStream = io.EOF

	// ErrMalformed means the input ended in the middle of a value or a varint
	// did not fit its destination.
	ErrMalformed = errors.New("malformed protobuf stream")

	// ErrUnsupportedWireType matches every *UnsupportedWireTypeError.
	ErrUnsupportedWireType = errors.New("unsupported wire type")

	// ErrInvalidInput means the encoder was handed a value it cannot encode.
	ErrInvalidInput = errors.New("invalid encode input")

	// ErrInputTooLarge is returned when the input exceeds Config.MaxInputSize.
	ErrInputTooLarge = errors.New("input too large")
)

// UnsupportedWireTypeError reports a group marker or a reserved wire type.
type UnsupportedWireTypeError struct {
	WireType WireType
}

func (e *UnsupportedWireTypeError) Error() string {
	return fmt.Sprintf("unsupported wire type %d (%s)", uint8(e.WireType), e.WireType)
}

// Is matches ErrUnsupportedWireType.
func (e *UnsupportedWireTypeError) Is(target error) bool {
	return target == ErrUnsupportedWireType
}

// FieldError represents an encoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["1", "3", "[2]"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at field path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapWithField prefixes the path of err with one segment.
func wrapWithField(err error, segment string) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{
			FieldPath: append([]string{segment}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{segment},
		Err:       err,
	}
}

// invalidInput builds an ErrInvalidInput carrying a description of v.
func invalidInput(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// malformed builds an ErrMalformed carrying the position and a reason.
func malformed(pos int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "at offset %d: "+format, append([]interface{}{pos}, args...)...)
}

// IsParseFailure reports whether err means "these bytes are not a message",
// as opposed to a limit or a programming error.
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnsupportedWireType)
}
