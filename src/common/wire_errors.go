package common

import "fmt"

// WireErrType ...
type WireErrType uint32

const (
	// Malformed means the input could not be parsed into a document.
	Malformed WireErrType = iota
	// TypeMismatch means a well-formed document carries another tag.
	TypeMismatch
	// Overflow means an encode outgrew its size estimate.
	Overflow
	// TooLarge means the input exceeds the decode capacity.
	TooLarge
	// InvalidStage means a time-sync stage outside 0..2.
	InvalidStage
	// Duplicate means a node id repeated within one tree snapshot.
	Duplicate
)

// WireErr is returned by the encode and decode paths of the wire protocol.
type WireErr struct {
	dataType string
	errType  WireErrType
	key      string
	cause    error
}

// NewWireErr ...
func NewWireErr(dataType string, errType WireErrType, key string) WireErr {
	return WireErr{
		dataType: dataType,
		errType:  errType,
		key:      key,
	}
}

// WrapWireErr is like NewWireErr but keeps the underlying error so that it
// can be reached with errors.Is and errors.As.
func WrapWireErr(dataType string, errType WireErrType, key string, cause error) WireErr {
	e := NewWireErr(dataType, errType, key)
	e.cause = cause
	return e
}

// String ...
func (t WireErrType) String() string {
	switch t {
	case Malformed:
		return "Malformed"
	case TypeMismatch:
		return "Type Mismatch"
	case Overflow:
		return "Overflow"
	case TooLarge:
		return "Too Large"
	case InvalidStage:
		return "Invalid Stage"
	case Duplicate:
		return "Duplicate"
	default:
		return "Unknown"
	}
}

// Error ...
func (e WireErr) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s, %s, %s: %v", e.dataType, e.key, e.errType, e.cause)
	}
	return fmt.Sprintf("%s, %s, %s", e.dataType, e.key, e.errType)
}

// Unwrap returns the underlying codec or io error, if any.
func (e WireErr) Unwrap() error {
	return e.cause
}

// Kind returns the error code.
func (e WireErr) Kind() WireErrType {
	return e.errType
}

// IsWire checks that an error is of type WireErr and that it's code matches
// the provided WireErr code.
func IsWire(err error, t WireErrType) bool {
	wireErr, ok := err.(WireErr)
	return ok && wireErr.errType == t
}
