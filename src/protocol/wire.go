package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/mosaicnetworks/meshwire/src/common"
	"github.com/ugorji/go/codec"
)

var errBufferFull = errors.New("bounded buffer full")

// Widths used by the size estimates. Every estimate assumes the widest
// possible rendering of a value, so it can only overcount.
const (
	uint32Width = 10 // 4294967295
	boolWidth   = 5  // false
	// A JSON string escapes one input byte into at most six (\u00XX).
	escapeFactor = 6
)

// boundedBuffer is an io.Writer over a fixed capacity slice. It refuses any
// write that would grow the slice.
type boundedBuffer struct {
	buf      []byte
	overflow bool
}

func newBoundedBuffer(capacity int) *boundedBuffer {
	return &boundedBuffer{buf: make([]byte, 0, capacity)}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if len(b.buf)+len(p) > cap(b.buf) {
		b.overflow = true
		return 0, errBufferFull
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.HTMLCharsAsIs = false
	return jh
}

// encodeBounded writes the JSON encoding of v into a buffer of exactly limit
// bytes of capacity.
func encodeBounded(dataType string, v interface{}, limit int) ([]byte, error) {
	b := newBoundedBuffer(limit)
	enc := codec.NewEncoder(b, jsonHandle())

	if err := enc.Encode(v); err != nil {
		if b.overflow {
			return nil, common.WrapWireErr(dataType, common.Overflow, strconv.Itoa(limit), err)
		}
		return nil, common.WrapWireErr(dataType, common.Malformed, "encode", err)
	}
	if b.overflow {
		return nil, common.NewWireErr(dataType, common.Overflow, strconv.Itoa(limit))
	}

	return b.buf, nil
}

// decodeDocument decodes a JSON object into the schema struct v. Fields
// missing from the document keep whatever v already holds. Anything but
// whitespace after the object is rejected: data holds exactly one document.
func decodeDocument(dataType string, data []byte, v interface{}) error {
	if !IsObject(data) {
		return common.NewWireErr(dataType, common.Malformed, "document")
	}

	dec := codec.NewDecoderBytes(data, jsonHandle())
	if err := dec.Decode(v); err != nil {
		return common.WrapWireErr(dataType, common.Malformed, "document", err)
	}

	if n := dec.NumBytesRead(); n < len(data) && len(bytes.TrimSpace(data[n:])) > 0 {
		return common.NewWireErr(dataType, common.Malformed, "trailing data")
	}

	return nil
}

// checkType rejects a document whose "type" field names another variant. A
// document without a "type" field is accepted.
func checkType(dataType string, want Type, got *Type) error {
	if got != nil && *got != want {
		return common.NewWireErr(dataType, common.TypeMismatch, got.String())
	}
	return nil
}

// IsObject reports whether data starts with a JSON object.
func IsObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Indent returns doc pretty-printed with two-space indentation. Field order
// is preserved.
func Indent(doc []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return nil, common.WrapWireErr("document", common.Malformed, "indent", err)
	}
	return out.Bytes(), nil
}

/*******************************************************************************
Size estimates
*******************************************************************************/

// objectSize returns the size of a JSON object given the sizes of its
// members ("key":value).
func objectSize(members ...int) int {
	size := 2 // braces
	for _, m := range members {
		size += m
	}
	if len(members) > 1 {
		size += len(members) - 1 // commas
	}
	return size
}

// memberSize returns the size of "key":value.
func memberSize(key string, valueWidth int) int {
	return len(key) + 3 + valueWidth
}

func intWidth(v int) int {
	return len(strconv.Itoa(v))
}

func stringWidth(s string) int {
	return 2 + escapeFactor*len(s)
}

func arrayWidth(n, elemWidth int) int {
	if n == 0 {
		return 2
	}
	return 2 + n*elemWidth + (n - 1)
}
