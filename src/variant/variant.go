// Package variant implements the envelope that carries any packet across the
// wire.
//
// A Variant holds exactly one encoded document and the few header fields the
// transport needs to route it (type, dest, routing). Extracting the concrete
// packet is explicit and checked:
//
//  v, err := variant.Decode(data)
//  if err != nil {
//  	// not a document at all
//  }
//  switch v.Routing() {
//  ...
//  }
//  sync, err := variant.As[protocol.NodeSyncRequest](v)
//
// As returns a TypeMismatch error when the document carries another tag; it
// never builds a packet from a document of the wrong type.
package variant

import (
	"io"
	"strconv"

	"github.com/mosaicnetworks/meshwire/src/common"
	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/mosaicnetworks/meshwire/src/router"
)

// Variant is a type-erased packet. It owns its backing document.
type Variant struct {
	doc  []byte
	head protocol.Header
}

// New encodes p into a Variant. The backing buffer is allocated with exactly
// p.SizeEstimate() bytes of capacity.
func New(p protocol.Package) (*Variant, error) {
	doc, err := p.Marshal()
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// Decode parses a wire document. The input is copied; the Variant never
// aliases data.
func Decode(data []byte) (*Variant, error) {
	return DecodeLimit(data, len(data))
}

// DecodeLimit is Decode with a cap on the document size. Documents longer than
// limit bytes are rejected with a TooLarge error before any parsing.
func DecodeLimit(data []byte, limit int) (*Variant, error) {
	if len(data) > limit {
		return nil, common.NewWireErr("Variant", common.TooLarge, strconv.Itoa(len(data)))
	}
	doc := make([]byte, len(data))
	copy(doc, data)
	return fromDocument(doc)
}

func fromDocument(doc []byte) (*Variant, error) {
	head, err := protocol.ReadHeader(doc)
	if err != nil {
		return nil, err
	}
	return &Variant{
		doc:  doc,
		head: head,
	}, nil
}

// Type returns the tag of the packet, or 0 when the document has none.
func (v *Variant) Type() protocol.Type {
	if v.head.Type == nil {
		return 0
	}
	return *v.head.Type
}

// Dest returns the destination of the packet, or 0 when the document has
// none.
func (v *Variant) Dest() protocol.NodeID {
	if v.head.Dest == nil {
		return 0
	}
	return *v.head.Dest
}

// Routing returns the routing directive of the packet. An explicit "routing"
// field wins over the tag.
func (v *Variant) Routing() router.Type {
	var override *router.Type
	if v.head.Routing != nil {
		r := router.Type(*v.head.Routing)
		override = &r
	}
	return router.Classify(v.Type(), override)
}

// Is reports whether the packet carries tag. It is always false for tags
// outside the known set.
func (v *Variant) Is(tag protocol.Type) bool {
	return protocol.Known(tag) && v.head.Type != nil && *v.head.Type == tag
}

// Package decodes the document into the concrete packet named by its tag.
func (v *Variant) Package() (protocol.Package, error) {
	switch v.Type() {
	case protocol.SingleType:
		return decodeAs[protocol.Single](v)
	case protocol.BroadcastType:
		return decodeAs[protocol.Broadcast](v)
	case protocol.NodeSyncRequestType:
		return decodeAs[protocol.NodeSyncRequest](v)
	case protocol.NodeSyncReplyType:
		return decodeAs[protocol.NodeSyncReply](v)
	case protocol.TimeSyncType:
		return decodeAs[protocol.TimeSync](v)
	case protocol.TimeDelayType:
		return decodeAs[protocol.TimeDelay](v)
	default:
		return nil, common.NewWireErr("Variant", common.TypeMismatch, v.Type().String())
	}
}

// Bytes returns a copy of the backing document.
func (v *Variant) Bytes() []byte {
	out := make([]byte, len(v.doc))
	copy(out, v.doc)
	return out
}

// Len returns the length of the backing document.
func (v *Variant) Len() int {
	return len(v.doc)
}

// String returns the compact document.
func (v *Variant) String() string {
	return string(v.doc)
}

// Print writes the document to w, indented when pretty is set.
func (v *Variant) Print(w io.Writer, pretty bool) error {
	out := v.doc
	if pretty {
		var err error
		if out, err = protocol.Indent(v.doc); err != nil {
			return err
		}
	}
	_, err := w.Write(out)
	return err
}

/*******************************************************************************
Typed access
*******************************************************************************/

// IsType reports whether v holds a packet of type T.
func IsType[T protocol.Package](v *Variant) bool {
	var zero T
	return v.Is(zero.Type())
}

// As decodes v as a T. It returns a TypeMismatch error, and the zero T, when
// v holds another type.
func As[T protocol.Package, PT interface {
	*T
	protocol.Unmarshaler
}](v *Variant) (T, error) {
	var out T

	want := out.Type()
	if !v.Is(want) {
		return out, common.NewWireErr(want.String(), common.TypeMismatch, v.Type().String())
	}
	if err := PT(&out).Unmarshal(v.doc); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func decodeAs[T protocol.Package, PT interface {
	*T
	protocol.Unmarshaler
}](v *Variant) (protocol.Package, error) {
	p, err := As[T, PT](v)
	if err != nil {
		return nil, err
	}
	return p, nil
}
