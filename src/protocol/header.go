package protocol

// Header holds the fields of a document that can be read without decoding
// the whole packet. Nil pointers mark absent fields.
type Header struct {
	Type    *Type   `codec:"type"`
	Dest    *NodeID `codec:"dest"`
	Routing *int    `codec:"routing"`
}

// ReadHeader decodes the header fields of a document and ignores the rest.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if err := decodeDocument("Header", data, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}
