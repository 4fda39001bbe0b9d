package protocol

// Payload is the shape shared by Single and Broadcast: application data
// travelling from one node to another.
type Payload struct {
	From NodeID
	Dest NodeID
	// Msg must be valid UTF-8 to survive a round trip. Invalid bytes are
	// encoded as U+FFFD.
	Msg string
}

// payloadWire is the encode schema of Single and Broadcast.
type payloadWire struct {
	Type Type   `codec:"type"`
	Dest NodeID `codec:"dest"`
	From NodeID `codec:"from"`
	Msg  string `codec:"msg"`
}

// payloadDoc is the decode schema of Single and Broadcast.
type payloadDoc struct {
	Type *Type  `codec:"type"`
	Dest NodeID `codec:"dest"`
	From NodeID `codec:"from"`
	Msg  string `codec:"msg"`
}

func (p Payload) sizeEstimate(t Type) int {
	return objectSize(
		memberSize("type", intWidth(int(t))),
		memberSize("dest", uint32Width),
		memberSize("from", uint32Width),
		memberSize("msg", stringWidth(p.Msg)),
	)
}

func (p Payload) marshal(t Type) ([]byte, error) {
	w := payloadWire{
		Type: t,
		Dest: p.Dest,
		From: p.From,
		Msg:  p.Msg,
	}
	return encodeBounded(t.String(), &w, p.sizeEstimate(t))
}

func (p *Payload) unmarshal(t Type, data []byte) error {
	var doc payloadDoc
	if err := decodeDocument(t.String(), data, &doc); err != nil {
		return err
	}
	if err := checkType(t.String(), t, doc.Type); err != nil {
		return err
	}

	*p = Payload{
		From: doc.From,
		Dest: doc.Dest,
		Msg:  doc.Msg,
	}
	return nil
}

/*******************************************************************************
Single
*******************************************************************************/

// Single carries application data addressed to one node. Intermediate nodes
// forward it toward Dest without handling it.
type Single struct {
	Payload
}

// NewSingle ...
func NewSingle(from, dest NodeID, msg string) Single {
	return Single{Payload{From: from, Dest: dest, Msg: msg}}
}

// Type implements Package.
func (s Single) Type() Type { return SingleType }

// SizeEstimate implements Package.
func (s Single) SizeEstimate() int { return s.sizeEstimate(SingleType) }

// Marshal implements Package.
func (s Single) Marshal() ([]byte, error) { return s.marshal(SingleType) }

// Unmarshal implements Unmarshaler.
func (s *Single) Unmarshal(data []byte) error { return s.unmarshal(SingleType, data) }

/*******************************************************************************
Broadcast
*******************************************************************************/

// Broadcast carries application data for every node. Dest is carried on the
// wire but plays no part in routing.
type Broadcast struct {
	Payload
}

// NewBroadcast ...
func NewBroadcast(from, dest NodeID, msg string) Broadcast {
	return Broadcast{Payload{From: from, Dest: dest, Msg: msg}}
}

// Type implements Package.
func (b Broadcast) Type() Type { return BroadcastType }

// SizeEstimate implements Package.
func (b Broadcast) SizeEstimate() int { return b.sizeEstimate(BroadcastType) }

// Marshal implements Package.
func (b Broadcast) Marshal() ([]byte, error) { return b.marshal(BroadcastType) }

// Unmarshal implements Unmarshaler.
func (b *Broadcast) Unmarshal(data []byte) error { return b.unmarshal(BroadcastType, data) }
