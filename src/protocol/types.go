package protocol

import "strconv"

// NodeID identifies a mesh node. It is unique per device.
type NodeID uint32

// Type is the wire tag carried in the "type" field of every packet.
type Type int

// Wire tags. Routing and dispatch depend on these exact values.
const (
	TimeDelayType       Type = 3
	TimeSyncType        Type = 4
	NodeSyncRequestType Type = 5
	NodeSyncReplyType   Type = 6
	// ControlType is deprecated and no longer part of the known set.
	ControlType   Type = 7
	BroadcastType Type = 8
	SingleType    Type = 9
)

// String ...
func (t Type) String() string {
	switch t {
	case TimeDelayType:
		return "TimeDelay"
	case TimeSyncType:
		return "TimeSync"
	case NodeSyncRequestType:
		return "NodeSyncRequest"
	case NodeSyncReplyType:
		return "NodeSyncReply"
	case ControlType:
		return "Control"
	case BroadcastType:
		return "Broadcast"
	case SingleType:
		return "Single"
	default:
		return "Unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Known reports whether t belongs to the closed set of packet types.
func Known(t Type) bool {
	switch t {
	case TimeDelayType, TimeSyncType, NodeSyncRequestType, NodeSyncReplyType,
		BroadcastType, SingleType:
		return true
	}
	return false
}

// Package is implemented by every packet variant.
type Package interface {
	// Type returns the wire tag of the variant.
	Type() Type
	// SizeEstimate returns an upper bound on the encoded length in bytes.
	SizeEstimate() int
	// Marshal encodes the packet into a buffer of SizeEstimate() bytes.
	Marshal() ([]byte, error)
}

// Unmarshaler is implemented by pointers to packet variants.
type Unmarshaler interface {
	Unmarshal(data []byte) error
}
