// Package router classifies packets into routing directives and decides how a
// node handles a packet it received.
//
// NEIGHBOUR packets (TimeSync, NodeSyncRequest, NodeSyncReply) are handled by
// the neighbour that receives them and never forwarded. SINGLE packets are
// forwarded hop by hop toward their destination and only handled there.
// BROADCAST packets are handled by every node and forwarded to every
// neighbour except the one they came from. ROUTING_ERROR packets are dropped.
package router

import (
	"strconv"

	"github.com/mosaicnetworks/meshwire/src/protocol"
)

// Type is a routing directive.
type Type int

const (
	// RoutingError means the packet cannot be routed and must be dropped.
	RoutingError Type = -1
	// Neighbour packets terminate at the receiving node.
	Neighbour Type = 0
	// Single packets travel toward one destination.
	Single Type = 1
	// Broadcast packets reach every node.
	Broadcast Type = 2
)

// String ...
func (t Type) String() string {
	switch t {
	case RoutingError:
		return "RoutingError"
	case Neighbour:
		return "Neighbour"
	case Single:
		return "Single"
	case Broadcast:
		return "Broadcast"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// table is the fixed tag to directive mapping. It is never written to.
var table = map[protocol.Type]Type{
	protocol.SingleType:          Single,
	protocol.TimeDelayType:       Single,
	protocol.BroadcastType:       Broadcast,
	protocol.NodeSyncRequestType: Neighbour,
	protocol.NodeSyncReplyType:   Neighbour,
	protocol.TimeSyncType:        Neighbour,
}

// Classify returns the routing directive for a packet with the given tag. An
// explicit override, as carried by the "routing" field of a document, is
// returned unchanged so that future tags can choose their own routing.
func Classify(tag protocol.Type, override *Type) Type {
	if override != nil {
		return *override
	}
	if t, ok := table[tag]; ok {
		return t
	}
	return RoutingError
}

// Forward tells the transport where a received packet goes next.
type Forward int

const (
	// Drop means the packet goes nowhere.
	Drop Forward = iota
	// Terminate means the packet stops here.
	Terminate
	// TowardDest means the packet is relayed along the route to its
	// destination.
	TowardDest
	// AllButOrigin means the packet is relayed to every direct neighbour
	// except the one it arrived from.
	AllButOrigin
)

// String ...
func (f Forward) String() string {
	switch f {
	case Drop:
		return "Drop"
	case Terminate:
		return "Terminate"
	case TowardDest:
		return "TowardDest"
	case AllButOrigin:
		return "AllButOrigin"
	default:
		return "Forward(" + strconv.Itoa(int(f)) + ")"
	}
}

// Action is what a node does with a packet it received.
type Action struct {
	// Handle is set when the packet must be delivered locally.
	Handle  bool
	Forward Forward
}

// Decide returns the Action of node self for a packet with the given
// directive and destination.
func Decide(directive Type, self, dest protocol.NodeID) Action {
	switch directive {
	case Neighbour:
		return Action{Handle: true, Forward: Terminate}
	case Single:
		if dest == self {
			return Action{Handle: true, Forward: Terminate}
		}
		return Action{Handle: false, Forward: TowardDest}
	case Broadcast:
		return Action{Handle: true, Forward: AllButOrigin}
	default:
		return Action{Handle: false, Forward: Drop}
	}
}
