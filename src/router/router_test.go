package router

import (
	"testing"

	"github.com/mosaicnetworks/meshwire/src/protocol"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		tag  protocol.Type
		want Type
	}{
		{protocol.SingleType, Single},
		{protocol.TimeDelayType, Single},
		{protocol.BroadcastType, Broadcast},
		{protocol.NodeSyncRequestType, Neighbour},
		{protocol.NodeSyncReplyType, Neighbour},
		{protocol.TimeSyncType, Neighbour},
		{protocol.ControlType, RoutingError},
		{protocol.Type(0), RoutingError},
		{protocol.Type(999), RoutingError},
	}
	for _, c := range cases {
		if got := Classify(c.tag, nil); got != c.want {
			t.Fatalf("%s: got %s, want %s", c.tag, got, c.want)
		}
	}
}

func TestClassifyOverride(t *testing.T) {
	bcast := Broadcast
	if got := Classify(protocol.SingleType, &bcast); got != Broadcast {
		t.Fatalf("override should win, got %s", got)
	}

	// overrides are returned as-is, even outside the known directives
	future := Type(7)
	if got := Classify(protocol.Type(999), &future); got != future {
		t.Fatalf("got %s, want %s", got, future)
	}
}

func TestDecide(t *testing.T) {
	const self protocol.NodeID = 5

	cases := []struct {
		name      string
		directive Type
		dest      protocol.NodeID
		want      Action
	}{
		{"neighbour", Neighbour, 9, Action{Handle: true, Forward: Terminate}},
		{"single for us", Single, self, Action{Handle: true, Forward: Terminate}},
		{"single for other", Single, 9, Action{Handle: false, Forward: TowardDest}},
		{"broadcast", Broadcast, 0, Action{Handle: true, Forward: AllButOrigin}},
		{"error", RoutingError, self, Action{Handle: false, Forward: Drop}},
		{"unknown override", Type(7), self, Action{Handle: false, Forward: Drop}},
	}
	for _, c := range cases {
		if got := Decide(c.directive, self, c.dest); got != c.want {
			t.Fatalf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}
