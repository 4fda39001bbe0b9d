package variant

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mosaicnetworks/meshwire/src/common"
	"github.com/mosaicnetworks/meshwire/src/protocol"
	"github.com/mosaicnetworks/meshwire/src/router"
)

func TestNewSingle(t *testing.T) {
	single := protocol.NewSingle(1, 2, "hi")

	v, err := New(single)
	if err != nil {
		t.Fatal(err)
	}
	if cap(v.doc) != single.SizeEstimate() {
		t.Fatalf("backing buffer should hold %d bytes, got %d", single.SizeEstimate(), cap(v.doc))
	}
	if v.Type() != protocol.SingleType {
		t.Fatalf("type %s", v.Type())
	}
	if v.Dest() != 2 {
		t.Fatalf("dest %d", v.Dest())
	}
	if v.Routing() != router.Single {
		t.Fatalf("routing %s", v.Routing())
	}
	if !v.Is(protocol.SingleType) || v.Is(protocol.BroadcastType) {
		t.Fatal("Is")
	}
	if !IsType[protocol.Single](v) || IsType[protocol.Broadcast](v) {
		t.Fatal("IsType")
	}

	got, err := As[protocol.Single](v)
	if err != nil {
		t.Fatal(err)
	}
	if got != single {
		t.Fatalf("got %+v, want %+v", got, single)
	}
}

func TestRoundTripAllPackages(t *testing.T) {
	ts := protocol.NewTimeSync(1, 2)
	ts.Reply(100)

	td := protocol.NewTimeDelay(3, 4)

	packages := []protocol.Package{
		protocol.NewSingle(1, 2, "single"),
		protocol.NewBroadcast(1, 0, "broadcast"),
		protocol.NewNodeSyncRequest(1, 2, []protocol.NodeTree{{NodeID: 3, KnownNodes: []protocol.NodeID{4}}}, false),
		protocol.NewNodeSyncReply(2, 1, []protocol.NodeTree{{NodeID: 5, Root: true}}, false),
		ts,
		td,
	}

	for _, p := range packages {
		v, err := New(p)
		if err != nil {
			t.Fatalf("%s: %v", p.Type(), err)
		}

		decoded, err := Decode(v.Bytes())
		if err != nil {
			t.Fatalf("%s: %v", p.Type(), err)
		}
		if decoded.Type() != p.Type() {
			t.Fatalf("type %s, want %s", decoded.Type(), p.Type())
		}

		got, err := decoded.Package()
		if err != nil {
			t.Fatalf("%s: %v", p.Type(), err)
		}
		if !samePackage(got, p) {
			t.Fatalf("got %+v, want %+v", got, p)
		}
	}
}

func samePackage(a, b protocol.Package) bool {
	switch x := a.(type) {
	case protocol.NodeSyncRequest:
		y, ok := b.(protocol.NodeSyncRequest)
		return ok && x.Equal(y)
	case protocol.NodeSyncReply:
		y, ok := b.(protocol.NodeSyncReply)
		return ok && x.Equal(y)
	default:
		return a == b
	}
}

func TestAsMismatch(t *testing.T) {
	v, err := New(protocol.NewBroadcast(1, 2, "x"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := As[protocol.Single](v)
	if !common.IsWire(err, common.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if got != (protocol.Single{}) {
		t.Fatalf("mismatch should return the zero value, got %+v", got)
	}

	if _, err := As[protocol.TimeDelay](v); !common.IsWire(err, common.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"garbage",
		`["type",9]`,
		`{"type":9,`,
		`{"type":"x"}`,
		`{"type":9,"routing":"x"}`,
		`{"type":9,"dest":1,"from":2,"msg":"a"}{"type":8,"msg":"b"}`,
		`{"type":9,"dest":1} garbage`,
	}
	for _, in := range inputs {
		v, err := Decode([]byte(in))
		if !common.IsWire(err, common.Malformed) {
			t.Fatalf("%q: expected Malformed, got %v", in, err)
		}
		if v != nil {
			t.Fatalf("%q: expected nil variant", in)
		}
	}
}

func TestDecodeTrailingWhitespace(t *testing.T) {
	v, err := Decode([]byte("{\"type\":8,\"from\":2,\"msg\":\"b\"}\r\n "))
	if err != nil {
		t.Fatal(err)
	}
	if v.Type() != protocol.BroadcastType {
		t.Fatalf("type should be Broadcast, not %s", v.Type())
	}
}

func TestDecodeLimit(t *testing.T) {
	doc := []byte(`{"type":9,"dest":1,"from":2,"msg":"hello"}`)

	if _, err := DecodeLimit(doc, len(doc)-1); !common.IsWire(err, common.TooLarge) {
		t.Fatalf("expected TooLarge, got %v", err)
	}
	if _, err := DecodeLimit(doc, len(doc)); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeDoesNotAlias(t *testing.T) {
	doc := []byte(`{"type":9,"dest":1,"from":2,"msg":"hello"}`)
	v, err := Decode(doc)
	if err != nil {
		t.Fatal(err)
	}

	for i := range doc {
		doc[i] = ' '
	}

	single, err := As[protocol.Single](v)
	if err != nil {
		t.Fatal(err)
	}
	if single.Msg != "hello" {
		t.Fatalf("variant should own its document, got %q", single.Msg)
	}
}

func TestRoutingOverride(t *testing.T) {
	v, err := Decode([]byte(`{"type":9,"dest":3,"from":1,"msg":"x","routing":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Routing() != router.Broadcast {
		t.Fatalf("explicit routing should win, got %s", v.Routing())
	}
}

func TestUnknownType(t *testing.T) {
	v, err := Decode([]byte(`{"type":999,"dest":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Routing() != router.RoutingError {
		t.Fatalf("got %s", v.Routing())
	}
	if v.Is(protocol.Type(999)) {
		t.Fatal("unknown tags are never a type")
	}
	if _, err := v.Package(); !common.IsWire(err, common.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}

	v, err = Decode([]byte(`{"from":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Type() != 0 || v.Dest() != 0 {
		t.Fatalf("missing fields should read as 0: %s %d", v.Type(), v.Dest())
	}
}

func TestPrint(t *testing.T) {
	v, err := New(protocol.NewSingle(1, 2, "x"))
	if err != nil {
		t.Fatal(err)
	}

	var compact bytes.Buffer
	if err := v.Print(&compact, false); err != nil {
		t.Fatal(err)
	}
	if compact.String() != v.String() || strings.Contains(compact.String(), "\n") {
		t.Fatalf("unexpected compact output %q", compact.String())
	}

	var pretty bytes.Buffer
	if err := v.Print(&pretty, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "\n  \"") {
		t.Fatalf("unexpected pretty output %q", pretty.String())
	}
}
