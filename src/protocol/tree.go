package protocol

import (
	"strconv"

	"github.com/mosaicnetworks/meshwire/src/common"
)

// NodeTree is a snapshot of a subtree of the mesh: a node and the flattened
// list of every node reachable through it, away from the root.
type NodeTree struct {
	NodeID NodeID
	// Root is set when NodeID is the root of the mesh.
	Root bool
	// ContainsRoot is set when any node in KnownNodes is the root.
	ContainsRoot bool
	// KnownNodes lists the descendants of NodeID, without duplicates.
	KnownNodes []NodeID
}

// treeWire is the encode schema of a standalone NodeTree.
type treeWire struct {
	NodeID       NodeID   `codec:"nodeId"`
	Root         bool     `codec:"root,omitempty"`
	ContainsRoot bool     `codec:"containsRoot,omitempty"`
	KnownNodes   []NodeID `codec:"knownNodes,omitempty"`
}

// treeDoc is the decode schema shared by NodeTree, NodeSyncRequest and
// NodeSyncReply. Pointer fields record presence.
type treeDoc struct {
	Type         *Type    `codec:"type"`
	Dest         NodeID   `codec:"dest"`
	From         *NodeID  `codec:"from"`
	NodeID       *NodeID  `codec:"nodeId"`
	Root         bool     `codec:"root"`
	ContainsRoot bool     `codec:"containsRoot"`
	KnownNodes   []NodeID `codec:"knownNodes"`
}

// tree applies the defaults of the tree schema. A document without "nodeId"
// takes it from "from".
func (d *treeDoc) tree() NodeTree {
	t := NodeTree{
		Root:         d.Root,
		ContainsRoot: d.ContainsRoot,
	}
	switch {
	case d.NodeID != nil:
		t.NodeID = *d.NodeID
	case d.From != nil:
		t.NodeID = *d.From
	}
	if len(d.KnownNodes) > 0 {
		t.KnownNodes = d.KnownNodes
	}
	return t
}

// NewNodeTree ...
func NewNodeTree(id NodeID, root bool) NodeTree {
	return NodeTree{
		NodeID: id,
		Root:   root,
	}
}

// Flatten returns the node followed by its known nodes, in source order.
func Flatten(tree NodeTree) []NodeID {
	nodes := make([]NodeID, 0, len(tree.KnownNodes)+1)
	nodes = append(nodes, tree.NodeID)
	nodes = append(nodes, tree.KnownNodes...)
	return nodes
}

// Equal compares two trees field by field. KnownNodes are compared as an
// ordered sequence: the same nodes in another order are a different tree.
func (t NodeTree) Equal(o NodeTree) bool {
	if t.NodeID != o.NodeID ||
		t.Root != o.Root ||
		t.ContainsRoot != o.ContainsRoot ||
		len(t.KnownNodes) != len(o.KnownNodes) {
		return false
	}
	for i := range t.KnownNodes {
		if t.KnownNodes[i] != o.KnownNodes[i] {
			return false
		}
	}
	return true
}

// Contains reports whether id is the tree's node or one of its known nodes.
func (t NodeTree) Contains(id NodeID) bool {
	if t.NodeID == id {
		return true
	}
	for _, n := range t.KnownNodes {
		if n == id {
			return true
		}
	}
	return false
}

// Validate returns a Duplicate error if an id appears twice in the flattened
// tree.
func (t NodeTree) Validate() error {
	seen := make(map[NodeID]struct{}, len(t.KnownNodes)+1)
	for _, id := range Flatten(t) {
		if _, ok := seen[id]; ok {
			return common.NewWireErr("NodeTree", common.Duplicate, strconv.FormatUint(uint64(id), 10))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Reset clears the tree back to its zero value.
func (t *NodeTree) Reset() {
	*t = NodeTree{}
}

func (t NodeTree) members() []int {
	members := []int{memberSize("nodeId", uint32Width)}
	if t.Root {
		members = append(members, memberSize("root", boolWidth))
	}
	if t.ContainsRoot {
		members = append(members, memberSize("containsRoot", boolWidth))
	}
	if len(t.KnownNodes) > 0 {
		members = append(members, memberSize("knownNodes", arrayWidth(len(t.KnownNodes), uint32Width)))
	}
	return members
}

// SizeEstimate returns an upper bound on the encoded length of the tree.
func (t NodeTree) SizeEstimate() int {
	return objectSize(t.members()...)
}

// Marshal encodes the tree on its own, without a type tag.
func (t NodeTree) Marshal() ([]byte, error) {
	w := treeWire{
		NodeID:       t.NodeID,
		Root:         t.Root,
		ContainsRoot: t.ContainsRoot,
		KnownNodes:   t.KnownNodes,
	}
	return encodeBounded("NodeTree", &w, t.SizeEstimate())
}

// Unmarshal decodes a tree. Absent root, containsRoot and knownNodes default
// to false, false and empty.
func (t *NodeTree) Unmarshal(data []byte) error {
	var doc treeDoc
	if err := decodeDocument("NodeTree", data, &doc); err != nil {
		return err
	}
	*t = doc.tree()
	return nil
}

// String returns the compact JSON encoding of the tree.
func (t NodeTree) String() string {
	b, err := t.Marshal()
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// Pretty returns the indented JSON encoding of the tree.
func (t NodeTree) Pretty() string {
	b, err := t.Marshal()
	if err != nil {
		return err.Error()
	}
	p, err := Indent(b)
	if err != nil {
		return err.Error()
	}
	return string(p)
}
