package protocol

// NodeSync is the body shared by NodeSyncRequest and NodeSyncReply: a tree
// snapshot of the sender plus the addressing of the exchange. Tree.KnownNodes
// is the concatenation of the flattened subtrees of the sender's children.
type NodeSync struct {
	From NodeID
	Dest NodeID
	Tree NodeTree
}

// syncWire is the encode schema of NodeSyncRequest and NodeSyncReply.
type syncWire struct {
	Type         Type     `codec:"type"`
	Dest         NodeID   `codec:"dest"`
	From         NodeID   `codec:"from"`
	NodeID       NodeID   `codec:"nodeId"`
	Root         bool     `codec:"root,omitempty"`
	ContainsRoot bool     `codec:"containsRoot,omitempty"`
	KnownNodes   []NodeID `codec:"knownNodes,omitempty"`
}

// newNodeSync merges the children of from into a single snapshot.
// Children are taken in the order given and are not deduplicated: the caller
// must supply non-overlapping subtrees.
func newNodeSync(from, dest NodeID, children []NodeTree, root bool) NodeSync {
	tree := NodeTree{
		NodeID:       from,
		Root:         root,
		ContainsRoot: root,
	}

	size := 0
	for _, c := range children {
		size += len(c.KnownNodes) + 1
	}
	if size > 0 {
		tree.KnownNodes = make([]NodeID, 0, size)
	}

	for _, c := range children {
		tree.KnownNodes = append(tree.KnownNodes, Flatten(c)...)
		if c.Root || c.ContainsRoot {
			tree.ContainsRoot = true
		}
	}

	return NodeSync{
		From: from,
		Dest: dest,
		Tree: tree,
	}
}

// Equal compares addressing and tree, with order-sensitive KnownNodes.
func (s NodeSync) Equal(o NodeSync) bool {
	return s.From == o.From && s.Dest == o.Dest && s.Tree.Equal(o.Tree)
}

func (s NodeSync) sizeEstimate(t Type) int {
	members := append(s.Tree.members(),
		memberSize("type", intWidth(int(t))),
		memberSize("dest", uint32Width),
		memberSize("from", uint32Width),
	)
	return objectSize(members...)
}

func (s NodeSync) marshal(t Type) ([]byte, error) {
	w := syncWire{
		Type:         t,
		Dest:         s.Dest,
		From:         s.From,
		NodeID:       s.Tree.NodeID,
		Root:         s.Tree.Root,
		ContainsRoot: s.Tree.ContainsRoot,
		KnownNodes:   s.Tree.KnownNodes,
	}
	return encodeBounded(t.String(), &w, s.sizeEstimate(t))
}

func (s *NodeSync) unmarshal(t Type, data []byte) error {
	var doc treeDoc
	if err := decodeDocument(t.String(), data, &doc); err != nil {
		return err
	}
	if err := checkType(t.String(), t, doc.Type); err != nil {
		return err
	}

	*s = NodeSync{
		Dest: doc.Dest,
		Tree: doc.tree(),
	}
	if doc.From != nil {
		s.From = *doc.From
	}
	return nil
}

/*******************************************************************************
NodeSyncRequest
*******************************************************************************/

// NodeSyncRequest is sent to a neighbour to share the sender's view of the
// tree. The neighbour answers with a NodeSyncReply.
type NodeSyncRequest struct {
	NodeSync
}

// NewNodeSyncRequest builds a request from the sender's immediate children.
// ContainsRoot is set if root is true or any child is or contains the root.
func NewNodeSyncRequest(from, dest NodeID, children []NodeTree, root bool) NodeSyncRequest {
	return NodeSyncRequest{newNodeSync(from, dest, children, root)}
}

// Type implements Package.
func (r NodeSyncRequest) Type() Type { return NodeSyncRequestType }

// SizeEstimate implements Package.
func (r NodeSyncRequest) SizeEstimate() int { return r.sizeEstimate(NodeSyncRequestType) }

// Marshal implements Package.
func (r NodeSyncRequest) Marshal() ([]byte, error) { return r.marshal(NodeSyncRequestType) }

// Unmarshal implements Unmarshaler.
func (r *NodeSyncRequest) Unmarshal(data []byte) error {
	return r.unmarshal(NodeSyncRequestType, data)
}

// Equal ...
func (r NodeSyncRequest) Equal(o NodeSyncRequest) bool { return r.NodeSync.Equal(o.NodeSync) }

/*******************************************************************************
NodeSyncReply
*******************************************************************************/

// NodeSyncReply answers a NodeSyncRequest. It has the same shape.
type NodeSyncReply struct {
	NodeSync
}

// NewNodeSyncReply builds a reply the same way NewNodeSyncRequest builds a
// request.
func NewNodeSyncReply(from, dest NodeID, children []NodeTree, root bool) NodeSyncReply {
	return NodeSyncReply{newNodeSync(from, dest, children, root)}
}

// Type implements Package.
func (r NodeSyncReply) Type() Type { return NodeSyncReplyType }

// SizeEstimate implements Package.
func (r NodeSyncReply) SizeEstimate() int { return r.sizeEstimate(NodeSyncReplyType) }

// Marshal implements Package.
func (r NodeSyncReply) Marshal() ([]byte, error) { return r.marshal(NodeSyncReplyType) }

// Unmarshal implements Unmarshaler.
func (r *NodeSyncReply) Unmarshal(data []byte) error {
	return r.unmarshal(NodeSyncReplyType, data)
}

// Equal ...
func (r NodeSyncReply) Equal(o NodeSyncReply) bool { return r.NodeSync.Equal(o.NodeSync) }
