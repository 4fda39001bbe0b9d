// Package protocol defines the packets exchanged between mesh nodes and their
// wire encoding.
//
// The mesh is organised as a spanning tree over ad-hoc links. Nodes exchange
// a closed set of packets:
//
//  Single           application data for one node
//  Broadcast        application data for every node
//  NodeSyncRequest  a node's view of the subtrees hanging off it
//  NodeSyncReply    the answer to a NodeSyncRequest
//  TimeSync         one step of the three-stage timestamp exchange
//  TimeDelay        same exchange, used for a deliberate adjustment
//
// Each packet is encoded as one JSON document with an integer "type" field.
// The tag values are wire constants and must never be renumbered.
//
// Encoding is bounded: every packet reports an upper bound on its encoded
// length (SizeEstimate) and Marshal writes into a buffer of exactly that
// capacity. Outgrowing the estimate is an Overflow error, never a silent
// truncation. Decoding is permissive: optional fields that are absent take
// their default value (false, empty, zero).
//
// The package holds no global mutable state. Values are owned by whoever
// created them; the only in-place mutation is the Reply/ReplyTimes step of a
// TimeExchange.
package protocol
