package protocol

import (
	"strconv"

	"github.com/mosaicnetworks/meshwire/src/common"
)

// TimeStage is the state of a time synchronisation exchange.
type TimeStage int

const (
	// TimeSyncError marks an exchange that cannot be continued.
	TimeSyncError TimeStage = -1
	// TimeSyncRequest asks the peer to begin timing. No timestamps.
	TimeSyncRequest TimeStage = 0
	// TimeRequest carries t0.
	TimeRequest TimeStage = 1
	// TimeReply carries t0, t1 and t2. It is terminal.
	TimeReply TimeStage = 2
)

// String ...
func (s TimeStage) String() string {
	switch s {
	case TimeSyncError:
		return "TimeSyncError"
	case TimeSyncRequest:
		return "TimeSyncRequest"
	case TimeRequest:
		return "TimeRequest"
	case TimeReply:
		return "TimeReply"
	default:
		return "Unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// TimeExchange is the state shared by TimeSync and TimeDelay: a three message
// round trip that carries timestamps between two neighbours. Computing the
// clock offset from the timestamps is left to the caller.
//
// Reply and ReplyTimes mutate the exchange in place. An exchange must be
// owned by a single goroutine.
type TimeExchange struct {
	From  NodeID
	Dest  NodeID
	Stage TimeStage
	T0    uint32
	T1    uint32
	T2    uint32
}

type timeMsgRequest struct {
	Type TimeStage `codec:"type"`
}

type timeMsgTime struct {
	Type TimeStage `codec:"type"`
	T0   uint32    `codec:"t0"`
}

type timeMsgReply struct {
	Type TimeStage `codec:"type"`
	T0   uint32    `codec:"t0"`
	T1   uint32    `codec:"t1"`
	T2   uint32    `codec:"t2"`
}

// timeWire is the encode schema of TimeSync and TimeDelay. Msg holds one of
// the timeMsg structs, picked by stage.
type timeWire struct {
	Type Type        `codec:"type"`
	Dest NodeID      `codec:"dest"`
	From NodeID      `codec:"from"`
	Msg  interface{} `codec:"msg"`
}

type timeMsgDoc struct {
	Type TimeStage `codec:"type"`
	T0   uint32    `codec:"t0"`
	T1   uint32    `codec:"t1"`
	T2   uint32    `codec:"t2"`
}

// timeDoc is the decode schema of TimeSync and TimeDelay.
type timeDoc struct {
	Type *Type       `codec:"type"`
	Dest NodeID      `codec:"dest"`
	From NodeID      `codec:"from"`
	Msg  *timeMsgDoc `codec:"msg"`
}

func newTimeExchange(from, dest NodeID) TimeExchange {
	return TimeExchange{
		From:  from,
		Dest:  dest,
		Stage: TimeSyncRequest,
	}
}

// Reply answers a TimeSyncRequest with t0. The exchange moves to TimeRequest
// and From and Dest are swapped.
func (e *TimeExchange) Reply(t0 uint32) error {
	if e.Stage >= TimeReply {
		return ErrTimeSyncComplete
	}
	if e.Stage != TimeSyncRequest {
		return ErrTimeSyncStage
	}
	e.T0 = t0
	e.advance()
	return nil
}

// ReplyTimes answers a TimeRequest with t1 and t2. The exchange moves to
// TimeReply and From and Dest are swapped.
func (e *TimeExchange) ReplyTimes(t1, t2 uint32) error {
	if e.Stage >= TimeReply {
		return ErrTimeSyncComplete
	}
	if e.Stage != TimeRequest {
		return ErrTimeSyncStage
	}
	e.T1 = t1
	e.T2 = t2
	e.advance()
	return nil
}

// Complete reports whether the exchange reached its terminal stage.
func (e TimeExchange) Complete() bool {
	return e.Stage == TimeReply
}

func (e *TimeExchange) advance() {
	e.Stage++
	e.From, e.Dest = e.Dest, e.From
}

func (e TimeExchange) sizeEstimate(t Type) int {
	msg := objectSize(
		memberSize("type", intWidth(int(TimeSyncError))),
		memberSize("t0", uint32Width),
		memberSize("t1", uint32Width),
		memberSize("t2", uint32Width),
	)
	return objectSize(
		memberSize("type", intWidth(int(t))),
		memberSize("dest", uint32Width),
		memberSize("from", uint32Width),
		memberSize("msg", msg),
	)
}

func (e TimeExchange) marshal(t Type) ([]byte, error) {
	if e.Stage < TimeSyncError || e.Stage > TimeReply {
		return nil, common.NewWireErr(t.String(), common.InvalidStage, e.Stage.String())
	}
	w := timeWire{
		Type: t,
		Dest: e.Dest,
		From: e.From,
	}
	switch {
	case e.Stage == TimeReply:
		w.Msg = &timeMsgReply{Type: e.Stage, T0: e.T0, T1: e.T1, T2: e.T2}
	case e.Stage == TimeRequest:
		w.Msg = &timeMsgTime{Type: e.Stage, T0: e.T0}
	default:
		w.Msg = &timeMsgRequest{Type: e.Stage}
	}
	return encodeBounded(t.String(), &w, e.sizeEstimate(t))
}

// unmarshal decodes an exchange. A missing "msg" is a TimeSyncRequest.
// Timestamps the stage does not carry are dropped.
func (e *TimeExchange) unmarshal(t Type, data []byte) error {
	var doc timeDoc
	if err := decodeDocument(t.String(), data, &doc); err != nil {
		return err
	}
	if err := checkType(t.String(), t, doc.Type); err != nil {
		return err
	}

	x := TimeExchange{
		From:  doc.From,
		Dest:  doc.Dest,
		Stage: TimeSyncRequest,
	}
	if doc.Msg != nil {
		x.Stage = doc.Msg.Type
		switch x.Stage {
		case TimeSyncError, TimeSyncRequest:
		case TimeRequest:
			x.T0 = doc.Msg.T0
		case TimeReply:
			x.T0, x.T1, x.T2 = doc.Msg.T0, doc.Msg.T1, doc.Msg.T2
		default:
			return common.NewWireErr(t.String(), common.InvalidStage, x.Stage.String())
		}
	}

	*e = x
	return nil
}

/*******************************************************************************
TimeSync
*******************************************************************************/

// TimeSync is one message of a timestamp measurement round between
// neighbours.
type TimeSync struct {
	TimeExchange
}

// NewTimeSync starts an exchange at TimeSyncRequest.
func NewTimeSync(from, dest NodeID) TimeSync {
	return TimeSync{newTimeExchange(from, dest)}
}

// Type implements Package.
func (s TimeSync) Type() Type { return TimeSyncType }

// SizeEstimate implements Package.
func (s TimeSync) SizeEstimate() int { return s.sizeEstimate(TimeSyncType) }

// Marshal implements Package.
func (s TimeSync) Marshal() ([]byte, error) { return s.marshal(TimeSyncType) }

// Unmarshal implements Unmarshaler.
func (s *TimeSync) Unmarshal(data []byte) error { return s.unmarshal(TimeSyncType, data) }

/*******************************************************************************
TimeDelay
*******************************************************************************/

// TimeDelay runs the same exchange as TimeSync but signals a deliberate
// adjustment instead of a measurement. It is routed like a Single.
type TimeDelay struct {
	TimeExchange
}

// NewTimeDelay starts an exchange at TimeSyncRequest.
func NewTimeDelay(from, dest NodeID) TimeDelay {
	return TimeDelay{newTimeExchange(from, dest)}
}

// Type implements Package.
func (d TimeDelay) Type() Type { return TimeDelayType }

// SizeEstimate implements Package.
func (d TimeDelay) SizeEstimate() int { return d.sizeEstimate(TimeDelayType) }

// Marshal implements Package.
func (d TimeDelay) Marshal() ([]byte, error) { return d.marshal(TimeDelayType) }

// Unmarshal implements Unmarshaler.
func (d *TimeDelay) Unmarshal(data []byte) error { return d.unmarshal(TimeDelayType, data) }
