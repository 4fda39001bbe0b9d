package protocol

import "errors"

var (
	// ErrTimeSyncComplete is returned when replying to an exchange that
	// already reached TimeReply.
	ErrTimeSyncComplete = errors.New("protocol: time sync exchange already complete")

	// ErrTimeSyncStage is returned when a reply does not match the current
	// stage, e.g. ReplyTimes on a fresh request.
	ErrTimeSyncStage = errors.New("protocol: reply does not match time sync stage")
)
