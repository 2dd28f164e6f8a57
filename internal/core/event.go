package core

import (
	"github.com/pion/webrtc/v4"

	"github.com/peerwave/peerwave-server/internal/store"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventReceiveMessage delivers a persisted chat message to a room.
	EventReceiveMessage EventKind = iota
	// EventNewNotification delivers a notification to its recipient.
	EventNewNotification
	// EventUserStatus announces an online/offline transition to everyone.
	EventUserStatus
	// EventError reports a domain error to the originating connection only.
	EventError

	// Call signaling events
	// EventReceiveCall forwards a call offer to the callee.
	EventReceiveCall
	// EventCallAnswered forwards the answer to the caller.
	EventCallAnswered
	// EventCallRejected tells the caller the callee declined.
	EventCallRejected
	// EventCallEnded tells the remaining party the call is over.
	EventCallEnded
	// EventCallError reports a call setup failure to the caller.
	EventCallError
	// EventICECandidate forwards a candidate, tagged with the sender.
	EventICECandidate
)

// UserStatusOnline and UserStatusOffline are the presence states carried
// by EventUserStatus.
const (
	UserStatusOnline  = "online"
	UserStatusOffline = "offline"
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind         EventKind
	Message      *store.Message
	Notification *NotificationEvent
	Status       *StatusEvent
	Call         *CallSignal
	Error        *CoreError
}

// NotificationEvent is a persisted notification enriched with the
// sender's profile summary.
type NotificationEvent struct {
	Notification store.Notification
	Sender       store.UserSummary
}

// StatusEvent announces a presence transition for a user.
type StatusEvent struct {
	UserID string
	Status string
}

// CallSignal holds data specific to call signaling events.
type CallSignal struct {
	Offer     *webrtc.SessionDescription
	Answer    *webrtc.SessionDescription
	Candidate *webrtc.ICECandidateInit
	Caller    *store.UserSummary
	IsVideo   bool
	// UserID identifies the peer that rejected, ended, or sent the signal.
	UserID  string
	Message string
}

func errorEvent(err *CoreError) *Event {
	return &Event{Kind: EventError, Error: err}
}
