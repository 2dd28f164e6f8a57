package core

import (
	"github.com/pion/webrtc/v4"

	"github.com/peerwave/peerwave-server/internal/store"
)

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinChatRoom subscribes the connection to a pairwise chat room.
	CommandJoinChatRoom CommandKind = iota
	// CommandSendMessage relays a chat message to the pair's room.
	CommandSendMessage
	// CommandCallUser initiates a call and forwards the offer to the callee.
	CommandCallUser
	// CommandAnswerCall accepts a ringing call and forwards the answer.
	CommandAnswerCall
	// CommandRejectCall declines a ringing call.
	CommandRejectCall
	// CommandEndCall terminates a ringing or active call.
	CommandEndCall
	// CommandICECandidate forwards an ICE candidate to the call peer.
	CommandICECandidate
)

// Command represents an action requested by a client.
// Exactly one payload field matching Kind is set.
type Command struct {
	Kind CommandKind

	Join      *JoinChatRoom
	Message   *SendMessage
	Call      *CallUser
	Answer    *AnswerCall
	Reject    *RejectCall
	End       *EndCall
	Candidate *ICECandidate
}

// JoinChatRoom names the two participants of the pairwise room to join.
type JoinChatRoom struct {
	User1ID string
	User2ID string
}

// SendMessage carries a chat message. At least one of Content and
// FileURL must be present.
type SendMessage struct {
	SenderID   string
	ReceiverID string
	Content    string
	FileURL    string
	FileType   string
}

// CallUser initiates a call to CalleeID with the given SDP offer.
type CallUser struct {
	CalleeID string
	Offer    webrtc.SessionDescription
	Caller   store.UserSummary
	IsVideo  bool
}

// AnswerCall accepts the ringing call from CallerID.
type AnswerCall struct {
	CallerID string
	Answer   webrtc.SessionDescription
}

// RejectCall declines the ringing call from CallerID.
type RejectCall struct {
	CallerID string
}

// EndCall hangs up the call with PartnerID.
type EndCall struct {
	PartnerID string
}

// ICECandidate forwards a candidate to TargetUserID.
type ICECandidate struct {
	TargetUserID string
	Candidate    webrtc.ICECandidateInit
}
