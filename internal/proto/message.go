package proto

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

// Inbound is the envelope for events coming from the client. Type names
// match the original client protocol.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinChatRoom = "join_chat_room"
	InboundTypeSendMessage  = "send_message"
	InboundTypeCallUser     = "call_user"
	InboundTypeAnswerCall   = "answer_call"
	InboundTypeRejectCall   = "reject_call"
	InboundTypeEndCall      = "end_call"
	InboundTypeIceCandidate = "ice_candidate"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventReceiveMessage  = "receive_message"
	EventNewNotification = "new_notification"
	EventReceiveCall     = "receive_call"
	EventCallAnswered    = "call_answered"
	EventCallRejected    = "call_rejected"
	EventCallEnded       = "call_ended"
	EventCallError       = "call_error"
	EventIceCandidate    = "ice_candidate"
	EventUserStatus      = "user_status"
)

// JoinChatRoomData names the two participants of the pairwise room.
type JoinChatRoomData struct {
	User1ID string `json:"user1Id"`
	User2ID string `json:"user2Id"`
}

// SendMessageData is a chat message from the client. The reciverId
// spelling is kept for compatibility with existing clients.
type SendMessageData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"reciverId"`
	Content    string `json:"content,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
	FileType   string `json:"fileType,omitempty"`
}

// UserSummary is the profile projection carried by call and
// notification events.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CallUserData initiates a call.
type CallUserData struct {
	CalleeID string                    `json:"calleeId"`
	Offer    webrtc.SessionDescription `json:"offer"`
	Caller   UserSummary               `json:"caller"`
	IsVideo  bool                      `json:"isVideo"`
}

// AnswerCallData accepts a ringing call.
type AnswerCallData struct {
	CallerID string                    `json:"callerId"`
	Answer   webrtc.SessionDescription `json:"answer"`
}

// RejectCallData declines a ringing call.
type RejectCallData struct {
	CallerID string `json:"callerId"`
}

// EndCallData hangs up a ringing or active call.
type EndCallData struct {
	PartnerID string `json:"partnerId"`
}

// IceCandidateData forwards an ICE candidate to the call peer.
type IceCandidateData struct {
	TargetUserID string                  `json:"targetUserId"`
	Candidate    webrtc.ICECandidateInit `json:"candidate"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessagePayload is a persisted message as delivered to a room.
type MessagePayload struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"reciverId"`
	Content    string `json:"content,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
	FileType   string `json:"fileType,omitempty"`
	Seen       bool   `json:"seen"`
	CreatedAt  int64  `json:"createdAt"`
}

// NotificationPayload is a persisted notification enriched with the
// sender's profile.
type NotificationPayload struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"reciverId"`
	Message    string      `json:"message"`
	IsRead     bool        `json:"isRead"`
	CreatedAt  int64       `json:"createdAt"`
	Sender     UserSummary `json:"sender"`
}

// ReceiveCallPayload forwards an offer to the callee.
type ReceiveCallPayload struct {
	Offer   webrtc.SessionDescription `json:"offer"`
	Caller  UserSummary               `json:"caller"`
	IsVideo bool                      `json:"isVideo"`
}

// CallAnsweredPayload forwards the answer to the caller.
type CallAnsweredPayload struct {
	Answer webrtc.SessionDescription `json:"answer"`
}

// CallPeerPayload identifies the peer that rejected or ended a call.
type CallPeerPayload struct {
	UserID string `json:"userId"`
}

// CallErrorPayload reports a call setup failure to the caller.
type CallErrorPayload struct {
	Message string `json:"message"`
}

// IceCandidatePayload forwards a candidate, tagged with its sender so
// the receiver can disambiguate concurrent calls.
type IceCandidatePayload struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
	SenderID  string                  `json:"senderId"`
}

// UserStatusPayload announces an online/offline transition.
type UserStatusPayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
