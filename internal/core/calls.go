package core

import (
	"sync"
	"time"
)

// CallState tracks a call attempt between two users. A session only
// exists while the call is ringing or active; terminal transitions
// remove it from the table.
type CallState int

const (
	// CallRinging means the offer was forwarded and no answer arrived yet.
	CallRinging CallState = iota + 1
	// CallActive means the callee answered.
	CallActive
)

// CallSession is the in-memory record of one in-flight call attempt.
// There is no persisted call history.
type CallSession struct {
	CallerID  string
	CalleeID  string
	IsVideo   bool
	State     CallState
	CreatedAt time.Time
}

// PartnerOf returns the other party of the session, or "" if userID is
// not a party.
func (s *CallSession) PartnerOf(userID string) string {
	switch userID {
	case s.CallerID:
		return s.CalleeID
	case s.CalleeID:
		return s.CallerID
	default:
		return ""
	}
}

// CallTable owns the in-flight call sessions, keyed by the unordered
// pair of participants. At most one session exists per pair.
type CallTable struct {
	mu       sync.Mutex
	sessions map[string]*CallSession
}

// NewCallTable constructs an empty call table.
func NewCallTable() *CallTable {
	return &CallTable{
		sessions: make(map[string]*CallSession),
	}
}

func callKey(userA, userB string) string {
	return RoomID(userA, userB)
}

// Start creates a Ringing session for the pair. It fails if a session
// between the two already exists. The caller is responsible for
// checking the callee's reachability first.
func (t *CallTable) Start(callerID, calleeID string, isVideo bool) *CoreError {
	if calleeID == "" || callerID == calleeID {
		return validationError("invalid call target")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := callKey(callerID, calleeID)
	if _, exists := t.sessions[key]; exists {
		return validationError("a call between these users is already in progress")
	}
	t.sessions[key] = &CallSession{
		CallerID:  callerID,
		CalleeID:  calleeID,
		IsVideo:   isVideo,
		State:     CallRinging,
		CreatedAt: time.Now(),
	}
	return nil
}

// Answer transitions the pair's session from Ringing to Active. Only
// the callee may answer.
func (t *CallTable) Answer(calleeID, callerID string) *CoreError {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[callKey(calleeID, callerID)]
	if !ok || s.State != CallRinging {
		return staleSignalError("no ringing call to answer")
	}
	if s.CalleeID != calleeID {
		return staleSignalError("only the callee can answer")
	}
	s.State = CallActive
	return nil
}

// Reject discards the pair's Ringing session. Only the callee may reject.
func (t *CallTable) Reject(calleeID, callerID string) *CoreError {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := callKey(calleeID, callerID)
	s, ok := t.sessions[key]
	if !ok || s.State != CallRinging {
		return staleSignalError("no ringing call to reject")
	}
	if s.CalleeID != calleeID {
		return staleSignalError("only the callee can reject")
	}
	delete(t.sessions, key)
	return nil
}

// End discards the pair's session from Ringing or Active. Either party
// may hang up.
func (t *CallTable) End(userID, partnerID string) *CoreError {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := callKey(userID, partnerID)
	s, ok := t.sessions[key]
	if !ok || s.PartnerOf(userID) == "" {
		return staleSignalError("no call to end")
	}
	delete(t.sessions, key)
	return nil
}

// VerifySignalPath checks that a session in Ringing or Active exists
// between the two users, as required for ICE candidate forwarding.
func (t *CallTable) VerifySignalPath(senderID, targetID string) *CoreError {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[callKey(senderID, targetID)]
	if !ok || s.PartnerOf(senderID) == "" {
		return staleSignalError("no call session for this candidate")
	}
	return nil
}

// DropUser force-terminates every session naming the user and returns
// the discarded sessions so the remaining parties can be notified.
func (t *CallTable) DropUser(userID string) []*CallSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	var dropped []*CallSession
	for key, s := range t.sessions {
		if s.PartnerOf(userID) != "" {
			dropped = append(dropped, s)
			delete(t.sessions, key)
		}
	}
	return dropped
}

// Session returns a snapshot of the session between two users, or nil.
func (t *CallTable) Session(userA, userB string) *CallSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[callKey(userA, userB)]
	if !ok {
		return nil
	}
	copied := *s
	return &copied
}
