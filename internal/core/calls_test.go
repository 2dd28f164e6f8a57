package core

import "testing"

func TestCallTableLifecycle(t *testing.T) {
	calls := NewCallTable()

	if cerr := calls.Start("alice", "bob", true); cerr != nil {
		t.Fatalf("start: %v", cerr)
	}
	s := calls.Session("bob", "alice")
	if s == nil || s.State != CallRinging || !s.IsVideo {
		t.Fatalf("unexpected session: %+v", s)
	}

	// Second attempt between the pair while one is in flight.
	if cerr := calls.Start("bob", "alice", false); cerr == nil || cerr.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", cerr)
	}

	if cerr := calls.Answer("bob", "alice"); cerr != nil {
		t.Fatalf("answer: %v", cerr)
	}
	if s := calls.Session("alice", "bob"); s == nil || s.State != CallActive {
		t.Fatalf("expected active session, got %+v", s)
	}

	if cerr := calls.End("alice", "bob"); cerr != nil {
		t.Fatalf("end: %v", cerr)
	}
	if s := calls.Session("alice", "bob"); s != nil {
		t.Fatalf("session must be discarded after end, got %+v", s)
	}

	// Signals after the terminal transition are stale.
	if cerr := calls.End("bob", "alice"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal, got %+v", cerr)
	}
	if cerr := calls.VerifySignalPath("alice", "bob"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal for candidate, got %+v", cerr)
	}
}

func TestCallTableOnlyCalleeAnswersOrRejects(t *testing.T) {
	calls := NewCallTable()
	if cerr := calls.Start("alice", "bob", false); cerr != nil {
		t.Fatalf("start: %v", cerr)
	}

	// The caller cannot answer their own call.
	if cerr := calls.Answer("alice", "bob"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal, got %+v", cerr)
	}
	if cerr := calls.Reject("alice", "bob"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal, got %+v", cerr)
	}

	if cerr := calls.Reject("bob", "alice"); cerr != nil {
		t.Fatalf("callee reject: %v", cerr)
	}
	if s := calls.Session("alice", "bob"); s != nil {
		t.Fatalf("session must be discarded after reject, got %+v", s)
	}
}

func TestCallTableAnswerOnlyFromRinging(t *testing.T) {
	calls := NewCallTable()

	// No session at all.
	if cerr := calls.Answer("bob", "alice"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal, got %+v", cerr)
	}

	calls.Start("alice", "bob", false)
	calls.Answer("bob", "alice")

	// Already active.
	if cerr := calls.Answer("bob", "alice"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal on double answer, got %+v", cerr)
	}
	if cerr := calls.Reject("bob", "alice"); cerr == nil || cerr.Code != ErrCodeStaleSignal {
		t.Fatalf("expected stale signal on late reject, got %+v", cerr)
	}
}

func TestCallTableRejectsSelfCall(t *testing.T) {
	calls := NewCallTable()
	if cerr := calls.Start("alice", "alice", false); cerr == nil || cerr.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", cerr)
	}
}

func TestCallTableDropUser(t *testing.T) {
	calls := NewCallTable()
	calls.Start("alice", "bob", false)
	calls.Start("alice", "carol", true)
	calls.Start("dave", "erin", false)

	dropped := calls.DropUser("alice")
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped sessions, got %d", len(dropped))
	}
	for _, s := range dropped {
		if s.PartnerOf("alice") == "" {
			t.Fatalf("dropped session does not name alice: %+v", s)
		}
	}

	if s := calls.Session("dave", "erin"); s == nil {
		t.Fatal("unrelated session must survive")
	}
	if s := calls.Session("alice", "bob"); s != nil {
		t.Fatalf("session must be gone, got %+v", s)
	}
}
