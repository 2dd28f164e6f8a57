package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/peerwave/peerwave-server/internal/core"
	"github.com/peerwave/peerwave-server/internal/proto"
	"github.com/peerwave/peerwave-server/internal/store"
)

func TestInboundToCommand_SendMessage(t *testing.T) {
	data, _ := json.Marshal(proto.SendMessageData{
		SenderID:   "alice",
		ReceiverID: "bob",
		Content:    "hi",
		FileURL:    "https://example.com/pic.png",
		FileType:   "image/png",
	})

	cmd, protoErr, err := inboundToCommand(proto.Inbound{Type: proto.InboundTypeSendMessage, Data: data})
	if err != nil || protoErr != nil {
		t.Fatalf("unexpected error: %v / %+v", err, protoErr)
	}
	if cmd.Kind != core.CommandSendMessage {
		t.Fatalf("unexpected kind: %v", cmd.Kind)
	}
	msg := cmd.Message
	if msg.SenderID != "alice" || msg.ReceiverID != "bob" || msg.Content != "hi" ||
		msg.FileURL != "https://example.com/pic.png" || msg.FileType != "image/png" {
		t.Fatalf("unexpected payload: %+v", msg)
	}
}

func TestInboundToCommand_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		data string
	}{
		{"call without callee", proto.InboundTypeCallUser, `{}`},
		{"answer without caller", proto.InboundTypeAnswerCall, `{}`},
		{"reject without caller", proto.InboundTypeRejectCall, `{}`},
		{"end without partner", proto.InboundTypeEndCall, `{}`},
		{"candidate without target", proto.InboundTypeIceCandidate, `{}`},
		{"unknown type", "shrug", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, protoErr, err := inboundToCommand(proto.Inbound{Type: tt.typ, Data: json.RawMessage(tt.data)})
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if cmd != nil {
				t.Fatalf("no command expected, got %+v", cmd)
			}
			if protoErr == nil || protoErr.Code != core.ErrCodeValidation {
				t.Fatalf("expected validation error, got %+v", protoErr)
			}
		})
	}
}

func TestInboundToCommand_MalformedJSON(t *testing.T) {
	_, _, err := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSendMessage,
		Data: json.RawMessage(`{"senderId":`),
	})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestOutboundFromEvent_MessageWireFormat(t *testing.T) {
	created := time.Unix(1700000000, 0)
	out := outboundFromEvent(&core.Event{
		Kind: core.EventReceiveMessage,
		Message: &store.Message{
			ID:         "m1",
			SenderID:   "alice",
			ReceiverID: "bob",
			Content:    "hi",
			CreatedAt:  created,
		},
	})

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal outbound: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal outbound: %v", err)
	}
	if decoded["type"] != proto.OutboundTypeEvent || decoded["event"] != proto.EventReceiveMessage {
		t.Fatalf("unexpected envelope: %s", raw)
	}
	data, ok := decoded["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data object: %s", raw)
	}
	if data["reciverId"] != "bob" {
		t.Fatalf("payload must carry reciverId: %s", raw)
	}
	if data["createdAt"] != float64(1700000000) {
		t.Fatalf("createdAt must be a unix timestamp: %s", raw)
	}
}

func TestOutboundFromEvent_Error(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeStaleSignal, Message: "no ringing call to answer"},
	})
	if out.Type != proto.OutboundTypeError {
		t.Fatalf("unexpected type: %s", out.Type)
	}
	if out.Error == nil || out.Error.Code != core.ErrCodeStaleSignal {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
}
