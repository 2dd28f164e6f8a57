package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/auth"
	"github.com/peerwave/peerwave-server/internal/core"
	"github.com/peerwave/peerwave-server/internal/proto"
	"github.com/peerwave/peerwave-server/internal/store/sqlite"
)

type testEnv struct {
	ts   *httptest.Server
	auth *auth.Service
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})
	hub := core.NewHub(st, &logger)

	ts := httptest.NewServer(NewRouter(hub, authService, st, &logger))
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, auth: authService}
}

// registerUser creates an account over the REST API and returns the
// issued token along with the user id parsed from it.
func (env *testEnv) registerUser(t *testing.T, username string) (token, userID string) {
	t.Helper()

	body, _ := json.Marshal(RegisterRequest{Username: username, Password: "password123"})
	resp, err := env.ts.Client().Post(env.ts.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		t.Fatalf("unexpected register status: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	claims, err := env.auth.ValidateToken(authResp.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	return authResp.Token, claims.UserID
}

func (env *testEnv) dialWS(t *testing.T, ctx context.Context, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

type outboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readEvent skips frames until one with the wanted event name arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) outboundFrame {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if frame.Type == proto.OutboundTypeEvent && frame.Event == event {
			return frame
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t)

	resp, err := env.ts.Client().Get(env.ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketRejectsAnonymous(t *testing.T) {
	env := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// The server accepts the upgrade and then closes with a policy
	// violation because no identity was presented.
	var frame outboundFrame
	err = wsjson.Read(ctx, conn, &frame)
	if err == nil {
		t.Fatal("expected the connection to be closed")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusPolicyViolation {
		t.Fatalf("expected policy violation close, got %v (%v)", status, err)
	}
}

func TestWebSocketMessageAndNotification(t *testing.T) {
	env := startTestServer(t)

	aliceToken, aliceID := env.registerUser(t, "alice")
	bobToken, bobID := env.registerUser(t, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	aliceConn := env.dialWS(t, ctx, aliceToken)
	bobConn := env.dialWS(t, ctx, bobToken)

	// Alice joins the pair room and sends; her own connection receives
	// the room broadcast, and bob gets the notification regardless of
	// room membership.
	joinData, _ := json.Marshal(proto.JoinChatRoomData{User1ID: aliceID, User2ID: bobID})
	if err := wsjson.Write(ctx, aliceConn, proto.Inbound{Type: proto.InboundTypeJoinChatRoom, Data: joinData}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	msgData, _ := json.Marshal(proto.SendMessageData{SenderID: aliceID, ReceiverID: bobID, Content: "hi there"})
	if err := wsjson.Write(ctx, aliceConn, proto.Inbound{Type: proto.InboundTypeSendMessage, Data: msgData}); err != nil {
		t.Fatalf("write message: %v", err)
	}

	frame := readEvent(t, ctx, aliceConn, proto.EventReceiveMessage)
	var msg proto.MessagePayload
	if err := json.Unmarshal(frame.Data, &msg); err != nil {
		t.Fatalf("unmarshal message payload: %v", err)
	}
	if msg.SenderID != aliceID || msg.ReceiverID != bobID || msg.Content != "hi there" || msg.Seen {
		t.Fatalf("unexpected message payload: %+v", msg)
	}
	// Existing clients depend on the reciverId field spelling.
	if !bytes.Contains(frame.Data, []byte(`"reciverId"`)) {
		t.Fatalf("payload must carry reciverId: %s", frame.Data)
	}

	frame = readEvent(t, ctx, bobConn, proto.EventNewNotification)
	var notif proto.NotificationPayload
	if err := json.Unmarshal(frame.Data, &notif); err != nil {
		t.Fatalf("unmarshal notification payload: %v", err)
	}
	if notif.SenderID != aliceID || notif.ReceiverID != bobID || notif.Message != "hi there" {
		t.Fatalf("unexpected notification payload: %+v", notif)
	}
	if notif.Sender.ID != aliceID || notif.Sender.Name != "alice" {
		t.Fatalf("notification must carry the sender profile: %+v", notif.Sender)
	}
}

func TestWebSocketUserStatus(t *testing.T) {
	env := startTestServer(t)

	aliceToken, _ := env.registerUser(t, "alice")
	bobToken, bobID := env.registerUser(t, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	aliceConn := env.dialWS(t, ctx, aliceToken)

	bobConn := env.dialWS(t, ctx, bobToken)
	frame := readEvent(t, ctx, aliceConn, proto.EventUserStatus)
	var status proto.UserStatusPayload
	if err := json.Unmarshal(frame.Data, &status); err != nil {
		t.Fatalf("unmarshal status payload: %v", err)
	}
	if status.UserID != bobID || status.Status != "online" {
		t.Fatalf("unexpected status payload: %+v", status)
	}

	if err := bobConn.Close(websocket.StatusNormalClosure, "bye"); err != nil {
		t.Fatalf("close bob: %v", err)
	}

	for {
		frame = readEvent(t, ctx, aliceConn, proto.EventUserStatus)
		if err := json.Unmarshal(frame.Data, &status); err != nil {
			t.Fatalf("unmarshal status payload: %v", err)
		}
		if status.UserID == bobID && status.Status == "offline" {
			return
		}
	}
}

func TestWebSocketValidationError(t *testing.T) {
	env := startTestServer(t)

	aliceToken, aliceID := env.registerUser(t, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := env.dialWS(t, ctx, aliceToken)

	// A message with no receiver is rejected back to the sender only.
	msgData, _ := json.Marshal(proto.SendMessageData{SenderID: aliceID, Content: "to nobody"})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSendMessage, Data: msgData}); err != nil {
		t.Fatalf("write message: %v", err)
	}

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read: %v", err)
		}
		if frame.Type != proto.OutboundTypeError {
			continue
		}
		if frame.Error == nil || frame.Error.Code != core.ErrCodeValidation {
			t.Fatalf("expected validation error, got %+v", frame.Error)
		}
		return
	}
}
