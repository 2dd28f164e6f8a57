package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/store"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// noEvent asserts that no event of the given kind arrives within a
// short settle window. Other kinds are drained and ignored.
func noEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// memStore is an in-memory store.Store for core tests, with error
// injection for the persistence-failure paths.
type memStore struct {
	mu            sync.Mutex
	seq           int
	messages      []*store.Message
	notifications []*store.Notification
	users         map[string]*store.User

	failMessages      bool
	failNotifications bool
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*store.User)}
}

func (m *memStore) addUser(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = &store.User{ID: id, Username: name, Name: name}
}

func (m *memStore) CreateUser(_ context.Context, username, passwordHash string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u := &store.User{
		ID:           fmt.Sprintf("u%d", m.seq),
		Username:     username,
		Name:         username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetUserSummary(_ context.Context, id string) (*store.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	s := u.Summary()
	return &s, nil
}

func (m *memStore) CreateMessage(_ context.Context, msg *store.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMessages {
		return errors.New("injected message store failure")
	}
	m.seq++
	msg.ID = fmt.Sprintf("m%d", m.seq)
	msg.CreatedAt = time.Unix(int64(m.seq), 0)
	copied := *msg
	m.messages = append(m.messages, &copied)
	return nil
}

func (m *memStore) ListMessagesByPair(_ context.Context, user1ID, user2ID string, limit int) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Message
	for _, msg := range m.messages {
		if inPair(msg, user1ID, user2ID) {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) LatestMessageByPair(_ context.Context, user1ID, user2ID string) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if inPair(m.messages[i], user1ID, user2ID) {
			return m.messages[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) CountUnseen(_ context.Context, receiverID, senderID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID && !msg.Seen {
			count++
		}
	}
	return count, nil
}

func (m *memStore) MarkMessagesSeen(_ context.Context, receiverID, senderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID {
			msg.Seen = true
		}
	}
	return nil
}

func (m *memStore) CreateNotification(_ context.Context, n *store.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNotifications {
		return errors.New("injected notification store failure")
	}
	m.seq++
	n.ID = fmt.Sprintf("n%d", m.seq)
	n.CreatedAt = time.Unix(int64(m.seq), 0)
	copied := *n
	m.notifications = append(m.notifications, &copied)
	return nil
}

func (m *memStore) ListNotificationsByRecipient(_ context.Context, receiverID string) ([]*store.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].ReceiverID == receiverID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *memStore) MarkNotificationRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) Close() error { return nil }

func (m *memStore) messageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *memStore) notificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

func inPair(msg *store.Message, user1ID, user2ID string) bool {
	return (msg.SenderID == user1ID && msg.ReceiverID == user2ID) ||
		(msg.SenderID == user2ID && msg.ReceiverID == user1ID)
}
