package core

import (
	"sync"
)

// Registry maps user identities to their live connections. It is the
// single source of truth for reachability: every other component asks
// it instead of caching online state.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client            // connection id -> client
	users map[string]map[string]*Client // user id -> connection id -> client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Client),
		users: make(map[string]map[string]*Client),
	}
}

// Register admits a connection. added reports whether the connection was
// actually inserted (false for a repeat of a known connection id), and
// cameOnline whether the owning user just came online (first live
// connection). Registering a client without a user identity is rejected.
// Idempotent per connection id.
func (r *Registry) Register(c *Client) (added, cameOnline bool, err *CoreError) {
	if c.UserID == "" {
		return false, false, unauthorizedError("connection has no user identity")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[c.ID]; exists {
		return false, false, nil
	}
	r.conns[c.ID] = c

	entry, ok := r.users[c.UserID]
	if !ok {
		entry = make(map[string]*Client)
		r.users[c.UserID] = entry
	}
	entry[c.ID] = c

	return true, len(entry) == 1, nil
}

// Unregister removes a connection. It returns the removed client (nil if
// the connection was unknown) and whether the owning user went offline.
func (r *Registry) Unregister(connID string) (c *Client, wentOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	delete(r.conns, connID)

	entry := r.users[c.UserID]
	delete(entry, connID)
	if len(entry) == 0 {
		delete(r.users, c.UserID)
		return c, true
	}
	return c, false
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// SendToUser delivers an event to every live connection owned by the
// user. Delivery is best-effort: no live connection means a silent no-op.
func (r *Registry) SendToUser(userID string, ev *Event) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(r.users[userID]))
	for _, c := range r.users[userID] {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		c.send(ev)
	}
}

// Broadcast delivers an event to every live connection in the process.
func (r *Registry) Broadcast(ev *Event) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		c.send(ev)
	}
}
