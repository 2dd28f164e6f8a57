package core

import (
	"sort"
	"strings"
	"sync"
)

// roomSeparator joins the two sorted member identities into a room id.
const roomSeparator = "_"

// RoomID derives the identifier of the pairwise room for two users.
// It is symmetric: RoomID(a, b) == RoomID(b, a), so either participant
// computes the same id without a lookup.
func RoomID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, roomSeparator)
}

// RoomTable tracks which connections are joined to which rooms. Rooms
// are ephemeral: a room exists exactly while it has members.
type RoomTable struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]struct{}
}

// NewRoomTable constructs an empty room table.
func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds the connection to the room, creating it on first use.
func (t *RoomTable) Join(roomID string, c *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		t.rooms[roomID] = members
	}
	members[c] = struct{}{}
	c.rooms[roomID] = struct{}{}
}

// Broadcast delivers an event to every connection joined to the room.
// A room with no members is a no-op.
func (t *RoomTable) Broadcast(roomID string, ev *Event) {
	t.mu.Lock()
	targets := make([]*Client, 0, len(t.rooms[roomID]))
	for c := range t.rooms[roomID] {
		targets = append(targets, c)
	}
	t.mu.Unlock()

	for _, c := range targets {
		c.send(ev)
	}
}

// DropClient removes the connection from every room it joined, deleting
// rooms that become empty.
func (t *RoomTable) DropClient(c *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for roomID := range c.rooms {
		members := t.rooms[roomID]
		delete(members, c)
		if len(members) == 0 {
			delete(t.rooms, roomID)
		}
	}
	c.rooms = make(map[string]struct{})
}

// Members returns the number of connections joined to the room.
func (t *RoomTable) Members(roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rooms[roomID])
}
