package core

// Client is one live connection as seen by the core layer.
// A user may own several clients at once (multiple devices or tabs).
type Client struct {
	ID       string
	UserID   string
	Username string
	Commands chan *Command
	Events   chan *Event

	// done is closed once the hub has drained Commands, so disconnect
	// cleanup can wait for buffered commands to finish dispatching.
	done chan struct{}

	// rooms the client has joined; guarded by the room table mutex.
	rooms map[string]struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id, userID, username string) *Client {
	if username == "" {
		username = userID
	}
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		done:     make(chan struct{}),
		rooms:    make(map[string]struct{}),
	}
}

func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
