package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered user account.
type User struct {
	ID           string
	Username     string
	Name         string
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
}

// UserSummary is the projection of a user attached to outbound events.
type UserSummary struct {
	ID        string
	Name      string
	AvatarURL string
}

// Summary returns the event-facing projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// Message is a persisted chat message between two users.
// At least one of Content and FileURL must be set.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Content    string
	FileURL    string
	FileType   string
	Seen       bool
	CreatedAt  time.Time
}

// Notification is a persisted notification record for a recipient.
type Notification struct {
	ID         string
	SenderID   string
	ReceiverID string
	Message    string
	IsRead     bool
	CreatedAt  time.Time
}

// UserStore handles user persistence and profile lookup.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserSummary retrieves the profile projection for a user.
	GetUserSummary(ctx context.Context, id string) (*UserSummary, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// CreateMessage persists a message, filling ID and CreatedAt.
	CreateMessage(ctx context.Context, msg *Message) error

	// ListMessagesByPair returns the conversation between two users,
	// ordered by creation time ascending. limit <= 0 means no limit.
	ListMessagesByPair(ctx context.Context, user1ID, user2ID string, limit int) ([]*Message, error)

	// LatestMessageByPair returns the most recent message between two users.
	LatestMessageByPair(ctx context.Context, user1ID, user2ID string) (*Message, error)

	// CountUnseen returns the number of unseen messages sent by senderID to receiverID.
	CountUnseen(ctx context.Context, receiverID, senderID string) (int64, error)

	// MarkMessagesSeen flips the seen flag on all messages sent by senderID to receiverID.
	MarkMessagesSeen(ctx context.Context, receiverID, senderID string) error
}

// NotificationStore handles notification persistence.
type NotificationStore interface {
	// CreateNotification persists a notification, filling ID and CreatedAt.
	CreateNotification(ctx context.Context, n *Notification) error

	// ListNotificationsByRecipient returns notifications for a recipient,
	// ordered by creation time descending.
	ListNotificationsByRecipient(ctx context.Context, receiverID string) ([]*Notification, error)

	// MarkNotificationRead flips the read flag on a notification.
	MarkNotificationRead(ctx context.Context, id string) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore
	NotificationStore

	// Close closes the underlying database connection.
	Close() error
}
