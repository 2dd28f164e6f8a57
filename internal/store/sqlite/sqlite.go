package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/peerwave/peerwave-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id          TEXT PRIMARY KEY,
	sender_id   TEXT NOT NULL,
	receiver_id TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	file_url    TEXT NOT NULL DEFAULT '',
	file_type   TEXT NOT NULL DEFAULT '',
	seen        BOOLEAN NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages (sender_id, receiver_id, created_at);

CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	sender_id   TEXT NOT NULL,
	receiver_id TEXT NOT NULL,
	message     TEXT NOT NULL,
	is_read     BOOLEAN NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_receiver ON notifications (receiver_id, created_at);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function
// instead of the default schema. Useful for tests.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	query := `
		INSERT INTO users (id, username, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, query, id, username, username, passwordHash, now); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	query := `
		SELECT id, username, name, avatar_url, password_hash, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, name, avatar_url, password_hash, created_at
		FROM users
		WHERE username = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// GetUserSummary retrieves the profile projection for a user.
func (s *SQLiteStore) GetUserSummary(ctx context.Context, id string) (*store.UserSummary, error) {
	query := `
		SELECT id, name, avatar_url
		FROM users
		WHERE id = ?
	`
	var summary store.UserSummary
	err := s.db.QueryRowContext(ctx, query, id).Scan(&summary.ID, &summary.Name, &summary.AvatarURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user summary: %w", err)
	}
	return &summary, nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var user store.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// ==== MessageStore implementation ====

// CreateMessage persists a message, filling ID and CreatedAt.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content, file_url, file_type, seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID,
		msg.Content, msg.FileURL, msg.FileType,
		msg.Seen, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessagesByPair returns the conversation between two users, oldest first.
func (s *SQLiteStore) ListMessagesByPair(ctx context.Context, user1ID, user2ID string, limit int) ([]*store.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, file_url, file_type, seen, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC
	`
	args := []any{user1ID, user2ID, user2ID, user1ID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// LatestMessageByPair returns the most recent message between two users.
func (s *SQLiteStore) LatestMessageByPair(ctx context.Context, user1ID, user2ID string) (*store.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, file_url, file_type, seen, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at DESC
		LIMIT 1
	`
	rows, err := s.db.QueryContext(ctx, query, user1ID, user2ID, user2ID, user1ID)
	if err != nil {
		return nil, fmt.Errorf("query latest message: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest message: %w", err)
		}
		return nil, fmt.Errorf("latest message: %w", store.ErrNotFound)
	}
	return scanMessage(rows)
}

// CountUnseen returns the number of unseen messages sent by senderID to receiverID.
func (s *SQLiteStore) CountUnseen(ctx context.Context, receiverID, senderID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE receiver_id = ? AND sender_id = ? AND seen = 0
	`
	var count int64
	if err := s.db.QueryRowContext(ctx, query, receiverID, senderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unseen: %w", err)
	}
	return count, nil
}

// MarkMessagesSeen flips the seen flag on all messages sent by senderID to receiverID.
func (s *SQLiteStore) MarkMessagesSeen(ctx context.Context, receiverID, senderID string) error {
	query := `
		UPDATE messages
		SET seen = 1
		WHERE receiver_id = ? AND sender_id = ? AND seen = 0
	`
	if _, err := s.db.ExecContext(ctx, query, receiverID, senderID); err != nil {
		return fmt.Errorf("mark messages seen: %w", err)
	}
	return nil
}

func scanMessage(rows *sql.Rows) (*store.Message, error) {
	var msg store.Message
	err := rows.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.Content,
		&msg.FileURL,
		&msg.FileType,
		&msg.Seen,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &msg, nil
}

// ==== NotificationStore implementation ====

// CreateNotification persists a notification, filling ID and CreatedAt.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *store.Notification) error {
	query := `
		INSERT INTO notifications (id, sender_id, receiver_id, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.SenderID, n.ReceiverID, n.Message, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotificationsByRecipient returns notifications for a recipient, newest first.
func (s *SQLiteStore) ListNotificationsByRecipient(ctx context.Context, receiverID string) ([]*store.Notification, error) {
	query := `
		SELECT id, sender_id, receiver_id, message, is_read, created_at
		FROM notifications
		WHERE receiver_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*store.Notification, 0)
	for rows.Next() {
		var n store.Notification
		err := rows.Scan(&n.ID, &n.SenderID, &n.ReceiverID, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag on a notification.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET is_read = 1
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
	}
	return nil
}
