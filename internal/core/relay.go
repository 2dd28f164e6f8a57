package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/store"
)

// Relay validates and persists chat messages, then broadcasts them to
// the pair's room. Persistence always precedes broadcast, so a client
// that queries history right after a broadcast sees at least that
// message.
type Relay struct {
	messages store.MessageStore
	rooms    *RoomTable
	log      *zerolog.Logger
}

// NewRelay constructs a message relay.
func NewRelay(messages store.MessageStore, rooms *RoomTable, logger *zerolog.Logger) *Relay {
	return &Relay{
		messages: messages,
		rooms:    rooms,
		log:      logger,
	}
}

// Send validates, persists, and broadcasts a message. authUserID is the
// authenticated owner of the originating connection and must match the
// claimed sender. The persisted message is returned for local echo.
func (r *Relay) Send(ctx context.Context, authUserID string, cmd *SendMessage) (*store.Message, *CoreError) {
	if cmd.SenderID != authUserID {
		return nil, unauthorizedError("sender does not match authenticated user")
	}
	if cmd.ReceiverID == "" {
		return nil, validationError("reciverId is required")
	}
	if cmd.Content == "" && cmd.FileURL == "" {
		return nil, validationError("message needs content or a file attachment")
	}

	msg := &store.Message{
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Content:    cmd.Content,
		FileURL:    cmd.FileURL,
		FileType:   cmd.FileType,
		Seen:       false,
	}
	if err := r.messages.CreateMessage(ctx, msg); err != nil {
		r.log.Error().Err(err).Str("sender", cmd.SenderID).Msg("persist message")
		return nil, persistenceError("failed to send message")
	}

	roomID := RoomID(msg.SenderID, msg.ReceiverID)
	r.rooms.Broadcast(roomID, &Event{Kind: EventReceiveMessage, Message: msg})

	return msg, nil
}

// History returns the conversation between two users, oldest first.
func (r *Relay) History(ctx context.Context, user1ID, user2ID string, limit int) ([]*store.Message, error) {
	return r.messages.ListMessagesByPair(ctx, user1ID, user2ID, limit)
}

// Latest returns the most recent message between two users.
func (r *Relay) Latest(ctx context.Context, user1ID, user2ID string) (*store.Message, error) {
	return r.messages.LatestMessageByPair(ctx, user1ID, user2ID)
}

// UnseenCount returns how many messages from senderID the recipient has
// not seen yet.
func (r *Relay) UnseenCount(ctx context.Context, receiverID, senderID string) (int64, error) {
	return r.messages.CountUnseen(ctx, receiverID, senderID)
}

// MarkSeen flips the seen flag on all messages from senderID to receiverID.
func (r *Relay) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	return r.messages.MarkMessagesSeen(ctx, receiverID, senderID)
}
