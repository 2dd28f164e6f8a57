package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/core"
	"github.com/peerwave/peerwave-server/internal/store"
)

// MessageHandlers provides the read side of the message store over REST.
type MessageHandlers struct {
	relay *core.Relay
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(relay *core.Relay, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{relay: relay, log: logger}
}

// History returns the conversation with a peer, oldest first.
// GET /api/messages/:peerId
func (h *MessageHandlers) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	peerID := c.Param("peerId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.relay.History(c.Request.Context(), userID, peerID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse(msg))
	}
	c.JSON(http.StatusOK, out)
}

// Latest returns the most recent message with a peer.
// GET /api/messages/:peerId/latest
func (h *MessageHandlers) Latest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	peerID := c.Param("peerId")

	msg, err := h.relay.Latest(c.Request.Context(), userID, peerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no messages"})
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("failed to get latest message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messageResponse(msg))
}

// UnseenCount returns the number of unseen messages from a peer.
// GET /api/messages/:peerId/unseen
func (h *MessageHandlers) UnseenCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	peerID := c.Param("peerId")

	count, err := h.relay.UnseenCount(c.Request.Context(), userID, peerID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("failed to count unseen")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkSeen flips the seen flag on all messages from a peer.
// POST /api/messages/:peerId/seen
func (h *MessageHandlers) MarkSeen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	peerID := c.Param("peerId")

	if err := h.relay.MarkSeen(c.Request.Context(), userID, peerID); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Str("peer_id", peerID).Msg("failed to mark seen")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"reciverId"`
	Content    string `json:"content,omitempty"`
	FileURL    string `json:"fileUrl,omitempty"`
	FileType   string `json:"fileType,omitempty"`
	Seen       bool   `json:"seen"`
	CreatedAt  string `json:"createdAt"`
}

func messageResponse(msg *store.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		FileURL:    msg.FileURL,
		FileType:   msg.FileType,
		Seen:       msg.Seen,
		CreatedAt:  msg.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
