package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/store"
)

// NotificationFanout persists a notification record and pushes it to
// the recipient if reachable, enriched with the sender's profile.
type NotificationFanout struct {
	notifications store.NotificationStore
	users         store.UserStore
	registry      *Registry
	log           *zerolog.Logger
}

// NewNotificationFanout constructs a notification fanout.
func NewNotificationFanout(notifications store.NotificationStore, users store.UserStore, registry *Registry, logger *zerolog.Logger) *NotificationFanout {
	return &NotificationFanout{
		notifications: notifications,
		users:         users,
		registry:      registry,
		log:           logger,
	}
}

// Notify persists the notification and, when the recipient is online,
// delivers it with the sender's summary attached. An offline recipient
// keeps only the stored record for later retrieval. A failed profile
// lookup degrades to a zero-value summary rather than suppressing the
// push.
func (f *NotificationFanout) Notify(ctx context.Context, senderID, receiverID, text string) (*store.Notification, *CoreError) {
	n := &store.Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
		IsRead:     false,
	}
	if err := f.notifications.CreateNotification(ctx, n); err != nil {
		f.log.Error().Err(err).Str("sender", senderID).Msg("persist notification")
		return nil, persistenceError("failed to create notification")
	}

	var summary store.UserSummary
	if sender, err := f.users.GetUserSummary(ctx, senderID); err != nil {
		f.log.Warn().Err(err).Str("sender", senderID).Msg("lookup sender profile")
	} else {
		summary = *sender
	}

	if f.registry.IsOnline(receiverID) {
		f.registry.SendToUser(receiverID, &Event{
			Kind: EventNewNotification,
			Notification: &NotificationEvent{
				Notification: *n,
				Sender:       summary,
			},
		})
	}

	return n, nil
}
