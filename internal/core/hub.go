package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/store"
)

// Hub owns the registry, room table, and call table, and dispatches
// client commands to the relay, fanout, and call machinery. Commands
// from one connection are processed in arrival order so a sender's
// messages persist and broadcast in sequence; connections never block
// each other, and the component tables serialize access per key
// internally.
type Hub struct {
	registry *Registry
	rooms    *RoomTable
	calls    *CallTable
	relay    *Relay
	fanout   *NotificationFanout
	log      *zerolog.Logger
}

// NewHub wires the core components around the given store.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	registry := NewRegistry()
	rooms := NewRoomTable()
	return &Hub{
		registry: registry,
		rooms:    rooms,
		calls:    NewCallTable(),
		relay:    NewRelay(st, rooms, logger),
		fanout:   NewNotificationFanout(st, st, registry, logger),
		log:      logger,
	}
}

// Registry exposes the connection registry for reachability queries.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Relay exposes the message relay for the read-side HTTP handlers.
func (h *Hub) Relay() *Relay {
	return h.relay
}

// RegisterClient admits a connection into the registry, announces the
// user's presence if this is their first connection, and starts
// consuming the client's commands. The command channel is owned by the
// transport, which closes it on disconnect.
func (h *Hub) RegisterClient(c *Client) *CoreError {
	added, cameOnline, err := h.registry.Register(c)
	if err != nil {
		return err
	}
	if !added {
		// Known connection id: the dispatch goroutine already owns the
		// command channel, starting another would double-drain it.
		return nil
	}

	h.log.Info().Str("conn_id", c.ID).Str("user_id", c.UserID).Msg("client connected")

	if cameOnline {
		h.registry.Broadcast(&Event{
			Kind:   EventUserStatus,
			Status: &StatusEvent{UserID: c.UserID, Status: UserStatusOnline},
		})
	}

	go h.serveClient(c)
	return nil
}

// UnregisterClient removes a connection, drops its room memberships,
// force-terminates any call session naming its user, and announces the
// user's departure if this was their last connection. The caller must
// have closed c.Commands first: cleanup waits for the dispatch goroutine
// to finish draining buffered commands, otherwise a buffered join or
// call could recreate state after it was dropped.
func (h *Hub) UnregisterClient(c *Client) {
	removed, wentOffline := h.registry.Unregister(c.ID)
	if removed == nil {
		return
	}

	<-c.done

	h.rooms.DropClient(c)

	for _, s := range h.calls.DropUser(c.UserID) {
		partner := s.PartnerOf(c.UserID)
		h.registry.SendToUser(partner, &Event{
			Kind: EventCallEnded,
			Call: &CallSignal{UserID: c.UserID},
		})
	}

	h.log.Info().Str("conn_id", c.ID).Str("user_id", c.UserID).Msg("client disconnected")

	if wentOffline {
		h.registry.Broadcast(&Event{
			Kind:   EventUserStatus,
			Status: &StatusEvent{UserID: c.UserID, Status: UserStatusOffline},
		})
	}
}

func (h *Hub) serveClient(c *Client) {
	defer close(c.done)
	for cmd := range c.Commands {
		h.dispatch(context.Background(), c, cmd)
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinChatRoom:
		h.handleJoin(c, cmd.Join)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd.Message)
	case CommandCallUser:
		h.handleCallUser(c, cmd.Call)
	case CommandAnswerCall:
		h.handleAnswerCall(c, cmd.Answer)
	case CommandRejectCall:
		h.handleRejectCall(c, cmd.Reject)
	case CommandEndCall:
		h.handleEndCall(c, cmd.End)
	case CommandICECandidate:
		h.handleICECandidate(c, cmd.Candidate)
	default:
		c.send(errorEvent(validationError("unknown command")))
	}
}

func (h *Hub) handleJoin(c *Client, join *JoinChatRoom) {
	if join.User1ID == "" || join.User2ID == "" {
		c.send(errorEvent(validationError("both participants are required")))
		return
	}
	if c.UserID != join.User1ID && c.UserID != join.User2ID {
		c.send(errorEvent(unauthorizedError("not a participant of this room")))
		return
	}

	roomID := RoomID(join.User1ID, join.User2ID)
	h.rooms.Join(roomID, c)
	h.log.Debug().Str("user_id", c.UserID).Str("room", roomID).Msg("joined chat room")
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, sm *SendMessage) {
	msg, cerr := h.relay.Send(ctx, c.UserID, sm)
	if cerr != nil {
		c.send(errorEvent(cerr))
		return
	}

	// Notification creation is composed here, not inside the relay, so
	// messaging and fanout stay independently testable.
	text := msg.Content
	if text == "" {
		text = msg.FileURL
	}
	if _, cerr := h.fanout.Notify(ctx, msg.SenderID, msg.ReceiverID, text); cerr != nil {
		c.send(errorEvent(cerr))
	}
}

func (h *Hub) handleCallUser(c *Client, call *CallUser) {
	if !h.registry.IsOnline(call.CalleeID) {
		cerr := unreachablePeerError("User is offline")
		c.send(&Event{
			Kind: EventCallError,
			Call: &CallSignal{Message: cerr.Message},
		})
		return
	}

	if cerr := h.calls.Start(c.UserID, call.CalleeID, call.IsVideo); cerr != nil {
		c.send(&Event{
			Kind: EventCallError,
			Call: &CallSignal{Message: cerr.Message},
		})
		return
	}

	h.log.Info().
		Str("caller", c.UserID).
		Str("callee", call.CalleeID).
		Bool("video", call.IsVideo).
		Msg("call initiated")

	caller := call.Caller
	if caller.ID == "" {
		caller.ID = c.UserID
		caller.Name = c.Username
	}
	offer := call.Offer
	h.registry.SendToUser(call.CalleeID, &Event{
		Kind: EventReceiveCall,
		Call: &CallSignal{
			Offer:   &offer,
			Caller:  &caller,
			IsVideo: call.IsVideo,
			UserID:  c.UserID,
		},
	})
}

func (h *Hub) handleAnswerCall(c *Client, answer *AnswerCall) {
	if cerr := h.calls.Answer(c.UserID, answer.CallerID); cerr != nil {
		c.send(errorEvent(cerr))
		return
	}

	h.log.Info().Str("callee", c.UserID).Str("caller", answer.CallerID).Msg("call answered")

	sdp := answer.Answer
	h.registry.SendToUser(answer.CallerID, &Event{
		Kind: EventCallAnswered,
		Call: &CallSignal{Answer: &sdp, UserID: c.UserID},
	})
}

func (h *Hub) handleRejectCall(c *Client, reject *RejectCall) {
	if cerr := h.calls.Reject(c.UserID, reject.CallerID); cerr != nil {
		c.send(errorEvent(cerr))
		return
	}

	h.log.Info().Str("callee", c.UserID).Str("caller", reject.CallerID).Msg("call rejected")

	h.registry.SendToUser(reject.CallerID, &Event{
		Kind: EventCallRejected,
		Call: &CallSignal{UserID: c.UserID},
	})
}

func (h *Hub) handleEndCall(c *Client, end *EndCall) {
	if cerr := h.calls.End(c.UserID, end.PartnerID); cerr != nil {
		c.send(errorEvent(cerr))
		return
	}

	h.log.Info().Str("user_id", c.UserID).Str("partner", end.PartnerID).Msg("call ended")

	h.registry.SendToUser(end.PartnerID, &Event{
		Kind: EventCallEnded,
		Call: &CallSignal{UserID: c.UserID},
	})
}

func (h *Hub) handleICECandidate(c *Client, ice *ICECandidate) {
	if cerr := h.calls.VerifySignalPath(c.UserID, ice.TargetUserID); cerr != nil {
		c.send(errorEvent(cerr))
		return
	}

	candidate := ice.Candidate
	h.registry.SendToUser(ice.TargetUserID, &Event{
		Kind: EventICECandidate,
		Call: &CallSignal{Candidate: &candidate, UserID: c.UserID},
	})
}
