package http

import (
	"encoding/json"

	"github.com/peerwave/peerwave-server/internal/core"
	"github.com/peerwave/peerwave-server/internal/proto"
	"github.com/peerwave/peerwave-server/internal/store"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinChatRoom:
		var join proto.JoinChatRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandJoinChatRoom,
			Join: &core.JoinChatRoom{User1ID: join.User1ID, User2ID: join.User2ID},
		}, nil, nil
	case proto.InboundTypeSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Message: &core.SendMessage{
				SenderID:   msg.SenderID,
				ReceiverID: msg.ReceiverID,
				Content:    msg.Content,
				FileURL:    msg.FileURL,
				FileType:   msg.FileType,
			},
		}, nil, nil
	case proto.InboundTypeCallUser:
		var call proto.CallUserData
		if err := json.Unmarshal(inbound.Data, &call); err != nil {
			return nil, nil, err
		}
		if call.CalleeID == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "calleeId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandCallUser,
			Call: &core.CallUser{
				CalleeID: call.CalleeID,
				Offer:    call.Offer,
				Caller: store.UserSummary{
					ID:        call.Caller.ID,
					Name:      call.Caller.Name,
					AvatarURL: call.Caller.AvatarURL,
				},
				IsVideo: call.IsVideo,
			},
		}, nil, nil
	case proto.InboundTypeAnswerCall:
		var answer proto.AnswerCallData
		if err := json.Unmarshal(inbound.Data, &answer); err != nil {
			return nil, nil, err
		}
		if answer.CallerID == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "callerId is required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandAnswerCall,
			Answer: &core.AnswerCall{CallerID: answer.CallerID, Answer: answer.Answer},
		}, nil, nil
	case proto.InboundTypeRejectCall:
		var reject proto.RejectCallData
		if err := json.Unmarshal(inbound.Data, &reject); err != nil {
			return nil, nil, err
		}
		if reject.CallerID == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "callerId is required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandRejectCall,
			Reject: &core.RejectCall{CallerID: reject.CallerID},
		}, nil, nil
	case proto.InboundTypeEndCall:
		var end proto.EndCallData
		if err := json.Unmarshal(inbound.Data, &end); err != nil {
			return nil, nil, err
		}
		if end.PartnerID == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "partnerId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandEndCall,
			End:  &core.EndCall{PartnerID: end.PartnerID},
		}, nil, nil
	case proto.InboundTypeIceCandidate:
		var ice proto.IceCandidateData
		if err := json.Unmarshal(inbound.Data, &ice); err != nil {
			return nil, nil, err
		}
		if ice.TargetUserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "targetUserId is required"}, nil
		}
		return &core.Command{
			Kind:      core.CommandICECandidate,
			Candidate: &core.ICECandidate{TargetUserID: ice.TargetUserID, Candidate: ice.Candidate},
		}, nil, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventReceiveMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data:  messagePayload(event.Message),
		}
	case core.EventNewNotification:
		n := event.Notification
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNewNotification,
			Data: proto.NotificationPayload{
				ID:         n.Notification.ID,
				SenderID:   n.Notification.SenderID,
				ReceiverID: n.Notification.ReceiverID,
				Message:    n.Notification.Message,
				IsRead:     n.Notification.IsRead,
				CreatedAt:  n.Notification.CreatedAt.Unix(),
				Sender:     userSummaryPayload(n.Sender),
			},
		}
	case core.EventUserStatus:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserStatus,
			Data: proto.UserStatusPayload{
				UserID: event.Status.UserID,
				Status: event.Status.Status,
			},
		}
	case core.EventReceiveCall:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveCall,
			Data: proto.ReceiveCallPayload{
				Offer:   *event.Call.Offer,
				Caller:  userSummaryPayload(*event.Call.Caller),
				IsVideo: event.Call.IsVideo,
			},
		}
	case core.EventCallAnswered:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallAnswered,
			Data:  proto.CallAnsweredPayload{Answer: *event.Call.Answer},
		}
	case core.EventCallRejected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallRejected,
			Data:  proto.CallPeerPayload{UserID: event.Call.UserID},
		}
	case core.EventCallEnded:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallEnded,
			Data:  proto.CallPeerPayload{UserID: event.Call.UserID},
		}
	case core.EventCallError:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallError,
			Data:  proto.CallErrorPayload{Message: event.Call.Message},
		}
	case core.EventICECandidate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventIceCandidate,
			Data: proto.IceCandidatePayload{
				Candidate: *event.Call.Candidate,
				SenderID:  event.Call.UserID,
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func messagePayload(msg *store.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		FileURL:    msg.FileURL,
		FileType:   msg.FileType,
		Seen:       msg.Seen,
		CreatedAt:  msg.CreatedAt.Unix(),
	}
}

func userSummaryPayload(s store.UserSummary) proto.UserSummary {
	return proto.UserSummary{ID: s.ID, Name: s.Name, AvatarURL: s.AvatarURL}
}
