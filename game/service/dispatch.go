package service

import (
	"encoding/json"

	"go.uber.org/zap"
)

// HandleEvent decodes an inbound frame's payload and routes it to the
// matching command handler. A payload that fails to decode is answered
// with the command's failure response; an unknown event is logged and
// dropped.
func (s *Service) HandleEvent(connID, event string, payload []byte) {
	switch event {
	case EventJoinRoom:
		var req JoinRoomRequest
		if !s.decode(connID, EventJoinRoomResponse, payload, &req) {
			return
		}
		s.JoinRoom(connID, req)

	case EventInvite:
		var req PeerRequest
		if !s.decode(connID, EventInviteResponse, payload, &req) {
			return
		}
		s.Invite(connID, req)

	case EventUninvite:
		var req PeerRequest
		if !s.decode(connID, EventUninvited, payload, &req) {
			return
		}
		s.Uninvite(connID, req)

	case EventGameStart:
		var req PeerRequest
		if !s.decode(connID, EventGameStartResponse, payload, &req) {
			return
		}
		s.GameStart(connID, req)

	case EventSendChatMessage:
		var req ChatRequest
		if !s.decode(connID, EventSendChatMessageResponse, payload, &req) {
			return
		}
		s.SendChatMessage(connID, req)

	case EventPlayToken:
		var req PlayTokenRequest
		if !s.decode(connID, EventPlayTokenResponse, payload, &req) {
			return
		}
		s.PlayToken(connID, req)

	default:
		s.logger.Warn("unknown event",
			zap.String("socket_id", connID), zap.String("event", event))
	}
}

// decode unmarshals a command payload, reporting a failure response for the
// command when the payload is malformed. An empty payload decodes to the
// zero request, which the handlers reject field by field.
func (s *Service) decode(connID, failEvent string, payload []byte, req any) bool {
	if len(payload) == 0 {
		return true
	}
	if err := json.Unmarshal(payload, req); err != nil {
		s.mu.Lock()
		s.fail(connID, failEvent, "client sent a malformed payload")
		s.mu.Unlock()
		return false
	}
	return true
}
