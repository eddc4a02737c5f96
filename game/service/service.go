package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tokenboard/server/config"
	"github.com/tokenboard/server/game/engine"
	"github.com/tokenboard/server/game/player"
	"github.com/tokenboard/server/game/session"
)

// RoomTransport is the connection transport the core consumes: channel
// subscription, membership enumeration, and message delivery. The hub in
// transport/websocket implements it.
type RoomTransport interface {
	Join(connID, room string)
	Leave(connID, room string)
	Members(room string) []string
	Broadcast(room, event string, payload any)
	Send(connID, event string, payload any)
	BroadcastAll(event string, payload any)
}

// Service coordinates rooms, invitations, games, and moves over the
// transport. A single mutex serializes all command handling, preserving
// the protocol's single-writer semantics: membership enumeration, seat
// assignment, and the resulting broadcast happen as one atomic step.
type Service struct {
	mu        sync.Mutex
	transport RoomTransport
	players   *player.Registry
	games     *session.Manager
	logger    *zap.Logger
	cfg       config.GameConfig
}

// NewService wires the coordination core.
func NewService(transport RoomTransport, players *player.Registry, games *session.Manager, cfg config.GameConfig, logger *zap.Logger) *Service {
	return &Service{
		transport: transport,
		players:   players,
		games:     games,
		logger:    logger,
		cfg:       cfg,
	}
}

// serverLog records a protocol-level event and mirrors the line to every
// connected client as a log event, which the stock client renders in its
// debug console.
func (s *Service) serverLog(message string, fields ...zap.Field) {
	s.logger.Info(message, fields...)
	s.transport.BroadcastAll(EventLog, message)
}

// fail reports a per-request failure to the requester only. Failures carry
// no event-specific fields and are never broadcast.
func (s *Service) fail(connID, event, message string) {
	s.transport.Send(connID, event, Response{Result: ResultFail, Message: message})
	s.serverLog(event+" failed: "+message, zap.String("socket_id", connID))
}

// JoinRoom subscribes the connection to a room, registers the player, and
// re-broadcasts one membership message per current member so every client
// converges on the same roster snapshot. Joining any non-lobby room also
// pushes game state, creating the game on first entry and re-syncing late
// joiners.
func (s *Service) JoinRoom(connID string, req JoinRoomRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Room == "" {
		s.fail(connID, EventJoinRoomResponse, "client did not send a valid room to join")
		return
	}
	if req.Username == "" {
		s.fail(connID, EventJoinRoomResponse, "client did not send a valid username to join the chat room")
		return
	}

	s.transport.Join(connID, req.Room)

	// The requester must appear in its own post-join snapshot; anything
	// else is a transport race and the join is reported as failed.
	members := s.transport.Members(req.Room)
	if !contains(members, connID) {
		s.fail(connID, EventJoinRoomResponse, "server error joining the chat room")
		return
	}

	s.players.Register(connID, req.Username, req.Room)

	count := len(members)
	for _, member := range members {
		p, ok := s.players.Lookup(member)
		if !ok {
			// Subscribed but never registered; nothing to announce.
			continue
		}
		s.transport.Broadcast(p.Room, EventJoinRoomResponse, JoinRoomResponse{
			Response: success(),
			Room:     p.Room,
			Username: p.Username,
			Count:    count,
			SocketID: member,
		})
		if p.Room != s.cfg.Lobby {
			s.sendGameUpdate(p.Room, "initial update")
		}
	}
	s.serverLog("join_room succeeded",
		zap.String("socket_id", connID),
		zap.String("room", req.Room),
		zap.String("username", req.Username),
		zap.Int("count", count))
}

// Invite relays an invitation to another member of the requester's room.
func (s *Service) Invite(connID string, req PeerRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.relayToPeer(connID, req, EventInviteResponse, EventInviteResponse, EventInvited) {
		return
	}
	s.serverLog("invite succeeded",
		zap.String("socket_id", connID),
		zap.String("requested_user", req.RequestedUser))
}

// Uninvite withdraws an invitation. Both parties receive an uninvited
// event; the requester's copy doubles as the acknowledgment.
func (s *Service) Uninvite(connID string, req PeerRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.relayToPeer(connID, req, EventUninvited, EventUninvited, EventUninvited) {
		return
	}
	s.serverLog("uninvite succeeded",
		zap.String("socket_id", connID),
		zap.String("requested_user", req.RequestedUser))
}

// relayToPeer implements the shared invite/uninvite handshake: the
// requester must be registered with a room and username, the target must
// currently be in that room. On success the requester receives ackEvent
// carrying the target's id and the target receives peerEvent carrying the
// requester's id. Returns false if the relay failed.
func (s *Service) relayToPeer(connID string, req PeerRequest, failEvent, ackEvent, peerEvent string) bool {
	p, ok := s.players.Lookup(connID)
	if !ok || p.Room == "" {
		s.fail(connID, failEvent, "the requesting user is not in a room")
		return false
	}
	if p.Username == "" {
		s.fail(connID, failEvent, "the requesting user does not have a registered name")
		return false
	}
	if req.RequestedUser == "" {
		s.fail(connID, failEvent, "client did not send a valid user to play with")
		return false
	}
	if !contains(s.transport.Members(p.Room), req.RequestedUser) {
		s.fail(connID, failEvent, "the requested user is no longer in the room")
		return false
	}

	s.transport.Send(connID, ackEvent, PeerResponse{Response: success(), SocketID: req.RequestedUser})
	s.transport.Send(req.RequestedUser, peerEvent, PeerResponse{Response: success(), SocketID: connID})
	return true
}

// GameStart mints a game id and announces it to both parties. It neither
// creates the Game record nor moves either connection: clients must join
// the room named by the game id, and the first resulting state push
// creates the record.
func (s *Service) GameStart(connID string, req PeerRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Lookup(connID)
	if !ok || p.Room == "" {
		s.fail(connID, EventGameStartResponse, "the requesting user is not in a room")
		return
	}
	if p.Username == "" {
		s.fail(connID, EventGameStartResponse, "the requesting user does not have a registered name")
		return
	}
	if req.RequestedUser == "" {
		s.fail(connID, EventGameStartResponse, "client did not request a valid user to engage in play")
		return
	}
	if !contains(s.transport.Members(p.Room), req.RequestedUser) {
		s.fail(connID, EventGameStartResponse, "the requested user is no longer in the room")
		return
	}

	gameID := session.NewGameID()
	response := GameStartResponse{
		Response: success(),
		GameID:   gameID,
		SocketID: req.RequestedUser,
	}
	s.transport.Send(connID, EventGameStartResponse, response)
	s.transport.Send(req.RequestedUser, EventGameStartResponse, response)
	s.serverLog("game_start succeeded",
		zap.String("game_id", gameID),
		zap.String("socket_id", connID),
		zap.String("requested_user", req.RequestedUser))
}

// SendChatMessage broadcasts a chat line to everyone in the named room.
func (s *Service) SendChatMessage(connID string, req ChatRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Room == "" {
		s.fail(connID, EventSendChatMessageResponse, "client did not send a valid room to message")
		return
	}
	if req.Username == "" {
		s.fail(connID, EventSendChatMessageResponse, "client did not send a valid username as a message source")
		return
	}
	if req.Message == "" {
		s.fail(connID, EventSendChatMessageResponse, "client did not send a valid message")
		return
	}

	s.transport.Broadcast(req.Room, EventSendChatMessageResponse, ChatResponse{
		Response: success(),
		Username: req.Username,
		Room:     req.Room,
		Message:  req.Message,
	})
}

// PlayToken applies one token placement for the sender's current game and
// pushes the updated state. The claimed color is applied as-is: it is not
// cross-checked against the seat assignment or the turn, matching the
// protocol's client-trust model. An unrecognized color changes nothing but
// is still acknowledged. Coordinates outside the board are rejected.
func (s *Service) PlayToken(connID string, req PlayTokenRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Lookup(connID)
	if !ok {
		s.fail(connID, EventPlayTokenResponse, "play_token came from an unregistered player")
		return
	}
	if p.Username == "" {
		s.fail(connID, EventPlayTokenResponse, "play_token did not come from a registered username")
		return
	}
	gameID := p.Room
	if gameID == "" {
		s.fail(connID, EventPlayTokenResponse, "there is no game associated with the play_token command")
		return
	}
	if req.Row == nil || !validCoordinate(*req.Row) {
		s.fail(connID, EventPlayTokenResponse, "there was no valid row associated with the play_token command")
		return
	}
	if req.Column == nil || !validCoordinate(*req.Column) {
		s.fail(connID, EventPlayTokenResponse, "there was no valid column associated with the play_token command")
		return
	}
	if req.Color == "" {
		s.fail(connID, EventPlayTokenResponse, "there was no valid color associated with the play_token command")
		return
	}

	game, err := s.games.Get(gameID)
	if errors.Is(err, session.ErrGameNotFound) {
		s.fail(connID, EventPlayTokenResponse, "there is no game associated with the play_token command")
		return
	}

	s.transport.Send(connID, EventPlayTokenResponse, success())

	game.ApplyMove(*req.Row, *req.Column, engine.Color(req.Color))
	s.sendGameUpdate(gameID, "played a token")
}

// HandleDisconnect removes the departed player's record and announces the
// departure to their room. The transport has already dropped the
// connection's subscriptions. Game records are never cleaned up here; only
// the post-completion expiry removes them.
func (s *Service) HandleDisconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Lookup(connID)
	if !ok {
		return
	}

	remaining := s.players.Count() - 1
	s.players.Remove(connID)
	s.transport.Broadcast(p.Room, EventPlayerDisconnected, PlayerDisconnectedPayload{
		Username: p.Username,
		Room:     p.Room,
		Count:    remaining,
		SocketID: connID,
	})
	s.serverLog("player disconnected",
		zap.String("socket_id", connID),
		zap.String("username", p.Username),
		zap.String("room", p.Room))
}

// sendGameUpdate is the single source of truth push for one game channel:
// it creates the game on first use, settles seat assignments against the
// current membership snapshot, evicts anyone beyond the two seats, and
// broadcasts the full game object. When the board fills it emits the
// terminal broadcast exactly once and schedules deletion of the record.
//
// Callers must hold s.mu: assignment is idempotent for a given membership
// set, and holding the lock across enumerate/assign/broadcast removes the
// stale-snapshot races a concurrent join could otherwise introduce.
func (s *Service) sendGameUpdate(gameID, cause string) {
	game, created := s.games.GetOrCreate(gameID)
	if created {
		s.logger.Info("created new game", zap.String("game_id", gameID))
	}

	for _, member := range s.transport.Members(gameID) {
		if game.Seated(member) {
			continue
		}
		username := ""
		if p, ok := s.players.Lookup(member); ok {
			username = p.Username
		}
		color, seated := game.AssignSeat(member, username)
		if !seated {
			// Both seats are taken; the game is strictly two-seat.
			s.logger.Info("evicting extra connection from game",
				zap.String("game_id", gameID), zap.String("socket_id", member))
			s.transport.Leave(member, gameID)
			continue
		}
		s.logger.Info("seat assigned",
			zap.String("game_id", gameID),
			zap.String("color", string(color)),
			zap.String("socket_id", member))
	}

	s.transport.Broadcast(gameID, EventGameUpdate, GameUpdatePayload{
		Result:  ResultSuccess,
		GameID:  gameID,
		Game:    game,
		Message: cause,
	})

	if game.FinishIfFull() {
		s.transport.Broadcast(gameID, EventGameOver, GameOverPayload{
			Result: ResultSuccess,
			GameID: gameID,
			Game:   game,
			WhoWon: "everyone",
		})
		s.games.ScheduleExpiry(gameID, s.cfg.Retention)
		s.serverLog("game over", zap.String("game_id", gameID))
	}
}

func validCoordinate(v int) bool {
	return v >= 0 && v < engine.BoardSize
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
