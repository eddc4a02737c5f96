package service

import "github.com/tokenboard/server/game/engine"

// Inbound event names.
const (
	EventJoinRoom        = "join_room"
	EventInvite          = "invite"
	EventUninvite        = "uninvite"
	EventGameStart       = "game_start"
	EventSendChatMessage = "send_chat_message"
	EventPlayToken       = "play_token"
)

// Outbound event names.
const (
	EventJoinRoomResponse        = "join_room_response"
	EventInviteResponse          = "invite_response"
	EventInvited                 = "invited"
	EventUninvited               = "uninvited"
	EventGameStartResponse       = "game_start_response"
	EventSendChatMessageResponse = "send_chat_message_response"
	EventPlayTokenResponse       = "play_token_response"
	EventGameUpdate              = "game_update"
	EventGameOver                = "game_over"
	EventPlayerDisconnected      = "player_disconnected"
	EventLog                     = "log"
)

// Result values carried by every response payload.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// Response is the common status shape. A failure carries only these two
// fields and is sent to the requester alone, never broadcast.
type Response struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

func success() Response {
	return Response{Result: ResultSuccess}
}

// JoinRoomRequest is the join_room payload.
type JoinRoomRequest struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// JoinRoomResponse is broadcast once per current member after any join, so
// every client's roster converges on the same snapshot.
type JoinRoomResponse struct {
	Response
	Room     string `json:"room,omitempty"`
	Username string `json:"username,omitempty"`
	Count    int    `json:"count,omitempty"`
	SocketID string `json:"socket_id,omitempty"`
}

// PeerRequest is the payload of invite, uninvite, and game_start: the
// connection id of the other party.
type PeerRequest struct {
	RequestedUser string `json:"requested_user"`
}

// PeerResponse acknowledges an invite/uninvite to one party, carrying the
// other party's connection id.
type PeerResponse struct {
	Response
	SocketID string `json:"socket_id,omitempty"`
}

// GameStartResponse is sent to both parties of a successful game_start
// handshake. The clients are responsible for joining the room named by
// GameID; the handshake itself moves no one.
type GameStartResponse struct {
	Response
	GameID   string `json:"game_id,omitempty"`
	SocketID string `json:"socket_id,omitempty"`
}

// ChatRequest is the send_chat_message payload.
type ChatRequest struct {
	Room     string `json:"room"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ChatResponse is broadcast to the whole room.
type ChatResponse struct {
	Response
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PlayTokenRequest is the play_token payload. Row and Column are pointers
// so a missing field is distinguishable from a zero coordinate.
type PlayTokenRequest struct {
	Row    *int   `json:"row"`
	Column *int   `json:"column"`
	Color  string `json:"color"`
}

// GameUpdatePayload is the full-state push broadcast to a game's channel.
type GameUpdatePayload struct {
	Result  string       `json:"result"`
	GameID  string       `json:"game_id"`
	Game    *engine.Game `json:"game"`
	Message string       `json:"message"`
}

// GameOverPayload is the terminal broadcast once the board fills.
type GameOverPayload struct {
	Result string       `json:"result"`
	GameID string       `json:"game_id"`
	Game   *engine.Game `json:"game"`
	WhoWon string       `json:"who_won"`
}

// PlayerDisconnectedPayload announces a departure to the departed player's
// room. Count is the total registered-player count minus the leaver, not a
// per-room count.
type PlayerDisconnectedPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Count    int    `json:"count"`
	SocketID string `json:"socket_id"`
}
