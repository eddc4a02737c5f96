package engine

import "time"

// Seat binds one of the two colors to a connection. An empty Socket means
// the seat has not been assigned yet.
type Seat struct {
	Socket   string `json:"socket"`
	Username string `json:"username"`
}

// Empty reports whether the seat is unassigned.
func (s Seat) Empty() bool {
	return s.Socket == ""
}

// Game is the authoritative state of one two-seat board game. Field names
// match the wire format broadcast in game_update payloads.
type Game struct {
	PlayerWhite  Seat   `json:"player_white"`
	PlayerBlack  Seat   `json:"player_black"`
	WhoseTurn    Color  `json:"whose_turn"`
	Board        Board  `json:"board"`
	LastMoveTime int64  `json:"last_move_time"`

	// finished latches once the board fills so the terminal broadcast
	// fires exactly once.
	finished bool
}

// NewGame returns a fresh game: empty board, both seats empty, black to move.
func NewGame() *Game {
	return &Game{
		WhoseTurn:    Black,
		Board:        NewBoard(),
		LastMoveTime: time.Now().UnixMilli(),
	}
}

// Seated reports whether the connection already holds one of the two seats.
func (g *Game) Seated(connID string) bool {
	return g.PlayerWhite.Socket == connID || g.PlayerBlack.Socket == connID
}

// AssignSeat gives the connection the first free seat, white before black.
// It is idempotent: an already-seated connection keeps its seat. The second
// return is false when both seats are held by other connections, meaning the
// caller should evict this connection from the game channel.
func (g *Game) AssignSeat(connID, username string) (Color, bool) {
	if g.PlayerWhite.Socket == connID {
		return White, true
	}
	if g.PlayerBlack.Socket == connID {
		return Black, true
	}
	if g.PlayerWhite.Empty() {
		g.PlayerWhite = Seat{Socket: connID, Username: username}
		return White, true
	}
	if g.PlayerBlack.Empty() {
		g.PlayerBlack = Seat{Socket: connID, Username: username}
		return Black, true
	}
	return "", false
}

// ApplyMove writes the claimed color's marker at (row, col) and flips the
// turn. An unrecognized color leaves the game untouched; the claimed color
// is not cross-checked against the seat assignment or the current turn,
// matching the protocol's client-trust model. Bounds are the caller's
// responsibility.
func (g *Game) ApplyMove(row, col int, color Color) {
	if !color.Recognized() {
		return
	}
	g.Board.Set(row, col, color.Marker())
	g.WhoseTurn = color.Opposite()
	g.LastMoveTime = time.Now().UnixMilli()
}

// FinishIfFull latches the terminal state when the board is full. It returns
// true only on the transition, so the game_over broadcast fires once.
func (g *Game) FinishIfFull() bool {
	if g.finished || !g.Board.Full() {
		return false
	}
	g.finished = true
	return true
}

// Finished reports whether the terminal state has been reached.
func (g *Game) Finished() bool {
	return g.finished
}
