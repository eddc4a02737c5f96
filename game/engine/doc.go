// Package engine holds the board-game state: the 8x8 token board, the two
// colored seats, and the turn-alternation rules applied to each move.
package engine
