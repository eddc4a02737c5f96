// Package player is the registry of connected players: connection id to
// username and current room. Absence of a record is a normal state for a
// connection that has not joined a room yet.
package player
