// Package session manages the registry of live games: creation keyed by
// game id, id minting, and delayed expiry of finished games.
package session
