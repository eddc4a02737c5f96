// Package service is the coordination core: it validates protocol commands,
// keeps the player and game registries consistent, assigns the two colored
// seats, applies moves, and pushes authoritative state to room members.
package service
