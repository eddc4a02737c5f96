// Package websocket is the connection transport for the game protocol. It
// owns the live connections and the named broadcast channels (rooms) they
// subscribe to, and it hands inbound event frames to a protocol handler.
// The coordination core consumes it only through join, leave, enumerate,
// and broadcast operations.
package websocket
