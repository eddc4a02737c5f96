// Package api assembles the HTTP surface: the websocket upgrade endpoint,
// a health probe, and the static client files.
package api
