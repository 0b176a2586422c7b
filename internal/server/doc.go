// Package server implements the chat relay: the session registry, the JSON
// frame protocol, the hub event loop that fans frames out to every open
// WebSocket endpoint, and the HTTP surface that upgrades connections.
//
// The implementation is organized into specialized files for configuration,
// the registry, the hub, dispatch, clients, routing and HTTP handlers.
package server
