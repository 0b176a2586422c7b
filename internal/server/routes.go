// Package server wires HTTP handlers into a ServeMux for the chat relay via
// routing helpers.
package server

import "net/http"

// SetupRoutes returns a ServeMux with the WebSocket endpoint on "/" and
// "/ws", the health check, and static assets. Assets come from
// Config.StaticDir when set, otherwise the built-in chat page is served.
func SetupRoutes(hub *Hub) *http.ServeMux {
	ws := WebSocketHandler(hub)

	var assets http.Handler = http.HandlerFunc(ChatPageHandler)
	if hub.cfg.StaticDir != "" {
		assets = http.FileServer(http.Dir(hub.cfg.StaticDir))
	}

	mux := http.NewServeMux()
	mux.Handle("/", RootHandler(ws, assets))
	mux.Handle("/ws", ws)
	mux.Handle("/health", HealthHandler(hub))
	return mux
}
