// Package server coordinates endpoint registration, frame dispatch, fan-out
// and connection cleanup for the chat relay via the Hub type.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Hub owns the session registry and serialises every event that touches it:
// registrations, disconnects, inbound frames and deferred broadcasts are all
// handled one at a time by Run.
type Hub struct {
	cfg        Config
	log        *slog.Logger
	registry   *Registry
	responder  Responder
	after      func(time.Duration, func())
	register   chan *Client
	unregister chan Endpoint
	inbound    chan inboundFrame
	broadcast  chan []byte
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	startedAt  time.Time
}

type inboundFrame struct {
	from    Endpoint
	payload []byte
}

// Stats is a point-in-time view of the registry.
type Stats struct {
	Connections int      `json:"connections"`
	Sessions    int      `json:"sessions"`
	Users       []string `json:"users"`
	Uptime      string   `json:"uptime"`
}

// NewHub creates a hub ready to be started with Run. The responder produces
// the bot replies scheduled after each chat message.
func NewHub(cfg Config, log *slog.Logger, responder Responder) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:       cfg,
		log:       log,
		registry:  NewRegistry(),
		responder: responder,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		register:   make(chan *Client),
		unregister: make(chan Endpoint),
		inbound:    make(chan inboundFrame),
		broadcast:  make(chan []byte),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		startedAt:  time.Now(),
	}
}

// Register hands a freshly upgraded client to the hub, which starts its pumps.
func (h *Hub) Register(c *Client) error {
	select {
	case h.register <- c:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Unregister reports that ep's transport closed.
func (h *Hub) Unregister(ep Endpoint) {
	select {
	case h.unregister <- ep:
	case <-h.ctx.Done():
	}
}

// Submit queues a raw inbound frame received on ep.
func (h *Hub) Submit(ep Endpoint, payload []byte) error {
	select {
	case h.inbound <- inboundFrame{from: ep, payload: payload}:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Broadcast queues an encoded frame for delivery to every open endpoint.
func (h *Hub) Broadcast(frame []byte) error {
	select {
	case h.broadcast <- frame:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Users returns the display names of the current sessions.
func (h *Hub) Users() []string {
	return h.registry.Users()
}

func (h *Hub) Stats() Stats {
	connections, sessions := h.registry.Counts()
	return Stats{
		Connections: connections,
		Sessions:    sessions,
		Users:       NewUserListMessage(h.registry.Users()).Users,
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
	}
}

// Run is the hub's event loop. It returns once Shutdown is called and should
// be started in its own goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.log.Debug("Received nil client registration; skipping")
				continue
			}
			h.attach(client)

		case ep := <-h.unregister:
			h.disconnect(ep)

		case in := <-h.inbound:
			h.handleFrame(in.from, in.payload)

		case frame := <-h.broadcast:
			h.fanout(frame)
		}
	}
}

func (h *Hub) attach(client *Client) {
	h.connect(client)

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

func (h *Hub) connect(ep Endpoint) {
	h.registry.Connect(ep)
	connections, _ := h.registry.Counts()
	h.log.Info("Client registered", "conn", ep.ID(), "clients", connections)
}

func (h *Hub) disconnect(ep Endpoint) {
	session, joined := h.registry.Disconnect(ep)
	ep.Close()

	connections, sessions := h.registry.Counts()
	h.log.Info("Client unregistered", "conn", ep.ID(), "clients", connections, "sessions", sessions)

	if joined {
		h.log.Info("Participant left", "conn", ep.ID(), "username", session.Name)
		h.announceMembership(leftFormat, session.Name)
	}
}

// announceMembership sends the fresh user list followed by the presence line.
func (h *Hub) announceMembership(format, name string) {
	h.broadcastMessage(NewUserListMessage(h.registry.Users()))
	h.broadcastMessage(NewSystemMessage(fmt.Sprintf(format, name)))
}

func (h *Hub) broadcastMessage(msg any) {
	frame, err := encode(msg)
	if err != nil {
		h.log.Error("Dropping broadcast", "err", err)
		return
	}
	h.fanout(frame)
}

// fanout delivers frame to every open endpoint. Endpoints that cannot take the
// frame are skipped; they are removed only when their transport reports close.
func (h *Hub) fanout(frame []byte) {
	endpoints := h.registry.Endpoints()
	delivered := 0
	for _, ep := range endpoints {
		if ep.Send(frame) {
			delivered++
			continue
		}
		h.log.Debug("Skipping endpoint that is not ready", "conn", ep.ID())
	}
	h.log.Debug("Broadcast frame", "targets", len(endpoints), "delivered", delivered)
}

// shutdownClients closes every open endpoint and its transport.
func (h *Hub) shutdownClients() {
	h.log.Info("Shutting down all client connections...")

	endpoints := h.registry.Endpoints()
	for _, ep := range endpoints {
		ep.Close()
		if client, ok := ep.(*Client); ok {
			client.closeConnection()
		}
	}

	h.log.Info("Closed client connections", "clients", len(endpoints))
}

// Shutdown stops Run and waits for all client goroutines to finish, or until
// the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Initiating hub shutdown...")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		h.log.Warn("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
