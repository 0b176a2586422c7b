package server

//go:generate mockgen -source=endpoint.go -destination=../mocks/mock_endpoint.go -package=mocks

// Endpoint is one open transport connection as seen by the hub. The hub only
// needs to queue outbound frames and to release the endpoint on disconnect.
type Endpoint interface {
	// ID identifies the endpoint in logs.
	ID() string
	// Send queues one frame for delivery. It reports false when the endpoint
	// is no longer open or its outbound queue is full.
	Send(frame []byte) bool
	// Close stops accepting frames. It is safe to call more than once.
	Close()
}

// Responder produces the auto-responder's reply to a chat message.
type Responder interface {
	Reply(content string) string
}
