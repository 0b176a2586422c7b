// Package server defines the JSON frame types exchanged between chat clients
// and the relay, plus the decoding helpers used by dispatch.
package server

import (
	"encoding/json"
	"fmt"
)

// MessageType is the discriminator carried in the "type" field of every frame.
type MessageType string

const (
	TypeJoin     MessageType = "join"
	TypeChat     MessageType = "chat"
	TypeSystem   MessageType = "system"
	TypeUserList MessageType = "userList"
)

// Envelope is the part of an inbound frame needed to pick a handler.
type Envelope struct {
	Type MessageType `json:"type"`
}

// JoinRequest announces the display name of the sending connection.
type JoinRequest struct {
	Type     MessageType `json:"type"`
	Username *string     `json:"username" validate:"required"`
}

// ChatRequest is a chat line sent by a client. The username is taken from the
// payload, not from the session.
type ChatRequest struct {
	Type     MessageType `json:"type"`
	Username *string     `json:"username" validate:"required"`
	Content  *string     `json:"content" validate:"required"`
}

// ChatMessage is the relayed chat frame.
type ChatMessage struct {
	Type     MessageType `json:"type"`
	Username string      `json:"username"`
	Content  string      `json:"content"`
}

// SystemMessage is a presence announcement.
type SystemMessage struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// UserListMessage carries the display names of every current session.
type UserListMessage struct {
	Type  MessageType `json:"type"`
	Users []string    `json:"users"`
}

// ServerMessage is the union of every frame the server emits. Clients decode
// into it and switch on Type.
type ServerMessage struct {
	Type     MessageType `json:"type"`
	Username string      `json:"username,omitempty"`
	Content  string      `json:"content,omitempty"`
	Users    []string    `json:"users,omitempty"`
}

func NewChatMessage(username, content string) ChatMessage {
	return ChatMessage{Type: TypeChat, Username: username, Content: content}
}

func NewSystemMessage(content string) SystemMessage {
	return SystemMessage{Type: TypeSystem, Content: content}
}

// NewUserListMessage never encodes users as null.
func NewUserListMessage(users []string) UserListMessage {
	if users == nil {
		users = []string{}
	}
	return UserListMessage{Type: TypeUserList, Users: users}
}

// DecodeEnvelope reads the discriminator of a raw frame. A frame that is not a
// JSON object yields ErrMalformedFrame; a missing type yields an empty Type.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	return env, nil
}

// DecodeJoin parses and validates a join frame.
func DecodeJoin(raw []byte) (JoinRequest, error) {
	var req JoinRequest
	if err := decodeInto(raw, &req); err != nil {
		return JoinRequest{}, err
	}
	return req, nil
}

// DecodeChat parses and validates a chat frame.
func DecodeChat(raw []byte) (ChatRequest, error) {
	var req ChatRequest
	if err := decodeInto(raw, &req); err != nil {
		return ChatRequest{}, err
	}
	return req, nil
}

func decodeInto(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	return nil
}

func encode(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return payload, nil
}
