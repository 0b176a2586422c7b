package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    MessageType
		wantErr error
	}{
		{name: "join", raw: `{"type":"join","username":"Alice"}`, want: TypeJoin},
		{name: "chat", raw: `{"type":"chat","username":"Alice","content":"hi"}`, want: TypeChat},
		{name: "missing type", raw: `{"content":"hi"}`, want: ""},
		{name: "null", raw: `null`, want: ""},
		{name: "plain text", raw: `hi there`, wantErr: ErrMalformedFrame},
		{name: "array", raw: `["join"]`, wantErr: ErrMalformedFrame},
		{name: "numeric type", raw: `{"type":1}`, wantErr: ErrMalformedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			env, err := DecodeEnvelope([]byte(tt.raw))
			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, env.Type)
		})
	}
}

func TestDecodeJoin(t *testing.T) {
	req := require.New(t)

	join, err := DecodeJoin([]byte(`{"type":"join","username":"Alice"}`))
	req.NoError(err)
	req.Equal("Alice", *join.Username)

	// An empty name is well-formed; the registry decides whether to accept it
	join, err = DecodeJoin([]byte(`{"type":"join","username":""}`))
	req.NoError(err)
	req.Equal("", *join.Username)

	_, err = DecodeJoin([]byte(`{"type":"join"}`))
	req.ErrorIs(err, ErrInvalidFrame)

	_, err = DecodeJoin([]byte(`{"type":"join","username":["Alice"]}`))
	req.ErrorIs(err, ErrMalformedFrame)
}

func TestDecodeChat(t *testing.T) {
	req := require.New(t)

	chat, err := DecodeChat([]byte(`{"type":"chat","username":"Alice","content":""}`))
	req.NoError(err)
	req.Equal("Alice", *chat.Username)
	req.Equal("", *chat.Content)

	_, err = DecodeChat([]byte(`{"type":"chat","username":"Alice"}`))
	req.ErrorIs(err, ErrInvalidFrame)

	_, err = DecodeChat([]byte(`{"type":"chat","content":"hi"}`))
	req.ErrorIs(err, ErrInvalidFrame)

	_, err = DecodeChat([]byte(`{"type":"chat","username":"Alice","content":false}`))
	req.ErrorIs(err, ErrMalformedFrame)
}

func TestServerFramesWireFormat(t *testing.T) {
	req := require.New(t)

	chat, err := encode(NewChatMessage("Alice", "hi"))
	req.NoError(err)
	req.JSONEq(`{"type":"chat","username":"Alice","content":"hi"}`, string(chat))

	system, err := encode(NewSystemMessage("Alice 进入了聊天室"))
	req.NoError(err)
	req.JSONEq(`{"type":"system","content":"Alice 进入了聊天室"}`, string(system))

	// An empty room still sends an array, never null
	users, err := encode(NewUserListMessage(nil))
	req.NoError(err)
	req.JSONEq(`{"type":"userList","users":[]}`, string(users))

	var decoded ServerMessage
	req.NoError(json.Unmarshal(chat, &decoded))
	req.Equal(TypeChat, decoded.Type)
}
