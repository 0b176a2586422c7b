package server

const (
	joinedFormat = "%s 进入了聊天室"
	leftFormat   = "%s 离开了聊天室"
)

// handleFrame decodes one inbound frame and routes it by type. Malformed
// frames are logged and dropped; unknown or missing types are ignored.
// Neither closes the connection.
func (h *Hub) handleFrame(from Endpoint, raw []byte) {
	envelope, err := DecodeEnvelope(raw)
	if err != nil {
		h.log.Warn("Discarding malformed frame", "conn", from.ID(), "err", err)
		return
	}

	switch envelope.Type {
	case TypeJoin:
		h.handleJoin(from, raw)
	case TypeChat:
		h.handleChat(from, raw)
	default:
		h.log.Debug("Ignoring frame", "conn", from.ID(), "type", envelope.Type)
	}
}

func (h *Hub) handleJoin(from Endpoint, raw []byte) {
	req, err := DecodeJoin(raw)
	if err != nil {
		h.log.Warn("Discarding join frame", "conn", from.ID(), "err", err)
		return
	}

	session, ok := h.registry.Join(from, *req.Username)
	if !ok {
		h.log.Debug("Rejected join without a usable name", "conn", from.ID())
		return
	}

	h.log.Info("Participant joined", "conn", from.ID(), "username", session.Name)
	h.announceMembership(joinedFormat, session.Name)
}

func (h *Hub) handleChat(from Endpoint, raw []byte) {
	req, err := DecodeChat(raw)
	if err != nil {
		h.log.Warn("Discarding chat frame", "conn", from.ID(), "err", err)
		return
	}

	username := *req.Username
	if h.cfg.BindChatIdentity {
		session, ok := h.registry.Lookup(from)
		if !ok {
			h.log.Debug("Dropping chat from connection without a session", "conn", from.ID())
			return
		}
		username = session.Name
	}

	h.broadcastMessage(NewChatMessage(username, *req.Content))

	if username == h.cfg.BotName {
		return
	}
	h.scheduleReply(*req.Content)
}

// scheduleReply arranges one bot message after the configured delay. The
// callback goes back through the broadcast queue, so it sees the membership
// at fire time and holds nothing while waiting.
func (h *Hub) scheduleReply(content string) {
	h.after(h.cfg.ReplyDelay, func() {
		frame, err := encode(NewChatMessage(h.cfg.BotName, h.responder.Reply(content)))
		if err != nil {
			h.log.Error("Dropping auto-reply", "err", err)
			return
		}
		if err := h.Broadcast(frame); err != nil {
			h.log.Debug("Auto-reply not delivered", "err", err)
		}
	})
}
