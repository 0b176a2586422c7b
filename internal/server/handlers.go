// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in chat page.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/process"
)

// WebSocketHandler upgrades GET requests to WebSocket connections and hands
// each new client to the hub.
func WebSocketHandler(hub *Hub) http.HandlerFunc {
	policy := newOriginPolicy(hub.cfg.Origins(), hub.log)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     policy.checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "err", err)
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr)
		if err := hub.Register(client); err != nil {
			hub.log.Warn("Rejecting connection", "addr", r.RemoteAddr, "err", err)
			client.closeConnection()
		}
	}
}

type healthReport struct {
	Status string `json:"status"`
	Stats
	RSSBytes uint64 `json:"rss_bytes,omitempty"`
}

// HealthHandler reports registry counts and the process resident memory.
func HealthHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		report := healthReport{Status: "ok", Stats: hub.Stats()}
		if rss, err := residentMemory(); err == nil {
			report.RSSBytes = rss
		} else {
			hub.log.Debug("Resident memory unavailable", "err", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			hub.log.Warn("Error writing health response", "err", err)
		}
	}
}

func residentMemory() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return mem.RSS, nil
}

// RootHandler upgrades WebSocket handshakes on any path it serves and hands
// every other request to assets.
func RootHandler(ws http.Handler, assets http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			ws.ServeHTTP(w, r)
			return
		}
		assets.ServeHTTP(w, r)
	}
}

// ChatPageHandler serves the built-in browser client at "/" and "/index.html".
func ChatPageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, chatPageHTML)
}

const chatPageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Chat</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #chat-screen { display: none; }
        #layout { display: flex; gap: 20px; }
        #messages {
            border: 1px solid #ccc;
            height: 360px;
            width: 520px;
            padding: 10px;
            overflow-y: scroll;
            background-color: #f9f9f9;
        }
        #user-list { list-style: none; padding: 0; min-width: 140px; }
        .system { color: gray; font-style: italic; }
        .username { font-weight: bold; }
        input[type="text"] { width: 400px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; background-color: #007cba; color: white; border: none; cursor: pointer; }
    </style>
</head>
<body>
    <div id="login-screen">
        <input type="text" id="username" placeholder="Your name">
        <button id="join-btn">Join</button>
    </div>

    <div id="chat-screen">
        <div id="layout">
            <div id="messages"></div>
            <ul id="user-list"></ul>
        </div>
        <input type="text" id="message-input" placeholder="Type a message...">
        <button id="send-btn">Send</button>
    </div>

    <script>
        let ws = null;
        let username = '';

        const loginScreen = document.getElementById('login-screen');
        const chatScreen = document.getElementById('chat-screen');
        const usernameInput = document.getElementById('username');
        const messageInput = document.getElementById('message-input');
        const messagesDiv = document.getElementById('messages');
        const userList = document.getElementById('user-list');

        function connect() {
            const protocol = window.location.protocol === 'https:' ? 'wss:' : 'ws:';
            ws = new WebSocket(protocol + '//' + window.location.host + '/');
            ws.onopen = () => {
                ws.send(JSON.stringify({ type: 'join', username: username }));
            };
            ws.onmessage = (event) => handleMessage(JSON.parse(event.data));
            ws.onclose = () => setTimeout(connect, 3000);
            ws.onerror = (error) => console.error('WebSocket error:', error);
        }

        function handleMessage(data) {
            switch (data.type) {
                case 'chat':
                    append(data.username + ': ' + data.content, 'message');
                    break;
                case 'system':
                    append(data.content, 'message system');
                    break;
                case 'userList':
                    userList.innerHTML = '';
                    data.users.forEach(user => {
                        const li = document.createElement('li');
                        li.textContent = user;
                        userList.appendChild(li);
                    });
                    break;
            }
        }

        function append(text, className) {
            const div = document.createElement('div');
            div.className = className;
            div.textContent = text;
            messagesDiv.appendChild(div);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        function join() {
            username = usernameInput.value.trim();
            if (!username) {
                return;
            }
            loginScreen.style.display = 'none';
            chatScreen.style.display = 'block';
            connect();
        }

        function send() {
            const content = messageInput.value.trim();
            if (content && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'chat', username: username, content: content }));
                messageInput.value = '';
            }
        }

        document.getElementById('join-btn').addEventListener('click', join);
        document.getElementById('send-btn').addEventListener('click', send);
        usernameInput.addEventListener('keypress', e => { if (e.key === 'Enter') join(); });
        messageInput.addEventListener('keypress', e => { if (e.key === 'Enter') send(); });
    </script>
</body>
</html>`
