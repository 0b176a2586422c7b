// Package client is a terminal chat client for the relay. It joins on every
// (re)connect, relays input lines as chat messages, prints what the server
// broadcasts, and reconnects after a fixed delay when the connection drops.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Tyrowin/chatrelay/internal/server"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

type Client struct {
	cfg      Config
	log      *slog.Logger
	renderer Renderer
	dialer   websocket.Dialer
}

func New(cfg Config, log *slog.Logger, out io.Writer) *Client {
	return &Client{
		cfg:      cfg,
		log:      log,
		renderer: NewRenderer(out, cfg.Colours),
		dialer:   websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}
}

// Run keeps a session open until ctx is done. Lines read from in are sent as
// chat messages; blank lines are skipped.
func (c *Client) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go c.readLines(ctx, in, lines)

	for {
		err := c.session(ctx, lines)
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn("Connection lost, reconnecting", "err", err, "delay", c.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) readLines(ctx context.Context, in io.Reader, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
}

// session runs one connection: join, then relay input and output until the
// connection fails or ctx is done.
func (c *Client) session(ctx context.Context, lines <-chan string) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	join := server.JoinRequest{Type: server.TypeJoin, Username: lo.ToPtr(c.cfg.Username)}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	c.log.Info("Joined", "url", c.cfg.URL, "username", c.cfg.Username)

	readErr := make(chan error, 1)
	go c.readFrames(conn, readErr)

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return ctx.Err()

		case err := <-readErr:
			return err

		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			chat := server.ChatRequest{
				Type:     server.TypeChat,
				Username: lo.ToPtr(c.cfg.Username),
				Content:  lo.ToPtr(line),
			}
			if err := conn.WriteJSON(chat); err != nil {
				return fmt.Errorf("send chat: %w", err)
			}
		}
	}
}

func (c *Client) readFrames(conn *websocket.Conn, readErr chan<- error) {
	for {
		var msg server.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			readErr <- err
			return
		}
		c.renderer.Render(msg)
	}
}
