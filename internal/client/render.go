package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tyrowin/chatrelay/internal/server"
	"github.com/gookit/color"
)

// Renderer prints server frames as terminal lines.
type Renderer struct {
	out     io.Writer
	colours bool
}

func NewRenderer(out io.Writer, colours bool) Renderer {
	return Renderer{out: out, colours: colours}
}

// Render writes one line for msg. Unknown frame types are skipped.
func (r Renderer) Render(msg server.ServerMessage) {
	var line string
	switch msg.Type {
	case server.TypeChat:
		line = r.paint(color.New(color.FgCyan, color.OpBold), msg.Username+":") + " " + msg.Content
	case server.TypeSystem:
		line = r.paint(color.New(color.FgMagenta), "* "+msg.Content)
	case server.TypeUserList:
		line = r.paint(color.New(color.FgYellow), "在线用户: "+strings.Join(msg.Users, ", "))
	default:
		return
	}
	_, _ = fmt.Fprintln(r.out, line)
}

func (r Renderer) paint(style color.Style, text string) string {
	if !r.colours {
		return text
	}
	return style.Render(text)
}
