package relay

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// MaxPlayers bounds concurrent sessions per host.
const MaxPlayers = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production.
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// Server wires websocket upgrades into the hub.
type Server struct {
	hub   *Hub
	conns *ConnManager
}

func NewServer(hub *Hub, conns *ConnManager) *Server {
	return &Server{hub: hub, conns: conns}
}

// HandleWS upgrades a connection, sends the welcome, and blocks in the
// read loop until the client disconnects.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	if s.conns.Count() >= MaxPlayers {
		sendErrorAndClose(ws, "Server full. Please try again later.")
		return
	}
	ws.EnableWriteCompression(true)

	conn := NewConn(ws)
	s.conns.Add(conn)
	log.Printf("player connected: %s", conn.ID)

	cfg := s.hub.cfg
	_ = conn.Send(WelcomeMsg{
		Type:     MsgWelcome,
		ID:       conn.ID,
		Width:    cfg.WorldWidth,
		Depth:    cfg.WorldDepth,
		TickRate: TickRate,
	})

	conn.ReadLoop(
		func(c *Conn, name string) {
			s.hub.Join(c, name)
		},
		func(c *Conn) {
			s.conns.Remove(c.ID)
			s.hub.Leave(c)
			log.Printf("player disconnected: %s", c.ID)
		},
	)
}
