package relay

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"serpent/internal/sim"
)

// Conn manages a single WebSocket player session. The latest input is a
// mailbox the game loop reads once per tick.
type Conn struct {
	ID     string
	Name   string
	ws     *websocket.Conn
	input  sim.Input
	mu     sync.Mutex // protects input and ws writes
	closed bool
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it as a text message.
func (c *Conn) Send(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// SendBinary writes a pre-encoded binary frame (msgpack state).
func (c *Conn) SendBinary(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

// GetInput returns the current input mailbox value.
func (c *Conn) GetInput() sim.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

func (c *Conn) setInput(turn, assist float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Turn = turn
	c.input.Assist = assist
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.ws.Close()
}

// ReadLoop handles incoming messages until the client disconnects.
// onJoin fires for join messages (including respawn requests); onDisconnect
// fires once when the connection closes.
func (c *Conn) ReadLoop(onJoin func(c *Conn, name string), onDisconnect func(c *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}

		switch msg.Type {
		case MsgJoin:
			name := msg.Name
			if name == "" {
				name = "Player"
			}
			c.Name = name
			onJoin(c, name)

		case MsgInput:
			c.setInput(msg.Turn, msg.Assist)
		}
	}
}

// ConnManager tracks all active connections.
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

func (m *ConnManager) Get(id string) (*Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of the current connection list.
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}
