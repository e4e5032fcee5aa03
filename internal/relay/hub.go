package relay

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"serpent/internal/sim"
)

const (
	// TickRate is the fixed simulation rate. The wall-clock loop converts
	// variable frame time into whole ticks of 1/TickRate seconds.
	TickRate = 60
	// BroadcastEvery throttles state frames to half the tick rate.
	BroadcastEvery = 2
	// MaxFrameDelta clamps a stalled frame so the accumulator cannot
	// spiral into an unbounded tick burst.
	MaxFrameDelta = 0.25
)

// playerSession pairs one connection with its own authoritative session.
// Each player's world is simulated independently; the only cross-player
// interaction is the snapshot exchange in broadcast.
type playerSession struct {
	sess      *sim.Session
	conn      *Conn
	name      string
	gameOver  bool
	lastDeath sim.CollisionKind
	pending   []EventMsg
}

// Hub drives every player session at a fixed timestep and relays state.
type Hub struct {
	cfg   sim.Config
	conns *ConnManager

	mu      sync.Mutex
	players map[string]*playerSession
	tick    uint64
	seedSeq uint64
	seed    uint64
}

func NewHub(cfg sim.Config, seed uint64, conns *ConnManager) *Hub {
	return &Hub{
		cfg:     cfg,
		conns:   conns,
		players: make(map[string]*playerSession),
		seed:    seed,
	}
}

// Join creates a session for a new player, or respawns an existing one.
func (h *Hub) Join(c *Conn, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.players[c.ID]; ok {
		p.name = name
		p.gameOver = false
		p.sess.Reset()
		log.Printf("player %s (%s) respawned", name, c.ID)
		return
	}

	h.seedSeq++
	p := &playerSession{
		sess: sim.NewSession(h.cfg, h.seed^h.seedSeq*0x9E3779B185EBCA87),
		conn: c,
		name: name,
	}
	bus := p.sess.Events()
	bus.Subscribe(sim.EventFoodPickup, func(e sim.Event) {
		p.pending = append(p.pending, EventMsg{Type: MsgEvent, Event: int(e.Type), Points: e.Points})
	})
	bus.Subscribe(sim.EventPowerupPickup, func(e sim.Event) {
		p.pending = append(p.pending, EventMsg{Type: MsgEvent, Event: int(e.Type), Kind: int(e.Powerup), Points: e.Points})
	})
	bus.Subscribe(sim.EventComboChanged, func(e sim.Event) {
		p.pending = append(p.pending, EventMsg{Type: MsgEvent, Event: int(e.Type), Combo: e.Combo, Multiplier: e.Multiplier})
	})
	bus.Subscribe(sim.EventCollision, func(e sim.Event) {
		p.lastDeath = e.Collision
	})
	h.players[c.ID] = p
	log.Printf("player %s (%s) joined", name, c.ID)
}

// Leave drops a player's session.
func (h *Hub) Leave(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.players, c.ID)
}

// Run blocks, advancing all sessions at the fixed timestep until stop
// closes. Accumulator pattern: real frame time is clamped and converted
// into a whole number of fixed-dt ticks.
func (h *Hub) Run(stop <-chan struct{}) {
	const dt = 1.0 / float64(TickRate)
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()
	log.Printf("hub running at %d ticks/sec", TickRate)

	last := time.Now()
	acc := 0.0
	for {
		var now time.Time
		select {
		case <-stop:
			return
		case now = <-ticker.C:
		}
		frame := now.Sub(last).Seconds()
		last = now
		if frame > MaxFrameDelta {
			frame = MaxFrameDelta
		}
		acc += frame
		for acc >= dt {
			h.Step(dt)
			acc -= dt
		}
	}
}

// Step advances every live session by one fixed tick and broadcasts on the
// throttle boundary. Exposed for tests; Run is the production driver.
func (h *Hub) Step(dt float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tick++

	for _, p := range h.players {
		if p.gameOver {
			continue
		}
		res := p.sess.Update(p.conn.GetInput(), dt)

		for _, ev := range p.pending {
			if err := p.conn.Send(ev); err != nil {
				log.Printf("event send to %s: %v", p.conn.ID, err)
				break
			}
		}
		p.pending = p.pending[:0]

		if res.GameOver {
			p.gameOver = true
			snap := p.sess.Snapshot()
			_ = p.conn.Send(DeathMsg{Type: MsgDeath, Cause: int(p.lastDeath), Score: snap.Score})
			log.Printf("player %s died (%d) with score %d", p.name, int(p.lastDeath), snap.Score)
		}
	}

	if h.tick%BroadcastEvery == 0 {
		h.broadcast()
	}
}

// broadcast sends each player their own world plus peer snapshots. Peers
// are rendered from this relayed state on the client, never simulated.
func (h *Hub) broadcast() {
	ids := make([]string, 0, len(h.players))
	snaps := make(map[string]sim.Snapshot, len(h.players))
	for id, p := range h.players {
		ids = append(ids, id)
		snaps[id] = p.sess.Snapshot()
	}
	sort.Strings(ids)

	for id, p := range h.players {
		frame := StateFrame{
			Tick: h.tick,
			You:  WorldFromSnapshot(snaps[id], p.gameOver),
		}
		for _, peerID := range ids {
			if peerID == id {
				continue
			}
			frame.Peers = append(frame.Peers, PeerFromSnapshot(peerID, h.players[peerID].name, snaps[peerID]))
		}
		data, err := msgpack.Marshal(&frame)
		if err != nil {
			log.Printf("state encode for %s: %v", id, err)
			continue
		}
		if err := p.conn.SendBinary(data); err != nil {
			log.Printf("state send to %s: %v", id, err)
		}
	}
}
