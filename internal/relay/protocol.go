package relay

import (
	"math"

	"serpent/internal/sim"
)

// Control messages are compact single-char-key JSON; per-tick state frames
// are msgpack-encoded binary websocket messages to keep wire size down.
//
//	Client → Server:
//	  "j" = join   {"t":"j","n":"PlayerName"}
//	  "i" = input  {"t":"i","x":-0.4,"a":1}   (x=turn, a=assist, both [-1,1])
//	Server → Client (JSON):
//	  "w" = welcome {"t":"w","i":"id","w":84,"d":84,"r":60}
//	  "d" = death   {"t":"d","k":0,"p":420}   (k=collision kind)
//	  "v" = event   {"t":"v","e":0,...}       (pickup/combo cues)
//	  "e" = error   {"t":"e","m":"reason"}
//	Server → Client (binary): msgpack StateFrame.
const (
	MsgJoin    = "j"
	MsgInput   = "i"
	MsgWelcome = "w"
	MsgDeath   = "d"
	MsgEvent   = "v"
	MsgError   = "e"
)

// ClientMessage is the base incoming message.
type ClientMessage struct {
	Type   string  `json:"t"`
	Name   string  `json:"n,omitempty"`
	Turn   float64 `json:"x,omitempty"`
	Assist float64 `json:"a,omitempty"`
}

// WelcomeMsg is sent once on connect so the client knows its identity and
// world dimensions.
type WelcomeMsg struct {
	Type     string  `json:"t"`
	ID       string  `json:"i"`
	Width    float64 `json:"w"`
	Depth    float64 `json:"d"`
	TickRate int     `json:"r"`
}

// DeathMsg is sent when a player's session returns a terminal result.
type DeathMsg struct {
	Type  string `json:"t"`
	Cause int    `json:"k"`
	Score int    `json:"p"`
}

// EventMsg forwards a simulation event for client-side camera/audio cues.
type EventMsg struct {
	Type       string  `json:"t"`
	Event      int     `json:"e"`
	Kind       int     `json:"k,omitempty"`
	Combo      int     `json:"c,omitempty"`
	Multiplier float64 `json:"m,omitempty"`
	Points     int     `json:"p,omitempty"`
}

// ErrorMsg is sent before closing a rejected connection.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

// FoodDTO is a wire food entity.
type FoodDTO struct {
	ID int64   `msgpack:"i"`
	X  float64 `msgpack:"x"`
	Z  float64 `msgpack:"z"`
}

// PickupDTO is a wire power-up pickup.
type PickupDTO struct {
	ID   int64   `msgpack:"i"`
	X    float64 `msgpack:"x"`
	Z    float64 `msgpack:"z"`
	Kind int     `msgpack:"k"`
}

// ObstacleDTO carries the pulse parameters so clients animate the exact
// radius the server collides with.
type ObstacleDTO struct {
	ID     int64   `msgpack:"i"`
	X      float64 `msgpack:"x"`
	Z      float64 `msgpack:"z"`
	Radius float64 `msgpack:"r"`
	Pulse  int     `msgpack:"u"`
	Amp    float64 `msgpack:"a,omitempty"`
	Freq   float64 `msgpack:"f,omitempty"`
	Phase  float64 `msgpack:"h,omitempty"`
}

// WorldDTO is one player's own world state.
type WorldDTO struct {
	Head       [3]float64    `msgpack:"h"`
	Heading    float64       `msgpack:"a"`
	Speed01    float64       `msgpack:"v"`
	Segments   [][2]float64  `msgpack:"s"`
	Foods      []FoodDTO     `msgpack:"f"`
	Pickups    []PickupDTO   `msgpack:"k"`
	Obstacles  []ObstacleDTO `msgpack:"o"`
	Score      int           `msgpack:"p"`
	Combo      int           `msgpack:"c"`
	Multiplier float64       `msgpack:"m"`
	Powerup    int           `msgpack:"w"`
	PowerupTTL float64       `msgpack:"l"`
	Elapsed    float64       `msgpack:"e"`
	GameOver   bool          `msgpack:"g"`
}

// PeerDTO is the rendered-only view of another player's snake. Peers are
// not simulated locally; clients draw them straight from this state.
type PeerDTO struct {
	ID       string       `msgpack:"i"`
	Name     string       `msgpack:"n"`
	Segments [][2]float64 `msgpack:"s"`
	Head     [3]float64   `msgpack:"h"`
	Score    int          `msgpack:"p"`
}

// StateFrame is the per-broadcast binary payload.
type StateFrame struct {
	Tick  uint64    `msgpack:"t"`
	You   WorldDTO  `msgpack:"y"`
	Peers []PeerDTO `msgpack:"p"`
}

// roundTo1 rounds to 1 decimal place to save wire bytes.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func segmentPairs(segs []sim.Segment) [][2]float64 {
	pairs := make([][2]float64, len(segs))
	for i, s := range segs {
		pairs[i] = [2]float64{roundTo1(s.Pos.X), roundTo1(s.Pos.Z)}
	}
	return pairs
}

// WorldFromSnapshot converts a simulation snapshot to its wire form.
func WorldFromSnapshot(snap sim.Snapshot, gameOver bool) WorldDTO {
	dto := WorldDTO{
		Head:       [3]float64{roundTo1(snap.Head.X), roundTo1(snap.Head.Y), roundTo1(snap.Head.Z)},
		Heading:    roundTo1(snap.Heading),
		Speed01:    snap.Speed01,
		Segments:   segmentPairs(snap.Segments),
		Foods:      make([]FoodDTO, len(snap.Foods)),
		Pickups:    make([]PickupDTO, len(snap.Pickups)),
		Obstacles:  make([]ObstacleDTO, len(snap.Obstacles)),
		Score:      snap.Score,
		Combo:      snap.Combo,
		Multiplier: snap.Multiplier,
		Powerup:    int(snap.Powerup),
		PowerupTTL: snap.PowerupTTL,
		Elapsed:    snap.Elapsed,
		GameOver:   gameOver,
	}
	for i, f := range snap.Foods {
		dto.Foods[i] = FoodDTO{ID: f.ID, X: roundTo1(f.Pos.X), Z: roundTo1(f.Pos.Z)}
	}
	for i, p := range snap.Pickups {
		dto.Pickups[i] = PickupDTO{ID: p.ID, X: roundTo1(p.Pos.X), Z: roundTo1(p.Pos.Z), Kind: int(p.Kind)}
	}
	for i, o := range snap.Obstacles {
		d := ObstacleDTO{ID: o.ID, X: roundTo1(o.Pos.X), Z: roundTo1(o.Pos.Z), Radius: o.Radius}
		if o.Kind == sim.ObstaclePulsing {
			d.Pulse = 1
			d.Amp = o.Amp
			d.Freq = o.Freq
			d.Phase = o.Phase
		}
		dto.Obstacles[i] = d
	}
	return dto
}

// PeerFromSnapshot converts another player's snapshot to the lightweight
// relayed form.
func PeerFromSnapshot(id, name string, snap sim.Snapshot) PeerDTO {
	return PeerDTO{
		ID:       id,
		Name:     name,
		Segments: segmentPairs(snap.Segments),
		Head:     [3]float64{roundTo1(snap.Head.X), roundTo1(snap.Head.Y), roundTo1(snap.Head.Z)},
		Score:    snap.Score,
	}
}
