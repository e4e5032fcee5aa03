package sim

// Snapshot is a deep copy of everything an external consumer (renderer,
// network serializer) needs. No slice aliases internal state; consumers
// can mutate a snapshot freely without corrupting the simulation.
type Snapshot struct {
	Head       Vec3
	Heading    float64
	AngularVel float64
	Speed      float64
	Speed01    float64 // normalized for camera/FOV reactions

	Segments  []Segment
	Foods     []Food
	Pickups   []Pickup
	Obstacles []Obstacle

	Score      int
	Combo      int
	Multiplier float64

	Powerup    PowerupKind
	PowerupTTL float64

	Elapsed float64
}

// Snapshot copies the current world state.
func (s *Session) Snapshot() Snapshot {
	speed01 := 0.0
	if s.cfg.MaxSpeed > s.cfg.BaseSpeed {
		speed01 = clampF((s.speed-s.cfg.BaseSpeed)/(s.cfg.MaxSpeed-s.cfg.BaseSpeed), 0, 1)
	}
	snap := Snapshot{
		Head:       s.snake.Head,
		Heading:    s.snake.Heading,
		AngularVel: s.snake.AngularVel,
		Speed:      s.snake.Speed,
		Speed01:    speed01,

		Segments:  make([]Segment, len(s.snake.Segments)),
		Foods:     make([]Food, len(s.spawner.Foods)),
		Pickups:   make([]Pickup, len(s.spawner.Pickups)),
		Obstacles: make([]Obstacle, len(s.spawner.Obstacles)),

		Score:      s.score.Score,
		Combo:      s.score.Combo,
		Multiplier: s.score.Multiplier,

		Powerup:    s.powerup,
		PowerupTTL: s.powerupTTL,

		Elapsed: s.elapsed,
	}
	copy(snap.Segments, s.snake.Segments)
	copy(snap.Foods, s.spawner.Foods)
	copy(snap.Pickups, s.spawner.Pickups)
	copy(snap.Obstacles, s.spawner.Obstacles)
	return snap
}
