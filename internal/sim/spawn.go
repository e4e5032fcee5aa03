package sim

import "math"

// Food is a collectible that grows the snake by one segment.
type Food struct {
	ID  int64
	Pos Vec3
}

// PowerupKind identifies a pickup effect. At most one is active at a time.
type PowerupKind int

const (
	PowerupNone PowerupKind = iota
	PowerupSpeed
	PowerupPhase // temporary collision invulnerability
	PowerupMagnet
)

// Pickup is a collectible power-up.
type Pickup struct {
	ID   int64
	Pos  Vec3
	Kind PowerupKind
}

type ObstacleKind int

const (
	ObstacleStatic ObstacleKind = iota
	ObstaclePulsing
)

// Obstacle is a lethal world entity. Pulsing obstacles modulate their
// radius sinusoidally over session time.
type Obstacle struct {
	ID     int64
	Pos    Vec3
	Radius float64
	Kind   ObstacleKind
	Amp    float64
	Freq   float64
	Phase  float64
}

// PulseScale returns the radius multiplier at elapsed session time t.
// Static obstacles always return 1. The hitbox uses the same scale as the
// visual pulse, so the two never disagree.
func (o *Obstacle) PulseScale(t float64) float64 {
	if o.Kind != ObstaclePulsing {
		return 1
	}
	return 1 + o.Amp*(0.5+0.5*math.Sin(o.Freq*t+o.Phase))
}

// Spawner procedurally places food, pickups, and obstacles under
// simultaneous minimum-distance constraints, and grows the obstacle
// population with difficulty. Entity IDs are monotonic and never reused
// within a session.
type Spawner struct {
	cfg *Config
	rng *Rand

	Foods     []Food
	Pickups   []Pickup
	Obstacles []Obstacle

	nextID      int64
	pickupTimer float64
}

func NewSpawner(cfg *Config, seed uint64) *Spawner {
	return &Spawner{
		cfg: cfg,
		rng: NewRand(splitmix64(seed)),
	}
}

// Seed clears every entity and reseeds the session-start population.
// Only here do obstacles honor the forward safe corridor, so the player
// never spawns boxed in.
func (s *Spawner) Seed(sn *Snake, grid *Grid) {
	s.Foods = s.Foods[:0]
	s.Pickups = s.Pickups[:0]
	s.Obstacles = s.Obstacles[:0]
	s.pickupTimer = s.rng.RangeF(s.cfg.PickupDelayMin, s.cfg.PickupDelayMax)

	for len(s.Obstacles) < s.cfg.ObstacleBase {
		s.spawnObstacle(sn, grid, true)
	}
	for len(s.Foods) < s.cfg.FoodTarget {
		s.spawnFood(sn, grid)
	}
}

// Update replenishes food to target, raises the obstacle population toward
// the difficulty-scaled ceiling (add-only), and rolls the pickup timer.
func (s *Spawner) Update(dt, difficulty01 float64, sn *Snake, grid *Grid) {
	for len(s.Foods) < s.cfg.FoodTarget {
		s.spawnFood(sn, grid)
	}

	target := s.cfg.ObstacleBase + int(math.Round(difficulty01*float64(s.cfg.ObstacleMax-s.cfg.ObstacleBase)))
	for len(s.Obstacles) < target {
		s.spawnObstacle(sn, grid, false)
	}

	s.pickupTimer -= dt
	if s.pickupTimer <= 0 {
		if len(s.Pickups) < s.cfg.PickupMax {
			s.spawnPickup(sn, grid)
		}
		s.pickupTimer = s.rng.RangeF(s.cfg.PickupDelayMin, s.cfg.PickupDelayMax)
	}
}

// AttractFoods steps every food toward the head along the shortest wrapped
// direction. The orchestrator calls this only while a magnet power-up is
// active; the spawner itself knows nothing about power-up state.
func (s *Spawner) AttractFoods(head Vec3, strength, dt float64) {
	w, d := s.cfg.WorldWidth, s.cfg.WorldDepth
	for i := range s.Foods {
		f := &s.Foods[i]
		dx := Delta(f.Pos.X, head.X, w)
		dz := Delta(f.Pos.Z, head.Z, d)
		dist := math.Hypot(dx, dz)
		if dist < 1e-6 {
			continue
		}
		step := strength * dt
		if step > dist {
			step = dist
		}
		f.Pos = WrapPos(Vec3{
			X: f.Pos.X + dx/dist*step,
			Y: f.Pos.Y,
			Z: f.Pos.Z + dz/dist*step,
		}, w, d)
	}
}

func (s *Spawner) RemoveFood(i int) {
	s.Foods = append(s.Foods[:i], s.Foods[i+1:]...)
}

func (s *Spawner) RemovePickup(i int) {
	s.Pickups = append(s.Pickups[:i], s.Pickups[i+1:]...)
}

func (s *Spawner) spawnFood(sn *Snake, grid *Grid) {
	pos := s.place(s.cfg.FoodDist, 0, sn, grid, false)
	s.Foods = append(s.Foods, Food{ID: s.nextID, Pos: pos})
	s.nextID++
}

func (s *Spawner) spawnPickup(sn *Snake, grid *Grid) {
	pos := s.place(s.cfg.PickupDist, 0, sn, grid, false)
	kind := PowerupKind(1 + s.rng.Intn(3))
	s.Pickups = append(s.Pickups, Pickup{ID: s.nextID, Pos: pos, Kind: kind})
	s.nextID++
}

func (s *Spawner) spawnObstacle(sn *Snake, grid *Grid, atStart bool) {
	radius := s.rng.RangeF(s.cfg.ObstacleRadiusMin, s.cfg.ObstacleRadiusMax)
	pos := s.place(s.cfg.ObstacleDist, radius, sn, grid, atStart)

	o := Obstacle{ID: s.nextID, Pos: pos, Radius: radius, Kind: ObstacleStatic}
	s.nextID++
	if s.rng.Float64() < s.cfg.PulseChance {
		o.Kind = ObstaclePulsing
		o.Amp = s.rng.RangeF(s.cfg.PulseAmpMin, s.cfg.PulseAmpMax)
		o.Freq = s.rng.RangeF(s.cfg.PulseFreqMin, s.cfg.PulseFreqMax)
		o.Phase = s.rng.RangeF(0, 2*math.Pi)
	}
	s.Obstacles = append(s.Obstacles, o)
}

// place rejection-samples a position satisfying the given distance table.
// extra widens the obstacle check by the radius of the entity being placed.
// When the attempt budget runs out the last candidate is returned without
// constraint guarantees; a rare unsafe spawn beats an unbounded loop.
func (s *Spawner) place(d MinDist, extra float64, sn *Snake, grid *Grid, avoidCorridor bool) Vec3 {
	var pos Vec3
	for i := 0; i < s.cfg.SpawnAttempts; i++ {
		pos = Vec3{
			X: s.rng.RangeF(-s.cfg.WorldWidth/2, s.cfg.WorldWidth/2),
			Y: s.cfg.GroundY,
			Z: s.rng.RangeF(-s.cfg.WorldDepth/2, s.cfg.WorldDepth/2),
		}
		if s.fits(pos, d, extra, sn, grid, avoidCorridor) {
			return pos
		}
	}
	return WrapPos(pos, s.cfg.WorldWidth, s.cfg.WorldDepth)
}

func (s *Spawner) fits(pos Vec3, d MinDist, extra float64, sn *Snake, grid *Grid, avoidCorridor bool) bool {
	w, dep := s.cfg.WorldWidth, s.cfg.WorldDepth

	if Distance(pos, sn.Head, w, dep) < d.Head {
		return false
	}
	if avoidCorridor && s.inSafeCorridor(pos, sn) {
		return false
	}
	if len(grid.NearbySegments(pos, d.Body)) > 0 {
		return false
	}
	for i := range s.Foods {
		if Distance(pos, s.Foods[i].Pos, w, dep) < d.Food {
			return false
		}
	}
	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		if Distance(pos, o.Pos, w, dep) < d.Obstacle+o.Radius+extra {
			return false
		}
	}
	for i := range s.Pickups {
		if Distance(pos, s.Pickups[i].Pos, w, dep) < d.Pickup {
			return false
		}
	}
	return true
}

// inSafeCorridor reports whether pos lies in the forward rectangular strip
// ahead of the head, measured via the wrapped delta projected onto the
// heading vector.
func (s *Spawner) inSafeCorridor(pos Vec3, sn *Snake) bool {
	dx := Delta(sn.Head.X, pos.X, s.cfg.WorldWidth)
	dz := Delta(sn.Head.Z, pos.Z, s.cfg.WorldDepth)
	hx := math.Cos(sn.Heading)
	hz := math.Sin(sn.Heading)
	ahead := dx*hx + dz*hz
	side := dx*hz - dz*hx
	return ahead >= 0 && ahead <= s.cfg.SafeAheadDist && math.Abs(side) <= s.cfg.SafeHalfWidth
}
