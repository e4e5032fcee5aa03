package sim

import "math"

// Input is the normalized per-tick control signal. Raw device handling
// (keys, touch, deadzones) happens outside the core.
type Input struct {
	Turn   float64 // [-1,1]
	Assist float64 // [-1,1]
}

// Result is the per-tick outcome. A terminal result ends the session from
// the caller's perspective; the session never auto-resets.
type Result struct {
	GameOver bool
}

// Session composes locomotion, spawning, collision, and scoring into one
// fixed-tick world update. One session simulates exactly one snake and is
// advanced serially by its caller.
type Session struct {
	cfg      Config
	snake    *Snake
	spawner  *Spawner
	grid     *Grid
	resolver Resolver
	score    ScoreState
	bus      *EventBus

	powerup    PowerupKind
	powerupTTL float64
	elapsed    float64
	grace      float64
	speed      float64
}

func NewSession(cfg Config, seed uint64) *Session {
	cfg.sanitize()
	s := &Session{cfg: cfg}
	s.snake = NewSnake(&s.cfg)
	s.spawner = NewSpawner(&s.cfg, seed)
	s.grid = NewGrid(&s.cfg)
	s.resolver = NewResolver(&s.cfg)
	s.score = NewScoreState(&s.cfg)
	s.bus = NewEventBus()
	s.Reset()
	return s
}

// Events exposes the bus for external consumers (camera shake, audio cues,
// HUD). The session runs identically with no subscribers.
func (s *Session) Events() *EventBus {
	return s.bus
}

// Update advances the world by one fixed timestep. The step order is a
// strict protocol; reordering changes observable behavior.
func (s *Session) Update(in Input, dt float64) Result {
	if !(dt > 0) {
		return Result{}
	}

	// 1. Time, difficulty, grace.
	s.elapsed += dt
	difficulty := clampF(s.elapsed/s.cfg.DifficultyRampSec, 0, 1)
	if s.grace > 0 {
		s.grace -= dt
		if s.grace < 0 {
			s.grace = 0
		}
	}

	// 2. Power-up timer.
	if s.powerup != PowerupNone {
		s.powerupTTL -= dt
		if s.powerupTTL <= 0 {
			s.powerup = PowerupNone
			s.powerupTTL = 0
		}
	}

	// 3. Locomotion at difficulty-ramped speed.
	speed := lerpF(s.cfg.BaseSpeed, s.cfg.MaxSpeed, difficulty)
	if s.powerup == PowerupSpeed {
		speed *= s.cfg.SpeedBoostMult
	}
	turnRate := s.cfg.TurnRate * (1 + s.cfg.AssistTurnBonus*clampF(in.Assist, -1, 1))
	s.snake.Advance(dt, in.Turn, speed, turnRate)
	s.speed = speed
	s.grid.Rebuild(s.snake.Segments)

	// 4. Magnet effect before spawning sees food positions.
	if s.powerup == PowerupMagnet {
		s.spawner.AttractFoods(s.snake.Head, s.cfg.MagnetStrength, dt)
	}

	// 5. Population control.
	s.spawner.Update(dt, difficulty, s.snake, s.grid)

	// 6. Combo window countdown. Speed boost doubles as score overdrive.
	extBonus := 0.0
	if s.powerup == PowerupSpeed {
		extBonus = s.cfg.SpeedScoreBonus
	}
	comboChanged := s.score.Decay(dt)

	// 7. Food pickup.
	if i, ok := s.resolver.FoodAt(s.snake.Head, s.spawner.Foods); ok {
		s.spawner.RemoveFood(i)
		s.snake.Grow(1)
		pts := s.score.OnFood(extBonus)
		comboChanged = true
		s.bus.Emit(Event{Type: EventFoodPickup, Points: pts})
	}

	// 8. Power-up pickup. A new pickup overwrites any active effect.
	if i, ok := s.resolver.PickupAt(s.snake.Head, s.spawner.Pickups); ok {
		kind := s.spawner.Pickups[i].Kind
		s.spawner.RemovePickup(i)
		s.powerup = kind
		s.powerupTTL = s.cfg.powerupDuration(kind)
		pts := s.score.OnPowerup(extBonus)
		s.bus.Emit(Event{Type: EventPowerupPickup, Powerup: kind, Points: pts})
	}

	// 9. Combo notification.
	if comboChanged {
		s.bus.Emit(Event{Type: EventComboChanged, Combo: s.score.Combo, Multiplier: s.score.Multiplier})
	}

	// 10. Collision gating.
	invulnerable := s.powerup == PowerupPhase || s.grace > 0

	// 11. Self-collision.
	if _, ok := s.resolver.SelfHit(s.snake, s.grid); ok && !invulnerable {
		s.bus.Emit(Event{Type: EventCollision, Collision: CollisionSelf})
		return Result{GameOver: true}
	}

	// 12. Obstacle collision.
	if _, ok := s.resolver.ObstacleHit(s.snake.Head, s.spawner.Obstacles, s.elapsed); ok && !invulnerable {
		s.bus.Emit(Event{Type: EventCollision, Collision: CollisionObstacle})
		return Result{GameOver: true}
	}

	return Result{}
}

// Reset restarts the session at the world center heading along +X.
func (s *Session) Reset() {
	s.ResetAt(Vec3{X: 0, Y: s.cfg.GroundY, Z: 0}, 0)
}

// ResetAt restarts the session at an explicit spawn pose and reseeds every
// subcomponent. Non-finite inputs fall back to the default spawn.
func (s *Session) ResetAt(pos Vec3, heading float64) {
	if !finite(pos.X) || !finite(pos.Y) || !finite(pos.Z) || !finite(heading) {
		pos = Vec3{X: 0, Y: s.cfg.GroundY, Z: 0}
		heading = 0
	}
	s.elapsed = 0
	s.grace = s.cfg.GraceSec
	s.powerup = PowerupNone
	s.powerupTTL = 0
	s.speed = 0
	s.score.Reset()
	s.snake.Reset(pos, heading)
	s.grid.Rebuild(s.snake.Segments)
	s.spawner.Seed(s.snake, s.grid)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
