package sim

// Resolver answers stateless collision queries over current world state.
// Each query returns the first matching entity in iteration order; the
// orchestrator decides what to do with a hit.
type Resolver struct {
	cfg *Config
}

func NewResolver(cfg *Config) Resolver {
	return Resolver{cfg: cfg}
}

// SelfHit reports the first body segment within the self-collision radius
// of the head. Segments nearest the head are skipped so the neck cannot
// trigger a false positive.
func (r Resolver) SelfHit(sn *Snake, grid *Grid) (int, bool) {
	hit := -1
	for _, e := range grid.NearbySegments(sn.Head, r.cfg.SelfCollideRadius) {
		if e.seg < r.cfg.SelfSkipSegments {
			continue
		}
		if hit < 0 || e.seg < hit {
			hit = e.seg
		}
	}
	return hit, hit >= 0
}

// ObstacleHit reports the first obstacle overlapping the head. Pulsing
// obstacles collide at their current pulsed radius, not the base radius.
func (r Resolver) ObstacleHit(head Vec3, obstacles []Obstacle, elapsed float64) (int, bool) {
	for i := range obstacles {
		o := &obstacles[i]
		reach := o.Radius*o.PulseScale(elapsed) + r.cfg.HeadRadius
		if Distance(head, o.Pos, r.cfg.WorldWidth, r.cfg.WorldDepth) <= reach {
			return i, true
		}
	}
	return -1, false
}

// FoodAt reports the first food within pickup range of the head.
func (r Resolver) FoodAt(head Vec3, foods []Food) (int, bool) {
	for i := range foods {
		if Distance(head, foods[i].Pos, r.cfg.WorldWidth, r.cfg.WorldDepth) <= r.cfg.PickupRadius {
			return i, true
		}
	}
	return -1, false
}

// PickupAt reports the first power-up pickup within range of the head.
func (r Resolver) PickupAt(head Vec3, pickups []Pickup) (int, bool) {
	for i := range pickups {
		if Distance(head, pickups[i].Pos, r.cfg.WorldWidth, r.cfg.WorldDepth) <= r.cfg.PickupRadius {
			return i, true
		}
	}
	return -1, false
}
