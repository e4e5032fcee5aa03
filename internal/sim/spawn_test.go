package sim

import (
	"math"
	"testing"
)

func newSeededWorld(t *testing.T, cfg *Config, seed uint64) (*Spawner, *Snake, *Grid) {
	t.Helper()
	sn := NewSnake(cfg)
	grid := NewGrid(cfg)
	grid.Rebuild(sn.Segments)
	sp := NewSpawner(cfg, seed)
	sp.Seed(sn, grid)
	return sp, sn, grid
}

func TestSeedPopulations(t *testing.T) {
	cfg := DefaultConfig()
	sp, _, _ := newSeededWorld(t, &cfg, 1)

	if len(sp.Foods) != cfg.FoodTarget {
		t.Errorf("foods = %d, want %d", len(sp.Foods), cfg.FoodTarget)
	}
	if len(sp.Obstacles) != cfg.ObstacleBase {
		t.Errorf("obstacles = %d, want %d", len(sp.Obstacles), cfg.ObstacleBase)
	}
	if len(sp.Pickups) != 0 {
		t.Errorf("pickups = %d at seed, want 0", len(sp.Pickups))
	}
}

func TestSeedRespectsDistances(t *testing.T) {
	cfg := DefaultConfig()
	for seed := uint64(1); seed <= 5; seed++ {
		sp, sn, _ := newSeededWorld(t, &cfg, seed)

		for i, f := range sp.Foods {
			if d := Distance(f.Pos, sn.Head, cfg.WorldWidth, cfg.WorldDepth); d < cfg.FoodDist.Head {
				t.Errorf("seed %d: food %d at %v from head, want >= %v", seed, i, d, cfg.FoodDist.Head)
			}
		}
		for i, o := range sp.Obstacles {
			if d := Distance(o.Pos, sn.Head, cfg.WorldWidth, cfg.WorldDepth); d < cfg.ObstacleDist.Head {
				t.Errorf("seed %d: obstacle %d at %v from head, want >= %v", seed, i, d, cfg.ObstacleDist.Head)
			}
			for j := i + 1; j < len(sp.Obstacles); j++ {
				o2 := sp.Obstacles[j]
				min := cfg.ObstacleDist.Obstacle + o.Radius + o2.Radius
				if d := Distance(o.Pos, o2.Pos, cfg.WorldWidth, cfg.WorldDepth); d < min {
					t.Errorf("seed %d: obstacles %d/%d at %v, want >= %v", seed, i, j, d, min)
				}
			}
		}
	}
}

func TestSeedObstaclesAvoidSafeCorridor(t *testing.T) {
	cfg := DefaultConfig()
	for seed := uint64(1); seed <= 10; seed++ {
		sp, sn, _ := newSeededWorld(t, &cfg, seed)
		hx := math.Cos(sn.Heading)
		hz := math.Sin(sn.Heading)
		for i, o := range sp.Obstacles {
			dx := Delta(sn.Head.X, o.Pos.X, cfg.WorldWidth)
			dz := Delta(sn.Head.Z, o.Pos.Z, cfg.WorldDepth)
			ahead := dx*hx + dz*hz
			side := math.Abs(dx*hz - dz*hx)
			if ahead >= 0 && ahead <= cfg.SafeAheadDist && side <= cfg.SafeHalfWidth {
				t.Errorf("seed %d: obstacle %d inside safe corridor (ahead %v, side %v)", seed, i, ahead, side)
			}
		}
	}
}

func TestFoodReplenishment(t *testing.T) {
	cfg := DefaultConfig()
	sp, sn, grid := newSeededWorld(t, &cfg, 3)

	sp.RemoveFood(0)
	if len(sp.Foods) != cfg.FoodTarget-1 {
		t.Fatalf("foods = %d after removal", len(sp.Foods))
	}
	sp.Update(1.0/60, 0, sn, grid)
	if len(sp.Foods) != cfg.FoodTarget {
		t.Errorf("foods = %d after update, want replenished to %d", len(sp.Foods), cfg.FoodTarget)
	}
}

func TestObstacleCurve(t *testing.T) {
	cfg := DefaultConfig()
	sp, sn, grid := newSeededWorld(t, &cfg, 4)
	const dt = 1.0 / 60

	prev := len(sp.Obstacles)
	for _, difficulty := range []float64{0, 0.25, 0.5, 0.75, 1} {
		sp.Update(dt, difficulty, sn, grid)
		if len(sp.Obstacles) < prev {
			t.Fatalf("obstacle count shrank from %d to %d", prev, len(sp.Obstacles))
		}
		prev = len(sp.Obstacles)
	}
	if prev != cfg.ObstacleMax {
		t.Errorf("obstacles at full difficulty = %d, want %d", prev, cfg.ObstacleMax)
	}
}

func TestPickupCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PickupDelayMin = 0.05
	cfg.PickupDelayMax = 0.1
	sp, sn, grid := newSeededWorld(t, &cfg, 5)
	const dt = 1.0 / 60

	for i := 0; i < 3000; i++ {
		sp.Update(dt, 0, sn, grid)
		if len(sp.Pickups) > cfg.PickupMax {
			t.Fatalf("pickups = %d, cap is %d", len(sp.Pickups), cfg.PickupMax)
		}
	}
	if len(sp.Pickups) != cfg.PickupMax {
		t.Errorf("pickups = %d after rapid spawning, want %d", len(sp.Pickups), cfg.PickupMax)
	}
}

func TestEntityIDsNeverReused(t *testing.T) {
	cfg := DefaultConfig()
	sp, sn, grid := newSeededWorld(t, &cfg, 6)

	seen := map[int64]bool{}
	record := func() {
		for _, f := range sp.Foods {
			seen[f.ID] = true
		}
	}
	record()
	for i := 0; i < 20; i++ {
		id := sp.Foods[0].ID
		sp.RemoveFood(0)
		sp.Update(1.0/60, 0, sn, grid)
		fresh := sp.Foods[len(sp.Foods)-1].ID
		if fresh == id {
			t.Fatalf("food ID %d reused", id)
		}
		record()
	}
	if len(seen) < cfg.FoodTarget+20 {
		t.Errorf("saw %d distinct IDs, want >= %d", len(seen), cfg.FoodTarget+20)
	}
}

func TestAttractFoods(t *testing.T) {
	cfg := DefaultConfig()
	sp, sn, _ := newSeededWorld(t, &cfg, 7)

	before := make([]float64, len(sp.Foods))
	for i, f := range sp.Foods {
		before[i] = Distance(f.Pos, sn.Head, cfg.WorldWidth, cfg.WorldDepth)
	}
	sp.AttractFoods(sn.Head, cfg.MagnetStrength, 1.0/60)
	for i, f := range sp.Foods {
		after := Distance(f.Pos, sn.Head, cfg.WorldWidth, cfg.WorldDepth)
		if after >= before[i] {
			t.Errorf("food %d did not move closer: %v -> %v", i, before[i], after)
		}
	}
}

func TestPlaceFallbackTerminates(t *testing.T) {
	// A world too small to ever satisfy the obstacle head distance forces
	// every attempt to fail; the bounded budget must still return.
	cfg := DefaultConfig()
	cfg.WorldWidth = 6
	cfg.WorldDepth = 6
	cfg.ObstacleBase = 2
	cfg.ObstacleMax = 2
	cfg.FoodTarget = 1

	sp, _, _ := newSeededWorld(t, &cfg, 8)
	if len(sp.Obstacles) != cfg.ObstacleBase {
		t.Fatalf("fallback still must place %d obstacles, got %d", cfg.ObstacleBase, len(sp.Obstacles))
	}
	for _, o := range sp.Obstacles {
		if o.Pos.X < -cfg.WorldWidth/2 || o.Pos.X >= cfg.WorldWidth/2 {
			t.Errorf("fallback position %v outside wrapped domain", o.Pos.X)
		}
	}
}

func TestPulseScale(t *testing.T) {
	static := Obstacle{Radius: 1, Kind: ObstacleStatic}
	if got := static.PulseScale(12.3); got != 1 {
		t.Errorf("static pulse scale = %v, want 1", got)
	}
	p := Obstacle{Radius: 1, Kind: ObstaclePulsing, Amp: 0.4, Freq: 2, Phase: 0.5}
	for _, tt := range []float64{0, 0.1, 1, 10, 100} {
		got := p.PulseScale(tt)
		want := 1 + 0.4*(0.5+0.5*math.Sin(2*tt+0.5))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("pulse scale at t=%v: %v, want %v", tt, got, want)
		}
		if got < 1 || got > 1+p.Amp {
			t.Errorf("pulse scale %v outside [1, 1+amp]", got)
		}
	}
}
