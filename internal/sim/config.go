package sim

// MinDist is the minimum-separation table for one spawn category. Every
// candidate position must clear all five distances at once; the Obstacle
// entry is measured from the obstacle surface (its radius is added on top).
type MinDist struct {
	Head     float64
	Body     float64
	Food     float64
	Obstacle float64
	Pickup   float64
}

// Config holds every tuning constant a session consumes at construction.
// Immutable for the session lifetime.
type Config struct {
	// World.
	WorldWidth float64
	WorldDepth float64
	GroundY    float64 // height the head and all entities sit at

	// Locomotion.
	BaseSpeed       float64
	MaxSpeed        float64
	TurnRate        float64 // rad/s at full stick deflection
	TurnResponse    float64 // 1/s, exponential smoothing rate of angular velocity
	AssistTurnBonus float64 // extra turn-rate fraction at full assist input
	SegmentSpacing  float64
	StartSegments   int
	MaxSegments     int
	TrailMargin     float64 // extra segments' worth of trail kept behind the tail

	// Difficulty ramp (0 to 1 over this many seconds).
	DifficultyRampSec float64

	// Spawning.
	FoodTarget        int
	ObstacleBase      int
	ObstacleMax       int
	PickupMax         int
	PickupDelayMin    float64
	PickupDelayMax    float64
	SpawnAttempts     int // rejection-sampling budget before the clamped fallback
	SafeAheadDist     float64
	SafeHalfWidth     float64
	FoodDist          MinDist
	ObstacleDist      MinDist
	PickupDist        MinDist
	ObstacleRadiusMin float64
	ObstacleRadiusMax float64
	PulseChance       float64
	PulseAmpMin       float64
	PulseAmpMax       float64
	PulseFreqMin      float64
	PulseFreqMax      float64

	// Collision radii. Empirically tuned; gameplay feel depends on the
	// exact values, do not re-derive.
	HeadRadius        float64
	SelfCollideRadius float64
	SelfSkipSegments  int // segments nearest the head excluded from self checks
	PickupRadius      float64

	// Power-ups.
	SpeedBoostMult  float64
	SpeedScoreBonus float64 // additive multiplier bonus while speed boost is active
	MagnetStrength  float64
	SpeedBoostSec   float64
	PhaseSec        float64
	MagnetSec       float64

	// Scoring.
	FoodScore      int
	PowerupScore   int
	ComboWindowSec float64
	ComboStep      int
	ComboStepBonus float64
	ComboMaxBonus  float64

	// Session.
	GraceSec     float64
	GridCellSize float64
}

// DefaultConfig returns the tuned gameplay constants.
func DefaultConfig() Config {
	return Config{
		WorldWidth: 84,
		WorldDepth: 84,
		GroundY:    0.7,

		BaseSpeed:       5.5,
		MaxSpeed:        9.5,
		TurnRate:        3.4,
		TurnResponse:    9.0,
		AssistTurnBonus: 0.6,
		SegmentSpacing:  0.6,
		StartSegments:   8,
		MaxSegments:     240,
		TrailMargin:     4,

		DifficultyRampSec: 90,

		FoodTarget:     6,
		ObstacleBase:   4,
		ObstacleMax:    26,
		PickupMax:      2,
		PickupDelayMin: 8,
		PickupDelayMax: 16,
		SpawnAttempts:  24,
		SafeAheadDist:  16,
		SafeHalfWidth:  3,
		// Obstacles keep far enough from the head that a straight run
		// cannot reach one inside the post-spawn grace window.
		FoodDist:     MinDist{Head: 4, Body: 1.5, Food: 2, Obstacle: 1.5, Pickup: 2},
		ObstacleDist: MinDist{Head: 18, Body: 3, Food: 2, Obstacle: 3, Pickup: 3},
		PickupDist:   MinDist{Head: 6, Body: 2, Food: 2, Obstacle: 2, Pickup: 8},

		ObstacleRadiusMin: 0.8,
		ObstacleRadiusMax: 1.6,
		PulseChance:       0.25,
		PulseAmpMin:       0.2,
		PulseAmpMax:       0.5,
		PulseFreqMin:      1.0,
		PulseFreqMax:      3.0,

		HeadRadius:        0.5,
		SelfCollideRadius: 0.55,
		SelfSkipSegments:  8,
		PickupRadius:      1.1,

		SpeedBoostMult:  1.45,
		SpeedScoreBonus: 0.5,
		MagnetStrength:  7.0,
		SpeedBoostSec:   5,
		PhaseSec:        6,
		MagnetSec:       7,

		FoodScore:      10,
		PowerupScore:   25,
		ComboWindowSec: 4,
		ComboStep:      3,
		ComboStepBonus: 0.5,
		ComboMaxBonus:  3,

		GraceSec:     2.4,
		GridCellSize: 2.0,
	}
}

// sanitize clamps nonsense values so a malformed config degrades instead of
// producing NaNs or unbounded loops.
func (c *Config) sanitize() {
	if c.WorldWidth <= 0 {
		c.WorldWidth = 1
	}
	if c.WorldDepth <= 0 {
		c.WorldDepth = 1
	}
	if c.SegmentSpacing <= 0 {
		c.SegmentSpacing = 0.1
	}
	if c.MaxSegments < 1 {
		c.MaxSegments = 1
	}
	if c.StartSegments < 1 {
		c.StartSegments = 1
	}
	if c.StartSegments > c.MaxSegments {
		c.StartSegments = c.MaxSegments
	}
	if c.SpawnAttempts < 1 {
		c.SpawnAttempts = 1
	}
	if c.PickupMax < 0 {
		c.PickupMax = 0
	}
	if c.ObstacleMax < c.ObstacleBase {
		c.ObstacleMax = c.ObstacleBase
	}
	if c.DifficultyRampSec <= 0 {
		c.DifficultyRampSec = 1
	}
	if c.GridCellSize <= 0 {
		c.GridCellSize = 1
	}
	if c.ComboStep < 1 {
		c.ComboStep = 1
	}
}

// powerupDuration returns the active-time table entry for a pickup kind.
func (c *Config) powerupDuration(kind PowerupKind) float64 {
	switch kind {
	case PowerupSpeed:
		return c.SpeedBoostSec
	case PowerupPhase:
		return c.PhaseSec
	case PowerupMagnet:
		return c.MagnetSec
	}
	return 0
}
