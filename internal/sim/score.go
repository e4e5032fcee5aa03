package sim

import "math"

// ScoreState is the combo/multiplier machine. Score only ever grows; the
// combo resets when the window elapses with no food pickup. The external
// bonus term is supplied per call by the orchestrator so this type holds
// no power-up knowledge.
type ScoreState struct {
	Score      int
	Combo      int
	Multiplier float64

	cfg      *Config
	comboTTL float64
}

func NewScoreState(cfg *Config) ScoreState {
	return ScoreState{cfg: cfg, Multiplier: 1}
}

func (s *ScoreState) Reset() {
	s.Score = 0
	s.Combo = 0
	s.Multiplier = 1
	s.comboTTL = 0
}

// OnFood registers a food pickup: bumps the combo, rearms the window,
// recomputes the tiered multiplier, and awards points.
func (s *ScoreState) OnFood(externalBonus float64) int {
	s.Combo++
	s.comboTTL = s.cfg.ComboWindowSec
	bonus := clampF(math.Floor(float64(s.Combo)/float64(s.cfg.ComboStep))*s.cfg.ComboStepBonus, 0, s.cfg.ComboMaxBonus)
	s.Multiplier = 1 + bonus
	pts := int(math.Round(float64(s.cfg.FoodScore) * (s.Multiplier + externalBonus)))
	s.Score += pts
	return pts
}

// OnPowerup awards the pickup bonus at the current multiplier without
// touching the combo.
func (s *ScoreState) OnPowerup(externalBonus float64) int {
	pts := int(math.Round(float64(s.cfg.PowerupScore) * (s.Multiplier + externalBonus)))
	s.Score += pts
	return pts
}

// Decay runs the per-tick window countdown. Returns true when the combo
// expired this tick.
func (s *ScoreState) Decay(dt float64) bool {
	if s.Combo == 0 {
		return false
	}
	s.comboTTL -= dt
	if s.comboTTL > 0 {
		return false
	}
	s.Combo = 0
	s.Multiplier = 1
	s.comboTTL = 0
	return true
}
