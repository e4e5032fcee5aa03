package sim

import "math"

// Segment is one body link. IDs are monotonic and stable across growth.
type Segment struct {
	ID  int64
	Pos Vec3
}

// trailSample pairs a recorded head position with the cumulative distance
// traveled at that moment. Samples are strictly increasing in dist.
type trailSample struct {
	pos  Vec3
	dist float64
}

// Snake owns the head pose and the distance-sampled trail the body is
// reconstructed from. Segment spacing is decoupled from tick rate: body
// positions come from arclength lookback into the trail, not from a
// per-tick ring buffer.
type Snake struct {
	Head       Vec3
	Heading    float64
	AngularVel float64
	Speed      float64

	Segments []Segment

	cfg       *Config
	trail     []trailSample
	trailDist float64
	nextSegID int64
}

func NewSnake(cfg *Config) *Snake {
	s := &Snake{cfg: cfg}
	s.Reset(Vec3{X: 0, Y: cfg.GroundY, Z: 0}, 0)
	return s
}

// Advance moves the head one tick and resamples the body. turn is clamped
// to [-1,1]; speed and turnRate are supplied per tick by the orchestrator.
// Locomotion cannot fail.
func (s *Snake) Advance(dt, turn, speed, turnRate float64) {
	turn = clampF(turn, -1, 1)

	// Damped-spring turn response: angular velocity eases toward the
	// commanded rate with an exponential time constant. Raw integration
	// here changes the feel, keep the closed form.
	target := turn * turnRate
	s.AngularVel += (target - s.AngularVel) * (1 - math.Exp(-s.cfg.TurnResponse*dt))
	s.Heading = wrapAngle(s.Heading + s.AngularVel*dt)

	s.Speed = speed
	step := speed * dt
	s.Head = WrapPos(Vec3{
		X: s.Head.X + math.Cos(s.Heading)*step,
		Y: s.Head.Y,
		Z: s.Head.Z + math.Sin(s.Heading)*step,
	}, s.cfg.WorldWidth, s.cfg.WorldDepth)
	s.trailDist += step

	// Sub-sample the trail to bound its growth; resampling interpolates
	// between samples so the body stays smooth.
	last := s.trail[len(s.trail)-1]
	if Distance(last.pos, s.Head, s.cfg.WorldWidth, s.cfg.WorldDepth) > s.cfg.SegmentSpacing*0.55 {
		s.trail = append(s.trail, trailSample{pos: s.Head, dist: s.trailDist})
	}

	s.resample()
	s.prune()
}

// Grow appends up to n segments at the current tail position so they
// animate into place over subsequent ticks instead of popping. The count
// never exceeds the configured cap.
func (s *Snake) Grow(n int) {
	for i := 0; i < n && len(s.Segments) < s.cfg.MaxSegments; i++ {
		pos := s.Head
		if len(s.Segments) > 0 {
			pos = s.Segments[len(s.Segments)-1].Pos
		}
		s.Segments = append(s.Segments, Segment{ID: s.nextSegID, Pos: pos})
		s.nextSegID++
	}
}

// Reset places the head and reseeds the trail backward along the initial
// heading, so the body is fully laid out at session start.
func (s *Snake) Reset(pos Vec3, heading float64) {
	s.Head = WrapPos(pos, s.cfg.WorldWidth, s.cfg.WorldDepth)
	s.Heading = wrapAngle(heading)
	s.AngularVel = 0
	s.Speed = 0

	if len(s.Segments) > s.cfg.StartSegments {
		s.Segments = s.Segments[:s.cfg.StartSegments]
	}
	for len(s.Segments) < s.cfg.StartSegments {
		s.Segments = append(s.Segments, Segment{ID: s.nextSegID})
		s.nextSegID++
	}

	dirX := math.Cos(s.Heading)
	dirZ := math.Sin(s.Heading)
	total := (float64(len(s.Segments)) + s.cfg.TrailMargin) * s.cfg.SegmentSpacing
	step := s.cfg.SegmentSpacing * 0.5

	s.trail = s.trail[:0]
	for d := total; d > -1e-9; d -= step {
		p := WrapPos(Vec3{
			X: s.Head.X - dirX*d,
			Y: s.Head.Y,
			Z: s.Head.Z - dirZ*d,
		}, s.cfg.WorldWidth, s.cfg.WorldDepth)
		s.trail = append(s.trail, trailSample{pos: p, dist: total - d})
	}
	if s.trail[len(s.trail)-1].dist < total {
		s.trail = append(s.trail, trailSample{pos: s.Head, dist: total})
	}
	s.trailDist = total

	s.resample()
}

// resample recomputes every segment position by looking back a fixed
// arclength per index and interpolating between the bracketing samples.
func (s *Snake) resample() {
	for i := range s.Segments {
		look := s.trailDist - float64(i+1)*s.cfg.SegmentSpacing
		s.Segments[i].Pos = s.sampleAt(look)
	}
}

func (s *Snake) sampleAt(look float64) Vec3 {
	n := len(s.trail)
	if n == 0 {
		return s.Head
	}
	if look <= s.trail[0].dist {
		return s.trail[0].pos
	}
	newest := s.trail[n-1]
	if look >= newest.dist {
		span := s.trailDist - newest.dist
		if span <= 1e-9 {
			return newest.pos
		}
		t := (look - newest.dist) / span
		return LerpPos(newest.pos, s.Head, t, s.cfg.WorldWidth, s.cfg.WorldDepth)
	}
	// Scan from the most recent sample backward for the bracketing pair.
	for j := n - 1; j > 0; j-- {
		if s.trail[j-1].dist <= look {
			a, b := s.trail[j-1], s.trail[j]
			span := b.dist - a.dist
			if span <= 1e-9 {
				return b.pos
			}
			return LerpPos(a.pos, b.pos, (look-a.dist)/span, s.cfg.WorldWidth, s.cfg.WorldDepth)
		}
	}
	return s.trail[0].pos
}

// prune discards samples no segment can reference anymore. Front samples
// are dropped in place (indices only move forward); at least two samples
// always remain.
func (s *Snake) prune() {
	cutoff := s.trailDist - (float64(len(s.Segments))+s.cfg.TrailMargin)*s.cfg.SegmentSpacing
	cut := 0
	for cut < len(s.trail)-2 && s.trail[cut+1].dist < cutoff {
		cut++
	}
	if cut > 0 {
		n := copy(s.trail, s.trail[cut:])
		s.trail = s.trail[:n]
	}
}
