package sim

import "math"

// Vec3 is a position on (or above) the ground plane. X and Z wrap around
// the world size; Y is vertical and never wraps.
type Vec3 struct {
	X, Y, Z float64
}

// Wrap maps v into the half-open fundamental domain [-size/2, size/2).
// An input of exactly +size/2 lands on -size/2 (same point on the torus).
func Wrap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	return v - size*math.Floor(v/size+0.5)
}

// Delta returns the shortest signed displacement from a to b along one
// wrapped axis. Magnitude is at most size/2; an exact half-domain
// separation resolves to -size/2 so the choice is deterministic.
func Delta(from, to, size float64) float64 {
	return Wrap(to-from, size)
}

// WrapPos wraps the ground-plane components of p into the world domain.
func WrapPos(p Vec3, width, depth float64) Vec3 {
	return Vec3{X: Wrap(p.X, width), Y: p.Y, Z: Wrap(p.Z, depth)}
}

// Distance returns the shortest ground-plane distance between a and b on
// the torus. The vertical axis is ignored.
func Distance(a, b Vec3, width, depth float64) float64 {
	dx := Delta(a.X, b.X, width)
	dz := Delta(a.Z, b.Z, depth)
	return math.Hypot(dx, dz)
}

// LerpPos interpolates from a toward b along the shortest wrapped path per
// ground axis, re-wrapping the result. The vertical axis is linear.
func LerpPos(a, b Vec3, t, width, depth float64) Vec3 {
	return Vec3{
		X: Wrap(a.X+Delta(a.X, b.X, width)*t, width),
		Y: a.Y + (b.Y-a.Y)*t,
		Z: Wrap(a.Z+Delta(a.Z, b.Z, depth)*t, depth),
	}
}
