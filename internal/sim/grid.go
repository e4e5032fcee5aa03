package sim

import "math"

type cellKey struct {
	cx, cz int
}

// gridEntry references one body segment by index.
type gridEntry struct {
	seg int
	pos Vec3
}

// Grid is a hash grid over the wrapped ground plane, rebuilt once per tick.
// It serves the spawn constraint checks and the self-collision broad phase
// so neither degrades to a full body scan as the snake grows. Queries that
// span the wrap seam probe the wrapped cell range.
type Grid struct {
	cells map[cellKey][]gridEntry
	cell  float64
	width float64
	depth float64
	cols  int
	rows  int
}

func NewGrid(cfg *Config) *Grid {
	cols := int(math.Ceil(cfg.WorldWidth / cfg.GridCellSize))
	rows := int(math.Ceil(cfg.WorldDepth / cfg.GridCellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cells: make(map[cellKey][]gridEntry),
		cell:  cfg.GridCellSize,
		width: cfg.WorldWidth,
		depth: cfg.WorldDepth,
		cols:  cols,
		rows:  rows,
	}
}

func (g *Grid) keyFor(p Vec3) cellKey {
	cx := int(math.Floor((p.X + g.width/2) / g.cell))
	cz := int(math.Floor((p.Z + g.depth/2) / g.cell))
	if cx >= g.cols {
		cx = g.cols - 1
	}
	if cz >= g.rows {
		cz = g.rows - 1
	}
	if cx < 0 {
		cx = 0
	}
	if cz < 0 {
		cz = 0
	}
	return cellKey{cx, cz}
}

// Rebuild repopulates the grid from the current body segments.
func (g *Grid) Rebuild(segs []Segment) {
	g.cells = make(map[cellKey][]gridEntry)
	for i, s := range segs {
		k := g.keyFor(s.Pos)
		g.cells[k] = append(g.cells[k], gridEntry{seg: i, pos: s.Pos})
	}
}

// NearbySegments returns entries within the wrapped radius of pos.
func (g *Grid) NearbySegments(pos Vec3, radius float64) []gridEntry {
	var results []gridEntry
	center := g.keyFor(pos)
	span := int(radius/g.cell) + 1

	xFrom, xTo := center.cx-span, center.cx+span
	if xTo-xFrom+1 >= g.cols {
		xFrom, xTo = 0, g.cols-1
	}
	zFrom, zTo := center.cz-span, center.cz+span
	if zTo-zFrom+1 >= g.rows {
		zFrom, zTo = 0, g.rows-1
	}

	for cx := xFrom; cx <= xTo; cx++ {
		wx := ((cx % g.cols) + g.cols) % g.cols
		for cz := zFrom; cz <= zTo; cz++ {
			wz := ((cz % g.rows) + g.rows) % g.rows
			for _, e := range g.cells[cellKey{wx, wz}] {
				if Distance(pos, e.pos, g.width, g.depth) <= radius {
					results = append(results, e)
				}
			}
		}
	}
	return results
}
