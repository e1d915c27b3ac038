// Package board holds the hex-grid geometry: axial coordinates, the fixed
// radius-3 match board with its point-value rings, and the spawn sectors
// carved out of the edge ring.
package board

import (
	"fmt"
	"sort"
)

// HexCoord is an axial coordinate on the hex grid. The third cube
// coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// neighborDirections lists the six axial offsets in ring-walk order.
var neighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates, on-board or not.
func (h HexCoord) Neighbors() [6]HexCoord {
	var out [6]HexCoord
	for i, d := range neighborDirections {
		out[i] = HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
	}
	return out
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return (dq + dr + ds) / 2
}

// Ring returns which ring a coordinate sits on: 0 is the center tile.
func Ring(c HexCoord) int {
	return max(abs(c.Q), abs(c.R), abs(c.S()))
}

// Radius is the board radius: center plus three rings, 37 tiles.
const Radius = 3

// Point values per ring, fixed at board generation. The edge ring is
// worth nothing so spawn camping scores nothing.
var ringPoints = [Radius + 1]int{5, 2, 1, 0}

// Board is the immutable match board: which coordinates exist and what
// each is worth. Occupancy lives in game state, not here.
type Board struct {
	points map[HexCoord]int
}

// New generates the fixed radius-3 board.
func New() *Board {
	b := &Board{points: make(map[HexCoord]int, 37)}
	for q := -Radius; q <= Radius; q++ {
		for r := -Radius; r <= Radius; r++ {
			c := HexCoord{Q: q, R: r}
			if ring := Ring(c); ring <= Radius {
				b.points[c] = ringPoints[ring]
			}
		}
	}
	return b
}

// Contains reports whether c is a tile on the board.
func (b *Board) Contains(c HexCoord) bool {
	_, ok := b.points[c]
	return ok
}

// PointValue returns the end-of-round score value of a tile, or 0 for
// coordinates off the board.
func (b *Board) PointValue(c HexCoord) int {
	return b.points[c]
}

// Neighbors returns the on-board subset of c's six axial neighbors.
func (b *Board) Neighbors(c HexCoord) []HexCoord {
	out := make([]HexCoord, 0, 6)
	for _, n := range c.Neighbors() {
		if b.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Coords returns every tile coordinate in a stable order.
func (b *Board) Coords() []HexCoord {
	out := make([]HexCoord, 0, len(b.points))
	for c := range b.points {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		return out[i].R < out[j].R
	})
	return out
}

// ringCoords walks a ring clockwise starting from the south-west corner.
func ringCoords(radius int) []HexCoord {
	if radius == 0 {
		return []HexCoord{{}}
	}
	out := make([]HexCoord, 0, 6*radius)
	cur := HexCoord{Q: -radius, R: radius}
	for _, d := range neighborDirections {
		for i := 0; i < radius; i++ {
			out = append(out, cur)
			cur = HexCoord{Q: cur.Q + d.Q, R: cur.R + d.R}
		}
	}
	return out
}

// SpawnZones splits the edge ring into one fixed sector per seat:
// opposite 6-tile arcs for 2 players, thirds for 3. Sectors never
// overlap and never change after match start.
func SpawnZones(playerCount int) ([][]HexCoord, error) {
	edge := ringCoords(Radius)
	switch playerCount {
	case 2:
		north := make([]HexCoord, 0, 6)
		south := make([]HexCoord, 0, 6)
		for _, c := range edge {
			switch {
			case c.R <= -2:
				north = append(north, c)
			case c.R >= 2:
				south = append(south, c)
			}
		}
		return [][]HexCoord{north, south}, nil
	case 3:
		third := len(edge) / 3
		return [][]HexCoord{
			edge[0:third],
			edge[third : 2*third],
			edge[2*third:],
		}, nil
	default:
		return nil, fmt.Errorf("unsupported player count %d", playerCount)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
