// Package game holds the authoritative board model for a single match: state,
// the unit capability table, and the ability registry. All mutation goes
// through State methods; callers are expected to serialize access (the room
// engine holds its lock across every action).
package game

// Board dimensions. Columns map to letters A-H in notation, rows to 1-10.
const (
	Rows = 10
	Cols = 8

	// SpawnZoneDepth is how many rows deep each color's spawn band is.
	SpawnZoneDepth = 2
)

// Color identifies a side.
type Color string

const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == ColorBlue {
		return ColorRed
	}
	return ColorBlue
}

// Position is a zero-based board coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Offset is a relative board displacement.
type Offset struct {
	Row int
	Col int
}

// Surrounding lists the eight neighboring offsets in clockwise order starting
// at the upper-left; the ordering matters for directional abilities.
var Surrounding = []Offset{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1},
}

// Orthogonal lists the four cardinal offsets.
var Orthogonal = []Offset{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// Diagonal lists the four diagonal offsets.
var Diagonal = []Offset{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}

// InBounds reports whether (row, col) is on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// IsSpawnZone reports whether row lies in color's spawn band: blue spawns on
// the top rows, red on the bottom rows.
func IsSpawnZone(row int, color Color) bool {
	if color == ColorBlue {
		return row >= 0 && row < SpawnZoneDepth
	}
	return row >= Rows-SpawnZoneDepth && row < Rows
}
