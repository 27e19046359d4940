// Package notation implements the CHEGG action notation, a compact textual
// encoding of one committed action used for the match log and replays.
//
// Syntax:
//   - Attack:  <source>!<destination>  (e.g. A3v!A2)
//   - Ability: <source>$<destination> or <source>$  (e.g. A1e$B1, F4w$)
//   - Move:    <source>:<destination>  (e.g. A3v:B4)
//   - Dash:    <source>-<destination>  (e.g. B4v-C4)
//   - Place:   <destination><minion>   (e.g. [A1v])
//
// The whole token is wrapped in [] for blue and {} for red.
// Coordinates: columns A-H (0-7), rows 1-10 (0-9 internally).
package notation

import (
	"fmt"
	"strconv"
)

const cols = "ABCDEFGH"

// minionChars maps each unit type to its reserved notation character.
var minionChars = map[string]string{
	"villager":    "v",
	"zombie":      "z",
	"creeper":     "c",
	"pig":         "p",
	"rabbit":      "r",
	"pufferfish":  "u",
	"iron_golem":  "i",
	"frog":        "f",
	"skeleton":    "s",
	"blaze":       "b",
	"phantom":     "h",
	"enderman":    "e",
	"slime":       "L",
	"shulker_box": "x",
	"parrot":      "t",
	"cat":         "m",
	"sniffer":     "n",
	"wither":      "w",
}

// Kind selects the operator used between source and destination.
type Kind string

const (
	Move    Kind = "move"
	Dash    Kind = "dash"
	Attack  Kind = "attack"
	Ability Kind = "ability"
)

var opChars = map[Kind]string{
	Move:    ":",
	Dash:    "-",
	Attack:  "!",
	Ability: "$",
}

// ToCoord converts zero-based (row, col) to display notation, e.g. (0,0) -> "A1".
func ToCoord(row, col int) string {
	return fmt.Sprintf("%c%d", cols[col], row+1)
}

// FromCoord is the exact inverse of ToCoord.
func FromCoord(coord string) (row, col int, err error) {
	if len(coord) < 2 {
		return 0, 0, fmt.Errorf("coordinate too short: %q", coord)
	}
	col = -1
	for i := range cols {
		if cols[i] == coord[0] {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column in %q", coord)
	}
	n, err := strconv.Atoi(coord[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row in %q: %w", coord, err)
	}
	return n - 1, col, nil
}

// MinionChar returns the reserved character for a unit type, or "?" for an
// unregistered type.
func MinionChar(id string) string {
	if ch, ok := minionChars[id]; ok {
		return ch
	}
	return "?"
}

// FormatSpawn encodes a placement, e.g. [A1v] for blue, {H10z} for red.
func FormatSpawn(color string, row, col int, minionID string) string {
	return wrap(color, ToCoord(row, col)+MinionChar(minionID))
}

// FormatAction encodes a move, dash, attack or ability. A nil destination
// produces the trailing-operator form used by self-targeted abilities.
func FormatAction(color string, kind Kind, fromRow, fromCol int, toRow, toCol *int, minionID string) string {
	str := ToCoord(fromRow, fromCol) + MinionChar(minionID) + opChars[kind]
	if toRow != nil && toCol != nil {
		str += ToCoord(*toRow, *toCol)
	}
	return wrap(color, str)
}

func wrap(color, s string) string {
	if color == "blue" {
		return "[" + s + "]"
	}
	return "{" + s + "}"
}
