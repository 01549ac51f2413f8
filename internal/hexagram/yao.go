// Package hexagram resolves trigram pairs and six-line codes to the 64 hexagrams,
// derives changed hexagrams from moving lines, and annotates lines with na-jia.
package hexagram

import (
	"fmt"
	"sort"

	"liuyao/internal/reference"
)

// YaoType is the kind of a single line.
type YaoType string

const (
	Yin     YaoType = "yin"     // 少阴, broken, still
	Yang    YaoType = "yang"    // 少阳, solid, still
	OldYin  YaoType = "oldYin"  // 老阴, broken, moving
	OldYang YaoType = "oldYang" // 老阳, solid, moving
)

var yaoAliases = map[string]YaoType{
	"yin": Yin, "yang": Yang, "oldYin": OldYin, "oldYang": OldYang,
	"少阴": Yin, "少阳": Yang, "老阴": OldYin, "老阳": OldYang,
}

// ParseYaoType accepts the wire names and their Chinese equivalents.
func ParseYaoType(s string) (YaoType, bool) {
	t, ok := yaoAliases[s]
	return t, ok
}

// Valid reports whether t is one of the four line kinds.
func (t YaoType) Valid() bool {
	switch t {
	case Yin, Yang, OldYin, OldYang:
		return true
	}
	return false
}

// IsMoving reports old lines.
func (t YaoType) IsMoving() bool {
	return t == OldYin || t == OldYang
}

// IsYang reports solid lines, moving or not.
func (t YaoType) IsYang() bool {
	return t == Yang || t == OldYang
}

// Bit is '1' for solid lines and '0' for broken ones.
func (t YaoType) Bit() byte {
	if t.IsYang() {
		return '1'
	}
	return '0'
}

// Yao is one line of a hexagram. Position 1 is the bottom line.
type Yao struct {
	Type     YaoType `yaml:"type" json:"type"`
	Position int     `yaml:"position" json:"position"`
	IsMoving bool    `yaml:"is_moving" json:"isMoving"`
}

// NewYao builds a line with IsMoving derived from its type.
func NewYao(t YaoType, position int) Yao {
	return Yao{Type: t, Position: position, IsMoving: t.IsMoving()}
}

// YaosFromTrigrams lays out the six lines of a trigram pair, top line first.
// Positions 1-3 come from lower and 4-6 from upper; the line at moving (if 1..6)
// becomes old.
func YaosFromTrigrams(upper, lower reference.Trigram, moving int) []Yao {
	code := upper.Binary + lower.Binary
	yaos := make([]Yao, 0, 6)
	for i := 0; i < len(code); i++ {
		pos := 6 - i
		t := Yin
		if code[i] == '1' {
			t = Yang
		}
		if pos == moving {
			if t == Yang {
				t = OldYang
			} else {
				t = OldYin
			}
		}
		yaos = append(yaos, NewYao(t, pos))
	}
	return yaos
}

// Binary renders lines as a six-character code, top line first. Positions
// without a line read as broken.
func Binary(yaos []Yao) string {
	code := []byte("000000")
	for _, y := range yaos {
		if y.Position >= 1 && y.Position <= 6 {
			code[6-y.Position] = y.Type.Bit()
		}
	}
	return string(code)
}

// TrigramsFromYaos reads the upper trigram from positions 6,5,4 and the lower
// from 3,2,1. A pattern missing from the table falls back to 坤.
func TrigramsFromYaos(yaos []Yao) (upper, lower reference.Trigram) {
	code := Binary(yaos)
	kun, _ := reference.TrigramByName("坤")
	var ok bool
	if upper, ok = reference.TrigramByBinary(code[:3]); !ok {
		upper = kun
	}
	if lower, ok = reference.TrigramByBinary(code[3:]); !ok {
		lower = kun
	}
	return upper, lower
}

// MovingPositions returns the positions of old lines in ascending order.
func MovingPositions(yaos []Yao) []int {
	var out []int
	for _, y := range yaos {
		if y.Type.IsMoving() {
			out = append(out, y.Position)
		}
	}
	sort.Ints(out)
	return out
}

// String renders a line like "6:oldYang".
func (y Yao) String() string {
	return fmt.Sprintf("%d:%s", y.Position, y.Type)
}
