package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// HexagramCount is the number of rows in the hexagram table.
const HexagramCount = 64

// ErrInvalidTable reports an embedded or supplied hexagram table that breaks the
// 64-row invariants.
var ErrInvalidTable = errors.New("invalid hexagram table")

// Hexagram is one row of the 64-hexagram table.
//
// Binary is the upper trigram's line pattern followed by the lower one's, top line
// first, so it always equals Upper.Binary + Lower.Binary.
type Hexagram struct {
	ID          int      `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Upper       string   `yaml:"upper" json:"upperTrigram"`
	Lower       string   `yaml:"lower" json:"lowerTrigram"`
	Binary      string   `yaml:"binary" json:"binary"`
	Element     string   `yaml:"element" json:"element"`
	Palace      string   `yaml:"palace" json:"palace"`
	Judgment    string   `yaml:"judgment" json:"judgment"`
	Commentary  string   `yaml:"commentary" json:"commentary"`
	Image       string   `yaml:"image" json:"image"`
	Description string   `yaml:"description" json:"description"`
	LineTexts   []string `yaml:"line_texts,omitempty" json:"lineTexts,omitempty"`
}

// hexagramFile is the on-disk shape of data/hexagrams.yaml.
type hexagramFile struct {
	Hexagrams []Hexagram `yaml:"hexagrams"`
}

//go:embed data/hexagrams.yaml
var embeddedHexagrams []byte

var loadEmbedded = sync.OnceValues(func() ([]Hexagram, error) {
	return ParseHexagrams(embeddedHexagrams)
})

// Hexagrams returns a copy of the embedded 64-hexagram table in King Wen order.
// It panics if the embedded data is corrupt, which can only happen at build time.
func Hexagrams() []Hexagram {
	rows, err := loadEmbedded()
	if err != nil {
		panic(fmt.Sprintf("reference: embedded hexagram table: %v", err))
	}
	out := make([]Hexagram, len(rows))
	for i, h := range rows {
		out[i] = h.clone()
	}
	return out
}

// ParseHexagrams decodes and validates a YAML hexagram table.
func ParseHexagrams(data []byte) ([]Hexagram, error) {
	var f hexagramFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse hexagram table: %w", err)
	}
	if err := ValidateHexagrams(f.Hexagrams); err != nil {
		return nil, err
	}
	return f.Hexagrams, nil
}

// ValidateHexagrams checks the table invariants: 64 rows, ids 1..64, known trigrams,
// Binary consistent with the trigram pair, and no two rows sharing a pair or a code.
func ValidateHexagrams(rows []Hexagram) error {
	if len(rows) != HexagramCount {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidTable, len(rows), HexagramCount)
	}
	ids := make(map[int]bool, len(rows))
	codes := make(map[string]int, len(rows))
	pairs := make(map[[2]string]int, len(rows))
	for _, h := range rows {
		if h.ID < 1 || h.ID > HexagramCount || ids[h.ID] {
			return fmt.Errorf("%w: bad or repeated id %d", ErrInvalidTable, h.ID)
		}
		ids[h.ID] = true

		upper, ok := TrigramByName(h.Upper)
		if !ok {
			return fmt.Errorf("%w: hexagram %d: unknown upper trigram %q", ErrInvalidTable, h.ID, h.Upper)
		}
		lower, ok := TrigramByName(h.Lower)
		if !ok {
			return fmt.Errorf("%w: hexagram %d: unknown lower trigram %q", ErrInvalidTable, h.ID, h.Lower)
		}
		if want := upper.Binary + lower.Binary; h.Binary != want {
			return fmt.Errorf("%w: hexagram %d: binary %q, want %q", ErrInvalidTable, h.ID, h.Binary, want)
		}
		if prev, dup := codes[h.Binary]; dup {
			return fmt.Errorf("%w: hexagrams %d and %d share binary %s", ErrInvalidTable, prev, h.ID, h.Binary)
		}
		codes[h.Binary] = h.ID
		pair := [2]string{h.Upper, h.Lower}
		if prev, dup := pairs[pair]; dup {
			return fmt.Errorf("%w: hexagrams %d and %d share trigrams %s/%s", ErrInvalidTable, prev, h.ID, h.Upper, h.Lower)
		}
		pairs[pair] = h.ID
	}
	return nil
}

func (h Hexagram) clone() Hexagram {
	if h.LineTexts != nil {
		h.LineTexts = append([]string(nil), h.LineTexts...)
	}
	return h
}
