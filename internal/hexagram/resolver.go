package hexagram

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"liuyao/internal/logging"
	"liuyao/internal/reference"
)

// Hexagram is a row of the reference table.
type Hexagram = reference.Hexagram

// ErrDuplicateKey reports two rows sharing a trigram pair, a code, an id or a name.
var ErrDuplicateKey = errors.New("duplicate hexagram key")

// Resolver indexes a hexagram table for constant-time lookup.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	rows     []Hexagram
	byPair   map[[2]string]int
	byBinary map[string]int
	byID     map[int]int
	byName   map[string]int
}

// NewResolver indexes rows. The slice is copied.
func NewResolver(rows []Hexagram) (*Resolver, error) {
	r := &Resolver{
		rows:     make([]Hexagram, len(rows)),
		byPair:   make(map[[2]string]int, len(rows)),
		byBinary: make(map[string]int, len(rows)),
		byID:     make(map[int]int, len(rows)),
		byName:   make(map[string]int, len(rows)),
	}
	copy(r.rows, rows)

	for i, h := range r.rows {
		pair := [2]string{h.Upper, h.Lower}
		if j, dup := r.byPair[pair]; dup {
			return nil, fmt.Errorf("%w: %s and %s share trigrams %s/%s", ErrDuplicateKey, r.rows[j].Name, h.Name, h.Upper, h.Lower)
		}
		if j, dup := r.byBinary[h.Binary]; dup {
			return nil, fmt.Errorf("%w: %s and %s share binary %s", ErrDuplicateKey, r.rows[j].Name, h.Name, h.Binary)
		}
		if j, dup := r.byID[h.ID]; dup {
			return nil, fmt.Errorf("%w: %s and %s share id %d", ErrDuplicateKey, r.rows[j].Name, h.Name, h.ID)
		}
		if j, dup := r.byName[h.Name]; dup {
			return nil, fmt.Errorf("%w: rows %d and %d share name %s", ErrDuplicateKey, r.rows[j].ID, h.ID, h.Name)
		}
		r.byPair[pair] = i
		r.byBinary[h.Binary] = i
		r.byID[h.ID] = i
		r.byName[h.Name] = i
	}
	return r, nil
}

var defaultResolver = sync.OnceValue(func() *Resolver {
	r, err := NewResolver(reference.Hexagrams())
	if err != nil {
		logging.HexagramError("embedded table rejected: %v", err)
		panic(err)
	}
	logging.Hexagram("default resolver ready with %d hexagrams", len(r.rows))
	return r
})

// Default returns the resolver over the embedded 64-hexagram table.
func Default() *Resolver {
	return defaultResolver()
}

// ByTrigrams looks up the hexagram whose upper and lower trigrams are named.
func (r *Resolver) ByTrigrams(upper, lower string) (Hexagram, bool) {
	i, ok := r.byPair[[2]string{upper, lower}]
	return r.lookup(i, ok)
}

// ByBinary looks up a six-character code, top line first.
func (r *Resolver) ByBinary(code string) (Hexagram, bool) {
	i, ok := r.byBinary[code]
	return r.lookup(i, ok)
}

// ByID looks up a King Wen number.
func (r *Resolver) ByID(id int) (Hexagram, bool) {
	i, ok := r.byID[id]
	return r.lookup(i, ok)
}

// ByName looks up an exact name such as "乾".
func (r *Resolver) ByName(name string) (Hexagram, bool) {
	i, ok := r.byName[name]
	return r.lookup(i, ok)
}

func (r *Resolver) lookup(i int, ok bool) (Hexagram, bool) {
	if !ok {
		return Hexagram{}, false
	}
	return cloneHexagram(r.rows[i]), true
}

// All returns every row in table order.
func (r *Resolver) All() []Hexagram {
	out := make([]Hexagram, len(r.rows))
	for i, h := range r.rows {
		out[i] = cloneHexagram(h)
	}
	return out
}

// Search returns rows whose name contains keyword or whose description
// contains it case-insensitively. An empty keyword matches nothing.
func (r *Resolver) Search(keyword string) []Hexagram {
	if keyword == "" {
		return nil
	}
	lower := strings.ToLower(keyword)
	var out []Hexagram
	for _, h := range r.rows {
		if strings.Contains(h.Name, keyword) || strings.Contains(strings.ToLower(h.Description), lower) {
			out = append(out, cloneHexagram(h))
		}
	}
	return out
}

func cloneHexagram(h Hexagram) Hexagram {
	if h.LineTexts != nil {
		h.LineTexts = append([]string(nil), h.LineTexts...)
	}
	return h
}
