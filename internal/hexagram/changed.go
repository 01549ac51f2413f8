package hexagram

import "liuyao/internal/logging"

// FlipLines toggles the characters of a six-character code at string index p-1
// for each distinct p in 1..6. Other positions are ignored.
//
// Position 1 is the first character, i.e. the top line of the upper trigram,
// which runs opposite to Yao.Position.
func FlipLines(code string, positions []int) string {
	b := []byte(code)
	var seen [7]bool
	for _, p := range positions {
		if p < 1 || p > 6 || p > len(b) || seen[p] {
			continue
		}
		seen[p] = true
		if b[p-1] == '1' {
			b[p-1] = '0'
		} else {
			b[p-1] = '1'
		}
	}
	return string(b)
}

// Changed derives the hexagram reached by flipping the moving lines of original.
// With no positions it returns false without a lookup.
func (r *Resolver) Changed(original Hexagram, positions []int) (Hexagram, bool) {
	if len(positions) == 0 {
		return Hexagram{}, false
	}
	code := FlipLines(original.Binary, positions)
	logging.HexagramDebug("%s %s flipped at %v -> %s", original.Name, original.Binary, positions, code)
	return r.ByBinary(code)
}
