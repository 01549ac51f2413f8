package reference

// Trigram is one of the eight three-line figures.
//
// Binary is written top line first ("001" is 震: two broken lines over a solid one).
// Code is Binary read as a base-2 number, so the eight codes cover 0..7 exactly once.
type Trigram struct {
	Name      string `yaml:"name" json:"name"`
	Symbol    string `yaml:"symbol" json:"symbol"`
	Code      uint8  `yaml:"code" json:"code"`
	Binary    string `yaml:"binary" json:"binary"`
	Element   string `yaml:"element" json:"element"`
	Nature    string `yaml:"nature" json:"nature"`
	Family    string `yaml:"family" json:"family"`
	Direction string `yaml:"direction" json:"direction"`
	Season    string `yaml:"season" json:"season"`
}

// trigramsByCode is indexed by Trigram.Code.
var trigramsByCode = [8]Trigram{
	{Name: "坤", Symbol: "☷", Code: 0, Binary: "000", Element: "土", Nature: "地", Family: "母", Direction: "西南", Season: "夏秋"},
	{Name: "震", Symbol: "☳", Code: 1, Binary: "001", Element: "木", Nature: "雷", Family: "长男", Direction: "东", Season: "春"},
	{Name: "坎", Symbol: "☵", Code: 2, Binary: "010", Element: "水", Nature: "水", Family: "中男", Direction: "北", Season: "冬"},
	{Name: "兑", Symbol: "☱", Code: 3, Binary: "011", Element: "金", Nature: "泽", Family: "少女", Direction: "西", Season: "秋"},
	{Name: "艮", Symbol: "☶", Code: 4, Binary: "100", Element: "土", Nature: "山", Family: "少男", Direction: "东北", Season: "冬春"},
	{Name: "离", Symbol: "☲", Code: 5, Binary: "101", Element: "火", Nature: "火", Family: "中女", Direction: "南", Season: "夏"},
	{Name: "巽", Symbol: "☴", Code: 6, Binary: "110", Element: "木", Nature: "风", Family: "长女", Direction: "东南", Season: "春夏"},
	{Name: "乾", Symbol: "☰", Code: 7, Binary: "111", Element: "金", Nature: "天", Family: "父", Direction: "西北", Season: "秋冬"},
}

// Trigrams returns the eight trigrams ordered by code.
func Trigrams() []Trigram {
	out := make([]Trigram, len(trigramsByCode))
	copy(out, trigramsByCode[:])
	return out
}

// TrigramByCode returns the trigram for a 3-bit code. Only the low three bits are used.
func TrigramByCode(code uint8) Trigram {
	return trigramsByCode[code&0x7]
}

// TrigramByName looks a trigram up by its single-character name.
func TrigramByName(name string) (Trigram, bool) {
	for _, t := range trigramsByCode {
		if t.Name == name {
			return t, true
		}
	}
	return Trigram{}, false
}

// TrigramByBinary looks a trigram up by its three-character line pattern.
func TrigramByBinary(binary string) (Trigram, bool) {
	code, ok := parseBits(binary, 3)
	if !ok {
		return Trigram{}, false
	}
	return trigramsByCode[code], true
}

// parseBits reads a string of exactly n '0'/'1' characters as a base-2 number.
func parseBits(s string, n int) (uint8, bool) {
	if len(s) != n {
		return 0, false
	}
	var v uint8
	for i := 0; i < n; i++ {
		switch s[i] {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, false
		}
	}
	return v, true
}
