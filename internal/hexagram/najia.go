package hexagram

import (
	"fmt"

	"liuyao/internal/reference"
)

// NajiaLine is the stem and branch attached to one line.
type NajiaLine struct {
	Position int    `yaml:"position" json:"position"`
	Stem     string `yaml:"stem" json:"stem"`
	Branch   string `yaml:"branch" json:"branch"`
	Element  string `yaml:"element" json:"element"`
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty"`
}

type branchElement struct {
	branch, element string
}

// najiaBranches lists the three branches a trigram carries, bottom line first.
var najiaBranches = map[string][3]branchElement{
	"乾": {{"戌", "土"}, {"申", "金"}, {"午", "火"}},
	"坤": {{"未", "土"}, {"巳", "火"}, {"卯", "木"}},
	"震": {{"戌", "土"}, {"申", "金"}, {"午", "火"}},
	"巽": {{"未", "土"}, {"巳", "火"}, {"卯", "木"}},
	"坎": {{"子", "水"}, {"戌", "土"}, {"申", "金"}},
	"离": {{"巳", "火"}, {"未", "土"}, {"酉", "金"}},
	"艮": {{"寅", "木"}, {"子", "水"}, {"戌", "土"}},
	"兑": {{"巳", "火"}, {"卯", "木"}, {"丑", "土"}},
}

// Najia returns the six lines of h bottom first with stems and branches attached.
// Relation is left empty; see NajiaForDay.
func Najia(h Hexagram) []NajiaLine {
	lowerStem, upperStem := "乙", "癸"
	if h.Lower == "乾" || h.Lower == "震" {
		lowerStem = "甲"
	}
	if h.Upper == "乾" || h.Upper == "震" {
		upperStem = "壬"
	}

	lines := make([]NajiaLine, 0, 6)
	for i, be := range branchesFor(h.Lower) {
		lines = append(lines, NajiaLine{Position: i + 1, Stem: lowerStem, Branch: be.branch, Element: be.element})
	}
	for i, be := range branchesFor(h.Upper) {
		lines = append(lines, NajiaLine{Position: i + 4, Stem: upperStem, Branch: be.branch, Element: be.element})
	}
	return lines
}

// branchesFor falls back to 子水 for names outside the table.
func branchesFor(trigram string) [3]branchElement {
	if b, ok := najiaBranches[trigram]; ok {
		return b
	}
	return [3]branchElement{{"子", "水"}, {"子", "水"}, {"子", "水"}}
}

// NajiaForDay is Najia with each line's six-relation computed against dayBranch.
func NajiaForDay(h Hexagram, dayBranch string) []NajiaLine {
	lines := Najia(h)
	for i := range lines {
		lines[i].Relation = SixRelation(dayBranch, lines[i].Element)
	}
	return lines
}

var (
	elementCycle  = [5]string{"金", "水", "木", "火", "土"} // each generates the next
	relationNames = [5]string{"兄弟", "子孙", "妻财", "官鬼", "父母"}
)

// SixRelation names how element stands to the element of dayBranch. Unknown
// branches count as 土; an unknown element yields "".
func SixRelation(dayBranch, element string) string {
	dayElement := "土"
	if i := reference.BranchIndex(dayBranch); i >= 0 {
		dayElement = reference.BranchElements[i]
	}
	d, t := cycleIndex(dayElement), cycleIndex(element)
	if t < 0 {
		return ""
	}
	return relationNames[(t-d+5)%5]
}

func cycleIndex(element string) int {
	for i, e := range elementCycle {
		if e == element {
			return i
		}
	}
	return -1
}

// LineText returns the classic text of a line (1 = bottom), or a placeholder
// like "屯第3爻" when the table has none.
func LineText(h Hexagram, position int) string {
	if position >= 1 && position <= len(h.LineTexts) && h.LineTexts[position-1] != "" {
		return h.LineTexts[position-1]
	}
	return fmt.Sprintf("%s第%d爻", h.Name, position)
}
