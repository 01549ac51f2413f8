// Package reference holds the static tables the calendar and hexagram engines read:
// heavenly stems, earthly branches, trigrams, the packed lunar-year records for
// 1900-2100 and the embedded 64-hexagram table.
//
// Every table is built once and never mutated. Accessors that return slices hand out
// copies so callers cannot write through them.
package reference

// Stems are the ten heavenly stems (天干) in cycle order.
var Stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// Branches are the twelve earthly branches (地支) in cycle order.
var Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// ZodiacAnimals follow Branches index for index.
var ZodiacAnimals = [12]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

// ShichenNames are the twelve two-hour periods, indexed like Branches.
var ShichenNames = [12]string{"子时", "丑时", "寅时", "卯时", "辰时", "巳时", "午时", "未时", "申时", "酉时", "戌时", "亥时"}

// LunarMonthNames index 0 is the first lunar month.
var LunarMonthNames = [12]string{"正月", "二月", "三月", "四月", "五月", "六月", "七月", "八月", "九月", "十月", "冬月", "腊月"}

// LunarDayNames index 0 is the first day of a lunar month.
var LunarDayNames = [30]string{
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// BranchElements maps each branch index to its five-element phase.
var BranchElements = [12]string{"水", "土", "木", "木", "土", "火", "火", "土", "金", "金", "土", "水"}

// StemIndex returns the cycle index of a stem, or -1.
func StemIndex(stem string) int {
	for i, s := range Stems {
		if s == stem {
			return i
		}
	}
	return -1
}

// BranchIndex returns the cycle index of a branch, or -1.
func BranchIndex(branch string) int {
	for i, b := range Branches {
		if b == branch {
			return i
		}
	}
	return -1
}

// Mod is the non-negative remainder of x / n for n > 0, so cycle positions stay
// in [0, n) for negative offsets too.
func Mod(x, n int) int {
	return ((x % n) + n) % n
}

// FloorDiv divides rounding toward negative infinity: FloorDiv(-1, 2) is -1.
func FloorDiv(x, n int) int {
	q := x / n
	if (x%n != 0) && ((x < 0) != (n < 0)) {
		q--
	}
	return q
}
