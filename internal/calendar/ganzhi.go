package calendar

import (
	"fmt"

	"liuyao/internal/reference"
)

// monthStems[yearStem][month-1] is the stem index of a lunar month (五虎遁).
var monthStems = [10][12]int{
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 甲
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 乙
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 丙
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 丁
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 戊
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 己
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 庚
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 辛
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 壬
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 癸
}

// hourStems[dayStem][hourBranch] is the stem index of a two-hour period (五鼠遁).
var hourStems = [10][12]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 甲
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 乙
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 丙
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 丁
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 戊
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 己
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 庚
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 辛
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 壬
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 癸
}

// dayCycleBase is 1900-01-01, counted as 甲辰 (stem 0, branch 4).
var dayCycleBase = civilDays(1900, 1, 1)

// GanZhi holds the four pillar labels of a moment.
type GanZhi struct {
	Year  string `yaml:"year" json:"year"`
	Month string `yaml:"month" json:"month"`
	Day   string `yaml:"day" json:"day"`
	Hour  string `yaml:"hour" json:"hour"`
	Full  string `yaml:"full" json:"full"`
}

func label(stem, branch int) string {
	return reference.Stems[stem] + reference.Branches[branch]
}

func yearStem(lunarYear int) int {
	return reference.Mod(lunarYear-4, 10)
}

// YearGanZhi returns the gan-zhi of a lunar year, e.g. 2024 -> 甲辰.
func YearGanZhi(lunarYear int) string {
	return label(yearStem(lunarYear), reference.Mod(lunarYear-4, 12))
}

// MonthGanZhi returns the gan-zhi of a lunar month. Month 1 is always a 寅 month.
func MonthGanZhi(lunarYear, lunarMonth int) string {
	return label(monthStems[yearStem(lunarYear)][reference.Mod(lunarMonth-1, 12)], reference.Mod(lunarMonth+1, 12))
}

// dayCycle returns the stem and branch indexes of a solar date.
func dayCycle(year, month, day int) (stem, branch int) {
	offset := civilDays(year, month, day) - dayCycleBase
	return reference.Mod(offset, 10), reference.Mod(4+offset, 12)
}

// DayGanZhi returns the gan-zhi of a solar date. Any date is accepted.
func DayGanZhi(year, month, day int) string {
	return label(dayCycle(year, month, day))
}

// ShichenIndex returns the branch index of the two-hour period containing hour.
// 23:00 already belongs to the next 子时.
func ShichenIndex(hour int) int {
	return reference.Mod(reference.FloorDiv(hour+1, 2), 12)
}

// Shichen returns the period name for hour, e.g. 12 -> 午时.
func Shichen(hour int) string {
	return reference.ShichenNames[ShichenIndex(hour)]
}

// HourGanZhi returns the gan-zhi of an hour given the stem index of its day.
func HourGanZhi(dayStem, hour int) string {
	branch := ShichenIndex(hour)
	return label(hourStems[reference.Mod(dayStem, 10)][branch], branch)
}

// Zodiac returns the animal of a lunar year.
func Zodiac(lunarYear int) string {
	return reference.ZodiacAnimals[reference.Mod(lunarYear-4, 12)]
}

// GetGanZhi labels a solar date and hour with all four pillars. Year and month
// follow the lunar date, so the only error is an out-of-range date.
func GetGanZhi(year, month, day, hour int) (GanZhi, error) {
	_, gz, err := LunarDateWithGanZhi(year, month, day, hour)
	return gz, err
}

// LunarDateWithGanZhi converts a solar date and labels it in one pass.
func LunarDateWithGanZhi(year, month, day, hour int) (LunarDate, GanZhi, error) {
	ld, err := SolarToLunar(year, month, day)
	if err != nil {
		return LunarDate{}, GanZhi{}, fmt.Errorf("failed to label %04d-%02d-%02d: %w", year, month, day, err)
	}

	dayStem, _ := dayCycle(year, month, day)
	gz := GanZhi{
		Year:  ld.YearGanZhi,
		Month: ld.MonthGanZhi,
		Day:   ld.DayGanZhi,
		Hour:  HourGanZhi(dayStem, hour),
	}
	gz.Full = fmt.Sprintf("%s年 %s月 %s日 %s时", gz.Year, gz.Month, gz.Day, gz.Hour)
	return ld, gz, nil
}
