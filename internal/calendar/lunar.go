// Package calendar converts Gregorian dates to the Chinese lunisolar calendar and
// labels years, months, days and hours with their sexagenary (gan-zhi) names.
//
// Conversion is table driven: one packed record per lunar year from 1900 to 2100,
// walked from the epoch 1900-01-31 (lunar 1900, month 1, day 1). All day counting
// happens on UTC midnights so local DST rules never shift an offset.
package calendar

import (
	"fmt"
	"time"

	"liuyao/internal/logging"
	"liuyao/internal/reference"
)

const secondsPerDay = 86400

// epoch is the solar date of lunar 1900-01-01.
var epoch = time.Date(1900, time.January, 31, 0, 0, 0, 0, time.UTC)

// yearStarts[i] is the day offset from epoch of lunar new year MinLunarYear+i.
// The final entry is one past the last supported day.
var yearStarts = buildYearStarts()

func buildYearStarts() []int {
	n := reference.MaxLunarYear - reference.MinLunarYear + 1
	starts := make([]int, n+1)
	for i := 0; i < n; i++ {
		r, _ := reference.LunarYear(reference.MinLunarYear + i)
		starts[i+1] = starts[i] + r.Days()
	}
	return starts
}

func lastSupportedDay() time.Time {
	return epoch.AddDate(0, 0, yearStarts[len(yearStarts)-1]-1)
}

// lastConvertibleDay is the last solar date SolarToLunar accepts: the earlier of
// 31 December of MaxLunarYear and the last day of the table. Lunar 2100 runs into
// January 2101, but those solar dates fall outside the solar year range.
func lastConvertibleDay() time.Time {
	yearEnd := time.Date(reference.MaxLunarYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	if last := lastSupportedDay(); last.Before(yearEnd) {
		return last
	}
	return yearEnd
}

// LunarDate is a date in the Chinese lunisolar calendar with its gan-zhi labels.
type LunarDate struct {
	Year        int    `yaml:"year" json:"year"`
	Month       int    `yaml:"month" json:"month"`
	Day         int    `yaml:"day" json:"day"`
	IsLeapMonth bool   `yaml:"is_leap_month" json:"isLeapMonth"`
	YearGanZhi  string `yaml:"year_gan_zhi" json:"yearGanZhi"`
	MonthGanZhi string `yaml:"month_gan_zhi" json:"monthGanZhi"`
	DayGanZhi   string `yaml:"day_gan_zhi" json:"dayGanZhi"`
}

// String renders the date like "2024年正月初一".
func (d LunarDate) String() string {
	return FormatLunarDate(d)
}

// civilDays counts days since 1970-01-01 for a proleptic Gregorian date.
// Month and day are normalized the way time.Date normalizes them.
func civilDays(year, month, day int) int {
	return int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

var epochDays = civilDays(1900, 1, 31)

// SolarToLunar converts a Gregorian date to a lunar date.
// Years outside 1900-2100 and days before 1900-01-31 or after the last day of
// lunar year 2100 return an *OutOfRangeError.
func SolarToLunar(year, month, day int) (LunarDate, error) {
	if year < reference.MinLunarYear || year > reference.MaxLunarYear {
		logging.CalendarDebug("solar year %d outside table", year)
		return LunarDate{}, &OutOfRangeError{Year: year, Month: month, Day: day}
	}

	offset := civilDays(year, month, day) - epochDays
	if offset < 0 || offset >= yearStarts[len(yearStarts)-1] {
		logging.Get(logging.CategoryCalendar).StructuredLog("debug", "solar date outside table", map[string]interface{}{
			"year": year, "month": month, "day": day, "offset": offset,
		})
		return LunarDate{}, &OutOfRangeError{Year: year, Month: month, Day: day}
	}

	lunarYear := reference.MinLunarYear
	for {
		r, _ := reference.LunarYear(lunarYear)
		days := r.Days()
		if offset < days {
			break
		}
		offset -= days
		lunarYear++
	}

	lunarMonth, lunarDay, leap, err := walkMonths(lunarYear, offset)
	if err != nil {
		return LunarDate{}, err
	}

	return LunarDate{
		Year:        lunarYear,
		Month:       lunarMonth,
		Day:         lunarDay,
		IsLeapMonth: leap,
		YearGanZhi:  YearGanZhi(lunarYear),
		MonthGanZhi: MonthGanZhi(lunarYear, lunarMonth),
		DayGanZhi:   DayGanZhi(year, month, day),
	}, nil
}

// walkMonths finds the month holding day offset within lunarYear. The leap slot
// follows its ordinary month and is visited once.
func walkMonths(lunarYear, offset int) (month, day int, leap bool, err error) {
	r, _ := reference.LunarYear(lunarYear)
	leapMonth := r.LeapMonth()

	for m := 1; m <= 12; m++ {
		n := r.MonthDays(m)
		if offset < n {
			return m, offset + 1, false, nil
		}
		offset -= n

		if m == leapMonth {
			n = r.LeapMonthDays()
			if offset < n {
				return m, offset + 1, true, nil
			}
			offset -= n
		}
	}
	logging.CalendarWarn("offset %d left over after walking lunar year %d", offset, lunarYear)
	return 0, 0, false, fmt.Errorf("offset runs past the end of lunar year %d", lunarYear)
}

// LunarToSolar returns the Gregorian date (UTC midnight) of a lunar date.
// leap selects the intercalary copy of month, which must be the year's leap month.
func LunarToSolar(year, month, day int, leap bool) (time.Time, error) {
	r, ok := reference.LunarYear(year)
	if !ok {
		return time.Time{}, &OutOfRangeError{Year: year, Month: month, Day: day, Lunar: true}
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidLunarDate, month)
	}
	if leap && r.LeapMonth() != month {
		return time.Time{}, fmt.Errorf("%w: lunar year %d has no leap month %d", ErrInvalidLunarDate, year, month)
	}

	size := r.MonthDays(month)
	if leap {
		size = r.LeapMonthDays()
	}
	if day < 1 || day > size {
		return time.Time{}, fmt.Errorf("%w: day %d, month has %d days", ErrInvalidLunarDate, day, size)
	}

	offset := yearStarts[year-reference.MinLunarYear]
	for m := 1; m < month; m++ {
		offset += r.MonthDays(m)
		if m == r.LeapMonth() {
			offset += r.LeapMonthDays()
		}
	}
	if leap {
		offset += r.MonthDays(month)
	}
	offset += day - 1

	return epoch.AddDate(0, 0, offset), nil
}

// LunarNewYear returns the solar date of the first day of a lunar year.
func LunarNewYear(year int) (time.Time, error) {
	return LunarToSolar(year, 1, 1, false)
}

// YearDays returns the length of a lunar year, or 0 outside the table.
func YearDays(year int) int {
	r, ok := reference.LunarYear(year)
	if !ok {
		return 0
	}
	return r.Days()
}

// LeapMonth returns the leap month of a lunar year (0 for none or outside the table).
func LeapMonth(year int) int {
	r, ok := reference.LunarYear(year)
	if !ok {
		return 0
	}
	return r.LeapMonth()
}

// MonthDays returns 29 or 30 for a month that exists, 0 otherwise.
func MonthDays(year, month int, leap bool) int {
	r, ok := reference.LunarYear(year)
	if !ok {
		return 0
	}
	if leap {
		if r.LeapMonth() != month {
			return 0
		}
		return r.LeapMonthDays()
	}
	return r.MonthDays(month)
}

// FormatLunarDate renders a lunar date like "2024年正月初一"; leap months get a 闰 prefix.
func FormatLunarDate(d LunarDate) string {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 30 {
		return fmt.Sprintf("%d年%d月%d日", d.Year, d.Month, d.Day)
	}
	leap := ""
	if d.IsLeapMonth {
		leap = "闰"
	}
	return fmt.Sprintf("%d年%s%s%s", d.Year, leap, reference.LunarMonthNames[d.Month-1], reference.LunarDayNames[d.Day-1])
}
