package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange matches any *OutOfRangeError.
	ErrOutOfRange = errors.New("date outside supported lunar table")

	// ErrInvalidLunarDate reports a lunar month or day that does not exist in its year.
	ErrInvalidLunarDate = errors.New("invalid lunar date")
)

// OutOfRangeError reports a date the packed year table cannot cover.
type OutOfRangeError struct {
	Year, Month, Day int
	Lunar            bool // the date was given in the lunar calendar
}

func (e *OutOfRangeError) Error() string {
	kind := "solar"
	if e.Lunar {
		kind = "lunar"
	}
	return fmt.Sprintf("%s date %04d-%02d-%02d outside supported range (%s to %s)",
		kind, e.Year, e.Month, e.Day, epoch.Format("2006-01-02"), lastConvertibleDay().Format("2006-01-02"))
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
