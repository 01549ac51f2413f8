package divination

import "errors"

var (
	// ErrHexagramNotFound means a trigram pair had no row in the resolver's table.
	ErrHexagramNotFound = errors.New("cannot generate hexagram")

	// ErrInvalidNumber rejects non-positive number-method inputs.
	ErrInvalidNumber = errors.New("numbers must be positive")

	// ErrInvalidHour rejects hours outside 0..23.
	ErrInvalidHour = errors.New("hour must be between 0 and 23")

	// ErrInvalidYaoCount rejects manual input without exactly six lines.
	ErrInvalidYaoCount = errors.New("manual cast needs exactly six lines")

	// ErrUnknownYaoType rejects a manual line that is not yin, yang, oldYin or oldYang.
	ErrUnknownYaoType = errors.New("unknown yao type")
)
