// Package divination casts hexagrams by time, by a pair of numbers, by coin toss
// or from lines entered by hand, and assembles complete results.
//
// The cast functions are pure. Randomness and the clock are injected through
// Engine so every result can be reproduced in tests.
package divination

import (
	"liuyao/internal/hexagram"
	"liuyao/internal/reference"
)

// numberOrder maps (n mod 8)-1 to a trigram; a remainder of 0 takes the last slot.
var numberOrder = [8]string{"坤", "震", "坎", "兑", "艮", "离", "巽", "乾"}

// Cast is the raw outcome of a method before it is resolved to hexagrams.
type Cast struct {
	Upper           reference.Trigram
	Lower           reference.Trigram
	Yaos            []hexagram.Yao // top line first
	MovingPositions []int
	CoinRounds      []CoinRound
}

// NumberToTrigram maps any integer onto a trigram.
func NumberToTrigram(n int) reference.Trigram {
	r := reference.Mod(n, 8)
	idx := r - 1
	if r == 0 {
		idx = 7
	}
	t, _ := reference.TrigramByName(numberOrder[idx])
	return t
}

// MovingYaoFromSum maps any integer onto a line position 1..6.
func MovingYaoFromSum(n int) int {
	r := reference.Mod(n, 6)
	if r == 0 {
		return 6
	}
	return r
}

// CastByTime casts from a solar date and hour. The upper trigram comes from
// year+month+day, the lower from that sum plus the two-hour period number
// floor(hour/2)+1. Any int is accepted.
func CastByTime(year, month, day, hour int) Cast {
	hourNumber := reference.FloorDiv(hour, 2) + 1
	upperSum := year + month + day
	lowerSum := upperSum + hourNumber
	return castFromSums(upperSum, lowerSum, lowerSum)
}

// CastByNumber casts from two numbers; their sum picks the moving line.
func CastByNumber(a, b int) Cast {
	return castFromSums(a, b, a+b)
}

func castFromSums(upperSum, lowerSum, movingSum int) Cast {
	upper := NumberToTrigram(upperSum)
	lower := NumberToTrigram(lowerSum)
	moving := MovingYaoFromSum(movingSum)
	return Cast{
		Upper:           upper,
		Lower:           lower,
		Yaos:            hexagram.YaosFromTrigrams(upper, lower, moving),
		MovingPositions: []int{moving},
	}
}
