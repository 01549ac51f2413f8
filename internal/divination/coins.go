package divination

import (
	"fmt"
	"math/rand/v2"

	"liuyao/internal/hexagram"
)

// Rand is the source of coin tosses. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// CoinFace is one side of a coin.
type CoinFace string

const (
	Front CoinFace = "front"
	Back  CoinFace = "back"
)

// CoinRound records the three coins thrown for one line.
type CoinRound struct {
	Position int              `yaml:"position" json:"position"`
	Coins    [3]CoinFace      `yaml:"coins" json:"coins"`
	YaoType  hexagram.YaoType `yaml:"yao_type" json:"yaoType"`
}

// CoinsToYaoType reads a throw by counting fronts only.
func CoinsToYaoType(coins [3]CoinFace) hexagram.YaoType {
	fronts := 0
	for _, c := range coins {
		if c == Front {
			fronts++
		}
	}
	switch fronts {
	case 3:
		return hexagram.OldYang
	case 2:
		return hexagram.Yang
	case 1:
		return hexagram.Yin
	default:
		return hexagram.OldYin
	}
}

// CastByCoins throws three coins per line from position 6 down to 1, drawing
// exactly 18 values from r.
func CastByCoins(r Rand) Cast {
	rounds := make([]CoinRound, 0, 6)
	yaos := make([]hexagram.Yao, 0, 6)
	for pos := 6; pos >= 1; pos-- {
		var coins [3]CoinFace
		for i := range coins {
			if r.IntN(2) == 0 {
				coins[i] = Front
			} else {
				coins[i] = Back
			}
		}
		t := CoinsToYaoType(coins)
		rounds = append(rounds, CoinRound{Position: pos, Coins: coins, YaoType: t})
		yaos = append(yaos, hexagram.NewYao(t, pos))
	}
	return castFromYaos(yaos, rounds)
}

// CastManually takes six line types in entry order, top line first.
func CastManually(types []hexagram.YaoType) (Cast, error) {
	if len(types) != 6 {
		return Cast{}, fmt.Errorf("%w: got %d", ErrInvalidYaoCount, len(types))
	}
	yaos := make([]hexagram.Yao, 0, 6)
	for i, t := range types {
		if !t.Valid() {
			return Cast{}, fmt.Errorf("%w: %q at line %d", ErrUnknownYaoType, t, 6-i)
		}
		yaos = append(yaos, hexagram.NewYao(t, 6-i))
	}
	return castFromYaos(yaos, nil), nil
}

func castFromYaos(yaos []hexagram.Yao, rounds []CoinRound) Cast {
	upper, lower := hexagram.TrigramsFromYaos(yaos)
	return Cast{
		Upper:           upper,
		Lower:           lower,
		Yaos:            yaos,
		MovingPositions: hexagram.MovingPositions(yaos),
		CoinRounds:      rounds,
	}
}
