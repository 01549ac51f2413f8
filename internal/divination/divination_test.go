package divination

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"liuyao/internal/calendar"
	"liuyao/internal/hexagram"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// seqRand replays vals in order and counts draws.
type seqRand struct {
	vals  []int
	draws int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[s.draws%len(s.vals)] % n
	s.draws++
	return v
}

func TestNumberToTrigram(t *testing.T) {
	tests := map[int]string{
		1: "坤", 2: "震", 3: "坎", 4: "兑", 5: "艮", 6: "离", 7: "巽", 8: "乾",
		0: "乾", 9: "坤", 16: "乾", -1: "巽", 2026: "震", 2033: "坤",
	}
	for n, want := range tests {
		assert.Equal(t, want, NumberToTrigram(n).Name, "n=%d", n)
	}
}

func TestMovingYaoFromSum(t *testing.T) {
	tests := map[int]int{1: 1, 5: 5, 6: 6, 0: 6, 7: 1, 12: 6, -1: 5, 2033: 5}
	for n, want := range tests {
		assert.Equal(t, want, MovingYaoFromSum(n), "n=%d", n)
	}
	for n := -100; n <= 100; n++ {
		got := MovingYaoFromSum(n)
		assert.True(t, got >= 1 && got <= 6)
	}
}

func TestNumberToTrigram_PeriodEight(t *testing.T) {
	for n := -200; n <= 200; n++ {
		assert.Equal(t, NumberToTrigram(n), NumberToTrigram(n+8), "n=%d", n)
	}
}

func TestMovingYaoFromSum_PeriodSix(t *testing.T) {
	for n := -200; n <= 200; n++ {
		assert.Equal(t, MovingYaoFromSum(n), MovingYaoFromSum(n+6), "n=%d", n)
	}
}

func TestCastByTime_Regression(t *testing.T) {
	c := CastByTime(2024, 1, 1, 12)
	assert.Equal(t, "震", c.Upper.Name)
	assert.Equal(t, "坤", c.Lower.Name)
	assert.Equal(t, []int{5}, c.MovingPositions)
	assert.Equal(t, "001000", hexagram.Binary(c.Yaos))
	assert.Equal(t, hexagram.OldYin, c.Yaos[1].Type, "position 5 is second from the top")
}

func TestCastByTime_NegativeHourFloors(t *testing.T) {
	// floor(-1/2)+1 is 0, so the lower sum equals the upper sum 2026.
	c := CastByTime(2024, 1, 1, -1)
	assert.Equal(t, "震", c.Upper.Name)
	assert.Equal(t, "震", c.Lower.Name)
	assert.Equal(t, []int{4}, c.MovingPositions)

	// -3 floors to -2, one period before -1.
	c = CastByTime(2024, 1, 1, -3)
	assert.Equal(t, NumberToTrigram(2025).Name, c.Lower.Name)
	assert.Equal(t, []int{MovingYaoFromSum(2025)}, c.MovingPositions)

	// Hours in the same period agree.
	for h := -24; h < 24; h += 2 {
		assert.Equal(t, CastByTime(2024, 1, 1, h), CastByTime(2024, 1, 1, h+1), "hour %d", h)
	}
}

func TestCastByNumber(t *testing.T) {
	c := CastByNumber(3, 5)
	assert.Equal(t, "坎", c.Upper.Name)
	assert.Equal(t, "艮", c.Lower.Name)
	assert.Equal(t, []int{2}, c.MovingPositions)
	assert.Len(t, c.Yaos, 6)
}

func TestCoinsToYaoType(t *testing.T) {
	f, b := Front, Back
	tests := []struct {
		coins [3]CoinFace
		want  hexagram.YaoType
	}{
		{[3]CoinFace{f, f, f}, hexagram.OldYang},
		{[3]CoinFace{f, f, b}, hexagram.Yang},
		{[3]CoinFace{b, f, f}, hexagram.Yang},
		{[3]CoinFace{b, b, f}, hexagram.Yin},
		{[3]CoinFace{f, b, b}, hexagram.Yin},
		{[3]CoinFace{b, b, b}, hexagram.OldYin},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoinsToYaoType(tt.coins), "%v", tt.coins)
	}
}

func TestCastByCoins_Deterministic(t *testing.T) {
	r := &seqRand{vals: []int{0}}
	c := CastByCoins(r)
	assert.Equal(t, 18, r.draws)
	assert.Equal(t, "乾", c.Upper.Name)
	assert.Equal(t, "乾", c.Lower.Name)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, c.MovingPositions)
	require.Len(t, c.CoinRounds, 6)
	assert.Equal(t, 6, c.CoinRounds[0].Position)
	assert.Equal(t, 1, c.CoinRounds[5].Position)
	assert.Equal(t, [3]CoinFace{Front, Front, Front}, c.CoinRounds[0].Coins)

	still := CastByCoins(&seqRand{vals: []int{0, 0, 1}})
	assert.Empty(t, still.MovingPositions)
	assert.Equal(t, "乾", still.Upper.Name)

	a := CastByCoins(rand.New(rand.NewPCG(7, 11)))
	b := CastByCoins(rand.New(rand.NewPCG(7, 11)))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different casts (-a +b):\n%s", diff)
	}
}

func TestCastByCoins_UpperFromTopRounds(t *testing.T) {
	// Rounds for positions 6,5,4 throw three fronts; 3,2,1 throw none.
	vals := append(make([]int, 9), 1, 1, 1, 1, 1, 1, 1, 1, 1)
	c := CastByCoins(&seqRand{vals: vals})
	assert.Equal(t, "乾", c.Upper.Name)
	assert.Equal(t, "坤", c.Lower.Name)
}

func TestCastManually(t *testing.T) {
	c, err := CastManually([]hexagram.YaoType{
		hexagram.Yang, hexagram.Yang, hexagram.OldYang,
		hexagram.Yin, hexagram.Yin, hexagram.OldYin,
	})
	require.NoError(t, err)
	assert.Equal(t, "乾", c.Upper.Name)
	assert.Equal(t, "坤", c.Lower.Name)
	assert.Equal(t, []int{1, 4}, c.MovingPositions)
	assert.Equal(t, 6, c.Yaos[0].Position)
	assert.Nil(t, c.CoinRounds)

	_, err = CastManually([]hexagram.YaoType{hexagram.Yin})
	assert.True(t, errors.Is(err, ErrInvalidYaoCount))

	_, err = CastManually([]hexagram.YaoType{"yin", "yin", "bogus", "yin", "yin", "yin"})
	assert.True(t, errors.Is(err, ErrUnknownYaoType))
}

func testEngine(r Rand) *Engine {
	return NewEngine(EngineConfig{
		Rand:     r,
		Clock:    FixedClock{T: time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC)},
		Location: time.FixedZone("CST", 8*3600),
		NewID:    func() string { return "test-id" },
	})
}

func TestEngine_TimeRegression(t *testing.T) {
	e := testEngine(nil)
	res, err := e.Time(2024, 1, 1, 12, "what now")
	require.NoError(t, err)

	assert.Equal(t, "test-id", res.ID)
	assert.Equal(t, MethodTime, res.Method)
	assert.Equal(t, "what now", res.Question)
	assert.Equal(t, "豫", res.Original.Name)
	assert.Equal(t, 16, res.Original.ID)
	assert.Equal(t, "001000", res.Original.Binary)
	assert.Equal(t, []int{5}, res.MovingPositions)
	require.NotNil(t, res.Changed)
	assert.Equal(t, "解", res.Changed.Name)
	assert.Equal(t, "001010", res.Changed.Binary)

	require.NotNil(t, res.GanZhi)
	assert.Equal(t, "癸卯年 甲子月 甲午日 庚午时", res.GanZhi.Full)
	require.NotNil(t, res.LunarDate)
	assert.Equal(t, "2023年冬月二十", calendar.FormatLunarDate(*res.LunarDate))
	assert.Equal(t, &TimeInfo{Year: 2024, Month: 1, Day: 1, Hour: 12}, res.TimeInfo)
	assert.Empty(t, res.Annotation)
	assert.Empty(t, res.Remark)
	assert.Equal(t, "豫 → 解 (moving [5])", res.Summary())
}

func TestEngine_NowUsesClockAndLocation(t *testing.T) {
	e := testEngine(nil)
	res, err := e.Now("")
	require.NoError(t, err)
	assert.Equal(t, "豫", res.Original.Name)
	assert.Equal(t, 12, res.TimeInfo.Hour)
	assert.True(t, res.CreatedAt.Equal(time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC)))
}

func TestEngine_TimeErrors(t *testing.T) {
	e := testEngine(nil)

	_, err := e.Time(1800, 1, 1, 0, "")
	assert.True(t, errors.Is(err, calendar.ErrOutOfRange))

	_, err = e.Time(2024, 1, 1, 24, "")
	assert.True(t, errors.Is(err, ErrInvalidHour))
}

func TestEngine_Number(t *testing.T) {
	e := testEngine(nil)
	res, err := e.Number(3, 5, "")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, res.InputNumbers)
	assert.Equal(t, "坎", res.Original.Upper)
	assert.Equal(t, "艮", res.Original.Lower)
	assert.Nil(t, res.TimeInfo)

	_, err = e.Number(0, 5, "")
	assert.True(t, errors.Is(err, ErrInvalidNumber))
	_, err = e.Number(3, -1, "")
	assert.True(t, errors.Is(err, ErrInvalidNumber))
}

func TestEngine_Coin(t *testing.T) {
	e := testEngine(&seqRand{vals: []int{0}})
	res, err := e.Coin("")
	require.NoError(t, err)
	assert.Equal(t, "乾", res.Original.Name)
	require.NotNil(t, res.Changed)
	assert.Equal(t, "坤", res.Changed.Name)
	assert.Len(t, res.CoinRounds, 6)

	still, err := testEngine(&seqRand{vals: []int{0, 0, 1}}).Coin("")
	require.NoError(t, err)
	assert.Nil(t, still.Changed)
	assert.False(t, still.HasChanged())
	assert.Equal(t, []int{}, still.MovingPositions)
	assert.Equal(t, "乾", still.Summary())
}

func TestEngine_Manual(t *testing.T) {
	e := testEngine(nil)
	res, err := e.Manual([]hexagram.YaoType{
		hexagram.Yang, hexagram.Yang, hexagram.OldYang,
		hexagram.Yin, hexagram.Yin, hexagram.OldYin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "否", res.Original.Name)
	require.NotNil(t, res.Changed)
	assert.Equal(t, "011100", res.Changed.Binary, "string indexes 0 and 3 flip")

	_, err = e.Manual(nil, "")
	assert.True(t, errors.Is(err, ErrInvalidYaoCount))
}

func TestEngine_MissingHexagram(t *testing.T) {
	rows := hexagram.Default().All()
	small, err := hexagram.NewResolver(rows[:1]) // only 乾
	require.NoError(t, err)

	e := NewEngine(EngineConfig{Resolver: small})
	_, err = e.Number(1, 1, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHexagramNotFound))
	assert.Contains(t, err.Error(), "cannot generate hexagram")
}

func TestEngine_Defaults(t *testing.T) {
	e := NewEngine(EngineConfig{})
	res, err := e.Coin("")
	require.NoError(t, err)
	_, err = uuid.Parse(res.ID)
	assert.NoError(t, err)
	assert.False(t, res.CreatedAt.IsZero())
}

func TestEngine_ConcurrentCoinCasts(t *testing.T) {
	e := NewEngine(EngineConfig{})
	results := make([]*Result, 64)

	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			res, err := e.Coin("")
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	ids := make(map[string]bool)
	for _, res := range results {
		require.NotNil(t, res)
		assert.Len(t, res.Yaos, 6)
		assert.GreaterOrEqual(t, res.Original.ID, 1)
		assert.LessOrEqual(t, res.Original.ID, 64)
		assert.False(t, ids[res.ID], "ids are unique")
		ids[res.ID] = true
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("coin")
	require.NoError(t, err)
	assert.Equal(t, MethodCoin, m)

	_, err = ParseMethod("tarot")
	assert.Error(t, err)
}
