package divination

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"liuyao/internal/calendar"
	"liuyao/internal/hexagram"
	"liuyao/internal/logging"
)

// castWarnThreshold is how long a cast may take before it is logged as slow.
const castWarnThreshold = 50 * time.Millisecond

// EngineConfig wires the engine's collaborators. Zero fields get defaults:
// the embedded table, the global math/rand/v2 source, the system clock, UTC
// and random UUIDs.
type EngineConfig struct {
	Resolver *hexagram.Resolver
	Rand     Rand
	Clock    Clock
	Location *time.Location
	NewID    func() string
}

// Engine turns casts into complete results. It holds no mutable state and is
// safe for concurrent use as long as its Rand is.
type Engine struct {
	resolver *hexagram.Resolver
	rand     Rand
	clock    Clock
	location *time.Location
	newID    func() string
}

// NewEngine creates an engine, filling unset config fields with defaults.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		resolver: cfg.Resolver,
		rand:     cfg.Rand,
		clock:    cfg.Clock,
		location: cfg.Location,
		newID:    cfg.NewID,
	}
	if e.resolver == nil {
		e.resolver = hexagram.Default()
	}
	if e.rand == nil {
		e.rand = globalRand{}
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.location == nil {
		e.location = time.UTC
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// Time casts for a solar date and hour and attaches the lunar date and gan-zhi.
func (e *Engine) Time(year, month, day, hour int, question string) (*Result, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	lunar, gz, err := calendar.LunarDateWithGanZhi(year, month, day, hour)
	if err != nil {
		return nil, err
	}

	res, err := e.build(MethodTime, CastByTime(year, month, day, hour), question)
	if err != nil {
		return nil, err
	}
	res.TimeInfo = &TimeInfo{Year: year, Month: month, Day: day, Hour: hour}
	res.LunarDate = &lunar
	res.GanZhi = &gz
	return res, nil
}

// Now casts by time for the clock's current moment in the engine's location.
func (e *Engine) Now(question string) (*Result, error) {
	t := e.clock.Now().In(e.location)
	return e.Time(t.Year(), int(t.Month()), t.Day(), t.Hour(), question)
}

// Number casts from two positive numbers.
func (e *Engine) Number(a, b int, question string) (*Result, error) {
	if a <= 0 || b <= 0 {
		return nil, fmt.Errorf("%w: got %d and %d", ErrInvalidNumber, a, b)
	}
	res, err := e.build(MethodNumber, CastByNumber(a, b), question)
	if err != nil {
		return nil, err
	}
	res.InputNumbers = []int{a, b}
	return res, nil
}

// Coin casts by six rounds of three coins drawn from the engine's Rand.
func (e *Engine) Coin(question string) (*Result, error) {
	return e.build(MethodCoin, CastByCoins(e.rand), question)
}

// Manual casts from six line types entered top line first.
func (e *Engine) Manual(types []hexagram.YaoType, question string) (*Result, error) {
	c, err := CastManually(types)
	if err != nil {
		return nil, err
	}
	return e.build(MethodManual, c, question)
}

func (e *Engine) build(method Method, c Cast, question string) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryDivination, "cast "+string(method))
	defer timer.StopWithThreshold(castWarnThreshold)
	logging.DivinationDebug("%s drew %s over %s, moving %v", method, c.Upper.Name, c.Lower.Name, c.MovingPositions)

	original, ok := e.resolver.ByTrigrams(c.Upper.Name, c.Lower.Name)
	if !ok {
		logging.DivinationWarn("no hexagram for %s over %s", c.Upper.Name, c.Lower.Name)
		return nil, fmt.Errorf("%w: %s over %s", ErrHexagramNotFound, c.Upper.Name, c.Lower.Name)
	}

	res := &Result{
		ID:              e.newID(),
		CreatedAt:       e.clock.Now(),
		Method:          method,
		Question:        question,
		Original:        original,
		MovingPositions: c.MovingPositions,
		Yaos:            c.Yaos,
		CoinRounds:      c.CoinRounds,
	}
	if res.MovingPositions == nil {
		res.MovingPositions = []int{}
	}
	if changed, ok := e.resolver.Changed(original, c.MovingPositions); ok {
		res.Changed = &changed
	}

	logging.Get(logging.CategoryDivination).
		WithFields(map[string]interface{}{"id": res.ID, "method": string(method)}).
		Info("cast %s", res.Summary())
	return res, nil
}
