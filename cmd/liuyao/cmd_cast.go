package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liuyao/internal/divination"
	"liuyao/internal/hexagram"
)

var (
	castQuestion string
	castDate     string
	castHour     int
	castSeed     uint64

	// clock is swapped in tests
	clock divination.Clock = divination.RealClock{}
)

// castCmd groups the divination methods
var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Cast a hexagram",
	Long: `Cast a hexagram with one of four methods.

Without a subcommand the configured divination.default_method is used; only
"time" and "coin" can run without arguments.`,
	RunE: runCastDefault,
}

var castTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Cast from a date and hour (default: now)",
	Example: `  liuyao cast time
  liuyao cast time --date 2024-01-01 --hour 12`,
	Args: cobra.NoArgs,
	RunE: runCastTime,
}

var castNumberCmd = &cobra.Command{
	Use:     "number A B",
	Short:   "Cast from two positive numbers",
	Example: "  liuyao cast number 3 5",
	Args:    cobra.ExactArgs(2),
	RunE:    runCastNumber,
}

var castCoinCmd = &cobra.Command{
	Use:   "coin",
	Short: "Cast by six rounds of three coins",
	Args:  cobra.NoArgs,
	RunE:  runCastCoin,
}

var castManualCmd = &cobra.Command{
	Use:   "manual T6 T5 T4 T3 T2 T1",
	Short: "Cast from six lines entered top first",
	Long: `Cast from six lines entered from the top line down.

Each line is one of yin, yang, oldYin, oldYang (or 少阴, 少阳, 老阴, 老阳).`,
	Example: "  liuyao cast manual yang yang oldYang yin yin oldYin",
	Args:    cobra.ExactArgs(6),
	RunE:    runCastManual,
}

func init() {
	castCmd.PersistentFlags().StringVarP(&castQuestion, "question", "q", "", "Question to record with the result")
	castTimeFlags(castTimeCmd)
	castCoinCmd.Flags().Uint64Var(&castSeed, "seed", 0, "Seed for reproducible tosses (0: random)")

	castCmd.AddCommand(castTimeCmd)
	castCmd.AddCommand(castNumberCmd)
	castCmd.AddCommand(castCoinCmd)
	castCmd.AddCommand(castManualCmd)
}

// castTimeFlags registers --date and --hour. --hour counts as given only when
// it was set on the command line.
func castTimeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&castDate, "date", "", "Date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&castHour, "hour", 0, "Hour 0-23 (default: current hour)")
}

func newEngine() *divination.Engine {
	ecfg := divination.EngineConfig{
		Clock:    clock,
		Location: cfg.Location(),
	}
	if castSeed != 0 {
		ecfg.Rand = rand.New(rand.NewPCG(castSeed, castSeed))
	}
	return divination.NewEngine(ecfg)
}

func printResult(cmd *cobra.Command, res *divination.Result) error {
	logger.Debug("cast complete",
		zap.String("id", res.ID),
		zap.String("method", string(res.Method)),
		zap.String("original", res.Original.Name),
		zap.Ints("moving", res.MovingPositions))
	s := currentStyles()
	return writeDocument(cmd.OutOrStdout(), res, func() string {
		return renderResult(s, res)
	}, func() string {
		return resultMarkdown(res)
	})
}

func runCastDefault(cmd *cobra.Command, args []string) error {
	method, err := divination.ParseMethod(cfg.Divination.DefaultMethod)
	if err != nil {
		return err
	}
	switch method {
	case divination.MethodTime:
		return runCastTime(cmd, nil)
	case divination.MethodCoin:
		return runCastCoin(cmd, nil)
	}
	return fmt.Errorf("default method %q needs arguments; use `liuyao cast %s`", method, method)
}

func runCastTime(cmd *cobra.Command, args []string) error {
	engine := newEngine()
	hourSet := cmd.Flags().Changed("hour")
	if castDate == "" && !hourSet {
		res, err := engine.Now(castQuestion)
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	}

	now := clock.Now().In(cfg.Location())
	day := now
	if castDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", castDate, cfg.Location())
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", castDate, err)
		}
		day = parsed
	}
	hour := now.Hour()
	if hourSet {
		hour = castHour
	}

	res, err := engine.Time(day.Year(), int(day.Month()), day.Day(), hour, castQuestion)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func runCastNumber(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args, "first number", "second number")
	if err != nil {
		return err
	}
	res, err := newEngine().Number(v[0], v[1], castQuestion)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func runCastCoin(cmd *cobra.Command, args []string) error {
	res, err := newEngine().Coin(castQuestion)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func runCastManual(cmd *cobra.Command, args []string) error {
	types := make([]hexagram.YaoType, len(args))
	for i, a := range args {
		t, ok := hexagram.ParseYaoType(a)
		if !ok {
			return fmt.Errorf("%w: %q at line %d", divination.ErrUnknownYaoType, a, 6-i)
		}
		types[i] = t
	}
	res, err := newEngine().Manual(types, castQuestion)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}
