package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liuyao/internal/calendar"
)

var solarLeap bool

// lunarCmd converts a solar date
var lunarCmd = &cobra.Command{
	Use:     "lunar YYYY MM DD",
	Short:   "Convert a Gregorian date to the lunar calendar",
	Example: "  liuyao lunar 2024 2 10",
	Args:    cobra.ExactArgs(3),
	RunE:    runLunar,
}

// solarCmd converts a lunar date back
var solarCmd = &cobra.Command{
	Use:     "solar YYYY MM DD",
	Short:   "Convert a lunar date to the Gregorian calendar",
	Example: "  liuyao solar 2023 2 1 --leap",
	Args:    cobra.ExactArgs(3),
	RunE:    runSolar,
}

// ganzhiCmd labels a moment with its four pillars
var ganzhiCmd = &cobra.Command{
	Use:     "ganzhi YYYY MM DD HH",
	Short:   "Show the year, month, day and hour gan-zhi of a moment",
	Example: "  liuyao ganzhi 2024 1 1 12",
	Args:    cobra.ExactArgs(4),
	RunE:    runGanZhi,
}

func init() {
	solarCmd.Flags().BoolVar(&solarLeap, "leap", false, "The month is the year's leap month")
}

type lunarOutput struct {
	Solar  string             `yaml:"solar" json:"solar"`
	Lunar  calendar.LunarDate `yaml:"lunar" json:"lunar"`
	Text   string             `yaml:"text" json:"text"`
	Zodiac string             `yaml:"zodiac" json:"zodiac"`
}

type ganzhiOutput struct {
	calendar.GanZhi `yaml:",inline"`
	Shichen         string `yaml:"shichen" json:"shichen"`
}

// parseInts converts positional arguments, naming the first bad one.
func parseInts(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			name := fmt.Sprintf("argument %d", i+1)
			if i < len(names) {
				name = names[i]
			}
			return nil, fmt.Errorf("invalid %s %q: must be an integer", name, a)
		}
		out[i] = v
	}
	return out, nil
}

func runLunar(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args, "year", "month", "day")
	if err != nil {
		return err
	}
	logger.Debug("converting solar date", zap.Ints("ymd", v))

	ld, err := calendar.SolarToLunar(v[0], v[1], v[2])
	if err != nil {
		return err
	}

	out := lunarOutput{
		Solar:  fmt.Sprintf("%04d-%02d-%02d", v[0], v[1], v[2]),
		Lunar:  ld,
		Text:   ld.String(),
		Zodiac: calendar.Zodiac(ld.Year),
	}
	return writeOutput(cmd.OutOrStdout(), out, func() string {
		return fmt.Sprintf("%s  %s年 %s月 %s日  属%s", out.Text, ld.YearGanZhi, ld.MonthGanZhi, ld.DayGanZhi, out.Zodiac)
	})
}

func runSolar(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args, "year", "month", "day")
	if err != nil {
		return err
	}

	t, err := calendar.LunarToSolar(v[0], v[1], v[2], solarLeap)
	if err != nil {
		return err
	}
	date := t.Format("2006-01-02")
	return writeOutput(cmd.OutOrStdout(), map[string]string{"solar": date}, func() string {
		return date
	})
}

func runGanZhi(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args, "year", "month", "day", "hour")
	if err != nil {
		return err
	}

	gz, err := calendar.GetGanZhi(v[0], v[1], v[2], v[3])
	if err != nil {
		return err
	}
	out := ganzhiOutput{GanZhi: gz, Shichen: calendar.Shichen(v[3])}
	return writeOutput(cmd.OutOrStdout(), out, func() string {
		return fmt.Sprintf("%s  (%s)", gz.Full, out.Shichen)
	})
}
