package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"liuyao/internal/calendar"
	"liuyao/internal/hexagram"
	"liuyao/internal/reference"
)

var showDayBranch string

// hexagramCmd browses the reference table
var hexagramCmd = &cobra.Command{
	Use:     "hexagram",
	Aliases: []string{"hex"},
	Short:   "Browse the 64 hexagrams and 8 trigrams",
}

var hexagramShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show one hexagram with its texts and na-jia",
	Example: `  liuyao hexagram show 16
  liuyao hexagram show 豫 --day-branch 午`,
	Args: cobra.ExactArgs(1),
	RunE: runHexagramShow,
}

var hexagramListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all hexagrams in King Wen order",
	Args:  cobra.NoArgs,
	RunE:  runHexagramList,
}

var hexagramSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search hexagram names and descriptions",
	Args:  cobra.ExactArgs(1),
	RunE:  runHexagramSearch,
}

var hexagramTrigramsCmd = &cobra.Command{
	Use:   "trigrams",
	Short: "List the eight trigrams",
	Args:  cobra.NoArgs,
	RunE:  runHexagramTrigrams,
}

func init() {
	hexagramShowCmd.Flags().StringVar(&showDayBranch, "day-branch", "", "Day branch for six relations (default: today's)")

	hexagramCmd.AddCommand(hexagramShowCmd)
	hexagramCmd.AddCommand(hexagramListCmd)
	hexagramCmd.AddCommand(hexagramSearchCmd)
	hexagramCmd.AddCommand(hexagramTrigramsCmd)
}

type hexagramDetail struct {
	hexagram.Hexagram `yaml:",inline"`
	Najia             []hexagram.NajiaLine `yaml:"najia" json:"najia"`
}

// findHexagram accepts a King Wen number or an exact name.
func findHexagram(key string) (hexagram.Hexagram, error) {
	r := hexagram.Default()
	if id, err := strconv.Atoi(key); err == nil {
		if h, ok := r.ByID(id); ok {
			return h, nil
		}
		return hexagram.Hexagram{}, fmt.Errorf("no hexagram with id %d (valid: 1-%d)", id, reference.HexagramCount)
	}
	if h, ok := r.ByName(key); ok {
		return h, nil
	}
	return hexagram.Hexagram{}, fmt.Errorf("no hexagram named %q", key)
}

func runHexagramShow(cmd *cobra.Command, args []string) error {
	h, err := findHexagram(args[0])
	if err != nil {
		return err
	}

	branch := showDayBranch
	if branch == "" {
		now := clock.Now().In(cfg.Location())
		day := []rune(calendar.DayGanZhi(now.Year(), int(now.Month()), now.Day()))
		branch = string(day[1:])
	}
	if reference.BranchIndex(branch) < 0 {
		return fmt.Errorf("invalid --day-branch %q", branch)
	}

	lines := hexagram.NajiaForDay(h, branch)
	s := currentStyles()
	return writeDocument(cmd.OutOrStdout(), hexagramDetail{Hexagram: h, Najia: lines}, func() string {
		return renderHexagramDetail(s, h, lines)
	}, func() string {
		return hexagramMarkdown(h, lines)
	})
}

func listText(rows []hexagram.Hexagram) string {
	s := currentStyles()
	var b strings.Builder
	for _, h := range rows {
		fmt.Fprintf(&b, "%2d %s %s  %s\n", h.ID, h.Binary, s.Title.Render(h.Name), s.Muted.Render(h.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

func runHexagramList(cmd *cobra.Command, args []string) error {
	rows := hexagram.Default().All()
	return writeOutput(cmd.OutOrStdout(), rows, func() string {
		return listText(rows)
	})
}

func runHexagramSearch(cmd *cobra.Command, args []string) error {
	rows := hexagram.Default().Search(args[0])
	if len(rows) == 0 {
		return fmt.Errorf("no hexagram matches %q", args[0])
	}
	return writeOutput(cmd.OutOrStdout(), rows, func() string {
		return listText(rows)
	})
}

func runHexagramTrigrams(cmd *cobra.Command, args []string) error {
	trigrams := reference.Trigrams()
	return writeOutput(cmd.OutOrStdout(), trigrams, func() string {
		var b strings.Builder
		for _, t := range trigrams {
			fmt.Fprintf(&b, "%s %s %s  %s %s %s %s\n", t.Symbol, t.Name, t.Binary, t.Nature, t.Element, t.Family, t.Direction)
		}
		return strings.TrimRight(b.String(), "\n")
	})
}
