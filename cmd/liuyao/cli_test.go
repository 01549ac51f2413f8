package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"liuyao/internal/config"
	"liuyao/internal/divination"
	"liuyao/internal/hexagram"
)

// setupCLI resets globals and returns a command whose output is captured.
func setupCLI(t *testing.T, outFormat string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.Calendar.Timezone = "UTC"
	cfg.Output.Format = outFormat
	cfg.Output.Color = false
	clock = divination.FixedClock{T: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}

	t.Cleanup(func() {
		castQuestion, castDate, castHour, castSeed = "", "", 0, 0
		solarLeap = false
		showDayBranch = ""
		clock = divination.RealClock{}
	})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

// setCastTimeFlags parses args through the cast time flag set on cmd.
func setCastTimeFlags(t *testing.T, cmd *cobra.Command, args ...string) {
	t.Helper()
	castTimeFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
}

func TestLunarCmd(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	require.NoError(t, runLunar(cmd, []string{"2024", "1", "1"}))
	assert.Contains(t, out.String(), "2023年冬月二十")
	assert.Contains(t, out.String(), "癸卯年 甲子月 甲午日")
	assert.Contains(t, out.String(), "属兔")
}

func TestLunarCmd_JSON(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	require.NoError(t, runLunar(cmd, []string{"2023", "3", "22"}))

	var got lunarOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "2023-03-22", got.Solar)
	assert.Equal(t, 2, got.Lunar.Month)
	assert.True(t, got.Lunar.IsLeapMonth)
	assert.Equal(t, "2023年闰二月初一", got.Text)
}

func TestLunarCmd_Errors(t *testing.T) {
	cmd, _ := setupCLI(t, "text")
	err := runLunar(cmd, []string{"2024", "x", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month")

	err = runLunar(cmd, []string{"1850", "1", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside supported range")
}

func TestSolarCmd(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	solarLeap = true
	require.NoError(t, runSolar(cmd, []string{"2023", "2", "1"}))
	assert.Equal(t, "2023-03-22\n", out.String())

	solarLeap = true
	err := runSolar(cmd, []string{"2024", "2", "1"})
	assert.Error(t, err, "2024 has no leap month")
}

func TestGanZhiCmd(t *testing.T) {
	cmd, out := setupCLI(t, "yaml")
	require.NoError(t, runGanZhi(cmd, []string{"2024", "1", "1", "12"}))

	var got map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "癸卯年 甲子月 甲午日 庚午时", got["full"])
	assert.Equal(t, "午时", got["shichen"])
}

func TestCastTimeCmd(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	setCastTimeFlags(t, cmd, "--date", "2024-01-01", "--hour", "12")
	castQuestion = "will it work"
	require.NoError(t, runCastTime(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "第16卦 豫")
	assert.Contains(t, text, "解")
	assert.Contains(t, text, "will it work")
	assert.Contains(t, text, "癸卯年 甲子月 甲午日 庚午时")
	assert.Contains(t, text, "×", "moving yin line is marked")
}

func TestCastTimeCmd_Now(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	require.NoError(t, runCastTime(cmd, nil))

	var res divination.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, divination.MethodTime, res.Method)
	assert.Equal(t, "豫", res.Original.Name)
	require.NotNil(t, res.Changed)
	assert.Equal(t, "解", res.Changed.Name)
}

func TestCastTimeCmd_BadDate(t *testing.T) {
	cmd, _ := setupCLI(t, "text")
	castDate = "2024/01/01"
	err := runCastTime(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")
}

func TestCastTimeCmd_ExplicitHour(t *testing.T) {
	cmd, _ := setupCLI(t, "text")
	setCastTimeFlags(t, cmd, "--hour=-1")
	err := runCastTime(cmd, nil)
	assert.True(t, errors.Is(err, divination.ErrInvalidHour), "explicit -1 is not treated as unset: %v", err)

	cmd, _ = setupCLI(t, "text")
	setCastTimeFlags(t, cmd, "--hour", "24")
	assert.True(t, errors.Is(runCastTime(cmd, nil), divination.ErrInvalidHour))

	// --hour 0 is midnight, not "now" (the clock reads noon).
	cmd, out := setupCLI(t, "json")
	setCastTimeFlags(t, cmd, "--hour", "0")
	require.NoError(t, runCastTime(cmd, nil))
	var res divination.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.NotNil(t, res.TimeInfo)
	assert.Equal(t, 0, res.TimeInfo.Hour)
	assert.Equal(t, 1, res.TimeInfo.Day)
}

func TestCastDateWithoutHourUsesClockHour(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	setCastTimeFlags(t, cmd, "--date", "2023-06-15")
	require.NoError(t, runCastTime(cmd, nil))
	var res divination.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.NotNil(t, res.TimeInfo)
	assert.Equal(t, 12, res.TimeInfo.Hour)
	assert.Equal(t, 15, res.TimeInfo.Day)
}

func TestCastNumberCmd(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	require.NoError(t, runCastNumber(cmd, []string{"3", "5"}))

	var res divination.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, []int{3, 5}, res.InputNumbers)
	assert.Equal(t, []int{2}, res.MovingPositions)

	err := runCastNumber(cmd, []string{"0", "5"})
	assert.True(t, errors.Is(err, divination.ErrInvalidNumber))

	err = runCastNumber(cmd, []string{"three", "5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first number")
}

func TestCastCoinCmd_SeedIsReproducible(t *testing.T) {
	cast := func() divination.Result {
		cmd, out := setupCLI(t, "json")
		castSeed = 42
		require.NoError(t, runCastCoin(cmd, nil))
		var res divination.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res
	}
	a, b := cast(), cast()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Yaos, b.Yaos)
	assert.Equal(t, a.CoinRounds, b.CoinRounds)
	assert.Len(t, a.CoinRounds, 6)
}

func TestCastManualCmd(t *testing.T) {
	cmd, out := setupCLI(t, "yaml")
	require.NoError(t, runCastManual(cmd, []string{"yang", "yang", "老阳", "yin", "少阴", "oldYin"}))

	var res divination.Result
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "否", res.Original.Name)
	assert.Equal(t, []int{1, 4}, res.MovingPositions)
	assert.Equal(t, hexagram.OldYang, res.Yaos[2].Type)

	err := runCastManual(cmd, []string{"yang", "yang", "yang", "yang", "yang", "maybe"})
	assert.True(t, errors.Is(err, divination.ErrUnknownYaoType))
}

func TestCastDefaultMethod(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	cfg.Divination.DefaultMethod = "coin"
	require.NoError(t, runCastDefault(cmd, nil))
	assert.Contains(t, out.String(), "method: coin")

	cfg.Divination.DefaultMethod = "number"
	err := runCastDefault(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs arguments")
}

func TestHexagramShowCmd(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	showDayBranch = "午"
	require.NoError(t, runHexagramShow(cmd, []string{"1"}))

	text := out.String()
	assert.Contains(t, text, "第1卦 乾")
	assert.Contains(t, text, "初九：潜龙勿用。")
	assert.Contains(t, text, "甲戌土 子孙")
	assert.Contains(t, text, "壬午火 兄弟")
}

func TestHexagramShowCmd_ByNameJSON(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	require.NoError(t, runHexagramShow(cmd, []string{"豫"}))

	var got struct {
		ID    int                  `json:"id"`
		Najia []hexagram.NajiaLine `json:"najia"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 16, got.ID)
	require.Len(t, got.Najia, 6)
	assert.NotEmpty(t, got.Najia[0].Relation, "relations use the clock's day")
}

func TestHexagramShowCmd_Errors(t *testing.T) {
	cmd, _ := setupCLI(t, "text")
	assert.Error(t, runHexagramShow(cmd, []string{"65"}))
	assert.Error(t, runHexagramShow(cmd, []string{"nope"}))

	showDayBranch = "X"
	assert.Error(t, runHexagramShow(cmd, []string{"1"}))
}

func TestHexagramListAndSearch(t *testing.T) {
	cmd, out := setupCLI(t, "json")
	require.NoError(t, runHexagramList(cmd, nil))
	var rows []hexagram.Hexagram
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Len(t, rows, 64)

	cmd, out = setupCLI(t, "text")
	require.NoError(t, runHexagramSearch(cmd, []string{"领导"}))
	assert.Contains(t, out.String(), "乾")
	assert.Contains(t, out.String(), "师")

	assert.Error(t, runHexagramSearch(cmd, []string{"zzz"}))
}

func TestHexagramTrigramsCmd(t *testing.T) {
	cmd, out := setupCLI(t, "text")
	require.NoError(t, runHexagramTrigrams(cmd, nil))
	assert.Contains(t, out.String(), "☰ 乾 111")
	assert.Equal(t, 8, strings.Count(out.String(), "\n"))
}

func TestRenderStyles_Color(t *testing.T) {
	s := newStyles(true)
	assert.Contains(t, lineGlyph(s, hexagram.OldYang), "○")
	plain := newStyles(false)
	assert.Equal(t, "━━━   ━━━ ×", lineGlyph(plain, hexagram.OldYin))
	assert.Equal(t, "━━━━━━━", lineGlyph(plain, hexagram.Yang))
}

func TestRootPreRun_LoadsConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: yaml\ncalendar:\n  timezone: UTC\n"), 0644))
	for _, k := range []string{"LIUYAO_TIMEZONE", "LIUYAO_FORMAT", "LIUYAO_LOG_LEVEL", "LIUYAO_DEBUG"} {
		t.Setenv(k, "")
	}

	configPath, format = path, ""
	t.Cleanup(func() { configPath, format, cfg = "", "", nil })

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	rootCmd.PersistentPostRun(rootCmd, nil)
	assert.Equal(t, "yaml", cfg.Output.Format)

	format = "json"
	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	rootCmd.PersistentPostRun(rootCmd, nil)
	assert.Equal(t, "json", cfg.Output.Format, "flag beats file")

	format = "xml"
	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMarkdownOutput(t *testing.T) {
	cmd, out := setupCLI(t, "markdown")
	setCastTimeFlags(t, cmd, "--date", "2024-01-01", "--hour", "12")
	require.NoError(t, runCastTime(cmd, nil))
	assert.Contains(t, out.String(), "豫 → 解")
	assert.Contains(t, out.String(), "本卦 豫")

	cmd, out = setupCLI(t, "markdown")
	showDayBranch = "午"
	require.NoError(t, runHexagramShow(cmd, []string{"乾"}))
	assert.Contains(t, out.String(), "元亨利贞")

	// commands without a markdown form print text
	cmd, out = setupCLI(t, "markdown")
	require.NoError(t, runHexagramTrigrams(cmd, nil))
	assert.Contains(t, out.String(), "☰ 乾 111")
}
