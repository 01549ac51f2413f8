package divination

import (
	"fmt"
	"time"

	"liuyao/internal/calendar"
	"liuyao/internal/hexagram"
)

// Method names a casting method.
type Method string

const (
	MethodTime   Method = "time"
	MethodNumber Method = "number"
	MethodCoin   Method = "coin"
	MethodManual Method = "manual"
)

// ParseMethod accepts the four method names.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodTime, MethodNumber, MethodCoin, MethodManual:
		return m, nil
	}
	return "", fmt.Errorf("unknown divination method %q", s)
}

// TimeInfo is the solar moment a time cast was made for.
type TimeInfo struct {
	Year  int `yaml:"year" json:"year"`
	Month int `yaml:"month" json:"month"`
	Day   int `yaml:"day" json:"day"`
	Hour  int `yaml:"hour" json:"hour"`
}

// Result is a complete divination. Annotation and Remark belong to whatever
// stores results; the engine leaves them empty.
type Result struct {
	ID              string              `yaml:"id" json:"id"`
	CreatedAt       time.Time           `yaml:"created_at" json:"createdAt"`
	Method          Method              `yaml:"method" json:"method"`
	Question        string              `yaml:"question,omitempty" json:"question,omitempty"`
	Original        hexagram.Hexagram   `yaml:"original" json:"originalHexagram"`
	Changed         *hexagram.Hexagram  `yaml:"changed,omitempty" json:"changedHexagram,omitempty"`
	MovingPositions []int               `yaml:"moving_positions" json:"movingYaoPositions"`
	Yaos            []hexagram.Yao      `yaml:"yaos" json:"yaos"`
	CoinRounds      []CoinRound         `yaml:"coin_rounds,omitempty" json:"coinResults,omitempty"`
	InputNumbers    []int               `yaml:"input_numbers,omitempty" json:"inputNumbers,omitempty"`
	TimeInfo        *TimeInfo           `yaml:"time_info,omitempty" json:"timeInfo,omitempty"`
	LunarDate       *calendar.LunarDate `yaml:"lunar_date,omitempty" json:"lunarDate,omitempty"`
	GanZhi          *calendar.GanZhi    `yaml:"gan_zhi,omitempty" json:"ganZhi,omitempty"`
	Annotation      string              `yaml:"annotation,omitempty" json:"annotation,omitempty"`
	Remark          string              `yaml:"remark,omitempty" json:"remark,omitempty"`
}

// HasChanged reports whether any line moved into a changed hexagram.
func (r *Result) HasChanged() bool {
	return r.Changed != nil
}

// Summary is a one-line description like "豫 → 解 (moving [5])".
func (r *Result) Summary() string {
	if r.Changed == nil {
		return r.Original.Name
	}
	return fmt.Sprintf("%s → %s (moving %v)", r.Original.Name, r.Changed.Name, r.MovingPositions)
}
