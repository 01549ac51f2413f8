package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"liuyao/internal/divination"
	"liuyao/internal/hexagram"
)

// Colors for line rendering
var (
	yangColor   = lipgloss.Color("#8BC34A") // Lime Green
	yinColor    = lipgloss.Color("#2196F3") // Blue
	movingColor = lipgloss.Color("#e53935") // Red
	mutedColor  = lipgloss.Color("#6b7280") // Gray
)

// styles holds the lipgloss styles used for text output. With color disabled
// every style renders plain text.
type styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Yang   lipgloss.Style
	Yin    lipgloss.Style
	Moving lipgloss.Style
	Muted  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{Title: plain, Label: plain, Yang: plain, Yin: plain, Moving: plain, Muted: plain}
	}
	return styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Label:  lipgloss.NewStyle().Foreground(mutedColor),
		Yang:   lipgloss.NewStyle().Foreground(yangColor),
		Yin:    lipgloss.NewStyle().Foreground(yinColor),
		Moving: lipgloss.NewStyle().Foreground(movingColor).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
	}
}

func currentStyles() styles {
	return newStyles(cfg != nil && cfg.Output.Color)
}

// writeOutput prints v as yaml or json, or calls text for the text format.
func writeOutput(w io.Writer, v interface{}, text func() string) error {
	switch cfg.Output.Format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, text())
		return err
	}
}

// writeDocument is writeOutput for commands that also have a markdown form.
// Other commands print text when markdown is requested.
func writeDocument(w io.Writer, v interface{}, text, markdown func() string) error {
	if cfg.Output.Format != "markdown" {
		return writeOutput(w, v, text)
	}
	rendered, err := renderMarkdown(markdown())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

func renderMarkdown(md string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	if cfg.Output.Color {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// lineGlyph draws one line: solid, broken, and a marker for moving lines.
func lineGlyph(s styles, t hexagram.YaoType) string {
	var body string
	if t.IsYang() {
		body = s.Yang.Render("━━━━━━━")
	} else {
		body = s.Yin.Render("━━━   ━━━")
	}
	switch t {
	case hexagram.OldYang:
		return body + " " + s.Moving.Render("○")
	case hexagram.OldYin:
		return body + " " + s.Moving.Render("×")
	}
	return body
}

// renderFigure draws six lines top first from a binary code and moving set.
func renderFigure(s styles, code string, moving []int) string {
	isMoving := make(map[int]bool, len(moving))
	for _, p := range moving {
		isMoving[p] = true
	}
	var b strings.Builder
	for i := 0; i < len(code); i++ {
		pos := len(code) - i
		t := hexagram.Yin
		if code[i] == '1' {
			t = hexagram.Yang
		}
		if isMoving[pos] {
			if t == hexagram.Yang {
				t = hexagram.OldYang
			} else {
				t = hexagram.OldYin
			}
		}
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render(fmt.Sprintf("%d", pos)), lineGlyph(s, t))
	}
	return strings.TrimRight(b.String(), "\n")
}

func hexagramHeading(s styles, h hexagram.Hexagram) string {
	return s.Title.Render(fmt.Sprintf("第%d卦 %s", h.ID, h.Name)) +
		s.Label.Render(fmt.Sprintf("  (%s上 %s下, %s宫, %s)", h.Upper, h.Lower, h.Palace, h.Element))
}

// renderResult is the text form of a divination result.
func renderResult(s styles, res *divination.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("method:"), res.Method)
	if res.Question != "" {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("question:"), res.Question)
	}
	if res.TimeInfo != nil {
		ti := res.TimeInfo
		fmt.Fprintf(&b, "%s %04d-%02d-%02d %02d时\n", s.Label.Render("time:"), ti.Year, ti.Month, ti.Day, ti.Hour)
	}
	if res.LunarDate != nil {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("lunar:"), res.LunarDate.String())
	}
	if res.GanZhi != nil {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render("gan-zhi:"), res.GanZhi.Full)
	}
	if len(res.InputNumbers) > 0 {
		fmt.Fprintf(&b, "%s %v\n", s.Label.Render("numbers:"), res.InputNumbers)
	}
	b.WriteString("\n")

	// Draw from the cast lines so moving markers follow Yao.Position.
	code := hexagram.Binary(res.Yaos)
	b.WriteString(hexagramHeading(s, res.Original) + "\n")
	b.WriteString(renderFigure(s, code, res.MovingPositions) + "\n")
	fmt.Fprintf(&b, "%s\n", s.Muted.Render(res.Original.Judgment))

	if res.Changed != nil {
		b.WriteString("\n")
		b.WriteString(hexagramHeading(s, *res.Changed) + "\n")
		b.WriteString(renderFigure(s, res.Changed.Binary, nil) + "\n")
		fmt.Fprintf(&b, "%s\n", s.Muted.Render(res.Changed.Judgment))
	}
	fmt.Fprintf(&b, "\n%s %s", s.Label.Render("id:"), res.ID)
	return b.String()
}

// renderHexagramDetail is the text form of `hexagram show`.
func renderHexagramDetail(s styles, h hexagram.Hexagram, lines []hexagram.NajiaLine) string {
	var b strings.Builder
	b.WriteString(hexagramHeading(s, h) + "\n")
	b.WriteString(renderFigure(s, h.Binary, nil) + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("卦辞:"), h.Judgment)
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("彖曰:"), h.Commentary)
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("象曰:"), h.Image)
	fmt.Fprintf(&b, "%s\n\n", s.Muted.Render(h.Description))

	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		rel := l.Relation
		if rel == "" {
			rel = "  "
		}
		fmt.Fprintf(&b, "%d  %s%s%s %s  %s\n", l.Position, l.Stem, l.Branch, l.Element, rel, hexagram.LineText(h, l.Position))
	}
	return strings.TrimRight(b.String(), "\n")
}

func markdownFigure(code string, moving []int) string {
	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(renderFigure(newStyles(false), code, moving))
	b.WriteString("\n```\n")
	return b.String()
}

// resultMarkdown is the markdown form of a divination result.
func resultMarkdown(res *divination.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", res.Summary())
	if res.Question != "" {
		fmt.Fprintf(&b, "> %s\n\n", res.Question)
	}
	fmt.Fprintf(&b, "- **method**: %s\n", res.Method)
	if res.LunarDate != nil {
		fmt.Fprintf(&b, "- **lunar**: %s\n", res.LunarDate.String())
	}
	if res.GanZhi != nil {
		fmt.Fprintf(&b, "- **gan-zhi**: %s\n", res.GanZhi.Full)
	}
	if len(res.InputNumbers) > 0 {
		fmt.Fprintf(&b, "- **numbers**: %v\n", res.InputNumbers)
	}
	fmt.Fprintf(&b, "\n## 本卦 %s\n\n", res.Original.Name)
	b.WriteString(markdownFigure(hexagram.Binary(res.Yaos), res.MovingPositions))
	fmt.Fprintf(&b, "\n%s\n", res.Original.Judgment)
	if res.Changed != nil {
		fmt.Fprintf(&b, "\n## 变卦 %s\n\n", res.Changed.Name)
		b.WriteString(markdownFigure(res.Changed.Binary, nil))
		fmt.Fprintf(&b, "\n%s\n", res.Changed.Judgment)
	}
	return b.String()
}

// hexagramMarkdown is the markdown form of `hexagram show`.
func hexagramMarkdown(h hexagram.Hexagram, lines []hexagram.NajiaLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 第%d卦 %s\n\n", h.ID, h.Name)
	fmt.Fprintf(&b, "%s上 %s下, %s宫, %s\n\n", h.Upper, h.Lower, h.Palace, h.Element)
	b.WriteString(markdownFigure(h.Binary, nil))
	fmt.Fprintf(&b, "\n- **卦辞**: %s\n- **彖曰**: %s\n- **象曰**: %s\n\n%s\n\n", h.Judgment, h.Commentary, h.Image, h.Description)
	b.WriteString("| 爻 | 纳甲 | 六亲 | 爻辞 |\n|---|---|---|---|\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		fmt.Fprintf(&b, "| %d | %s%s%s | %s | %s |\n", l.Position, l.Stem, l.Branch, l.Element, l.Relation, hexagram.LineText(h, l.Position))
	}
	return b.String()
}
