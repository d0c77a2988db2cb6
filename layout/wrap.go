package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFallbackFactor 是度量失败时估算字宽的经验系数（相对字号）。
const DefaultFallbackFactor = 0.55

// DefaultEllipsis 是截断时追加的省略号。
const DefaultEllipsis = "..."

// ErrInvalidGeometry 表示字号或可用宽度不是正数，无法排版。
var ErrInvalidGeometry = errors.New("layout: 字号与宽度必须为正数")

// Wrapper 实现按宽度的贪心折行。Wrapper 本身无可变状态，可被多个文档共享，
// 前提是 Measurer 可并发调用。
type Wrapper struct {
	measurer Measurer
	// FallbackFactor 用于度量失败时的估算：runes × size × factor（pt，再换算为 mm）。
	FallbackFactor float64
}

// NewWrapper 创建使用 m 度量的 Wrapper。m 为 nil 时全部使用估算值。
func NewWrapper(m Measurer) *Wrapper {
	return &Wrapper{measurer: m, FallbackFactor: DefaultFallbackFactor}
}

// Wrap 使用 m 将 text 折成宽度不超过 maxWidth 的行，见 Wrapper.Wrap。
func Wrap(text string, m Measurer, font FontHandle, size, maxWidth float64) ([]string, error) {
	return NewWrapper(m).Wrap(text, font, size, maxWidth)
}

// Wrap 将 text 按空格分词后贪心折行；单个词超宽时退化为逐字符切分，
// 不含空格的文本（如泰文）直接逐字符切分。空文本返回空序列。
// 单个字符本身超宽时单独成行，这是最小不可再分单位。
func (w *Wrapper) Wrap(text string, font FontHandle, size, maxWidth float64) ([]string, error) {
	if err := checkGeometry(size, maxWidth); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	width := func(s string) float64 { return w.measure(s, font, size) }

	words := strings.Split(text, " ")
	if len(words) == 1 {
		lines, tail := splitClusters(text, width, maxWidth, nil)
		if tail != "" {
			lines = append(lines, tail)
		}
		return lines, nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if width(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		if width(word) > maxWidth {
			// 超长单词逐字符切分，末尾残段作为下一行的起点
			lines, current = splitClusters(word, width, maxWidth, lines)
			continue
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil
}

// Truncation 限制行数；超出时最后一行逐字符收缩直到 line+Ellipsis 放得下。
type Truncation struct {
	MaxLines int
	Ellipsis string
}

// Truncate 对 Wrap 的结果做截断后处理。MaxLines <= 0 或行数未超限时原样返回。
// 若省略号本身都放不下，结果的最后一行只剩省略号。
func (w *Wrapper) Truncate(lines []string, t Truncation, font FontHandle, size, maxWidth float64) []string {
	if t.MaxLines <= 0 || len(lines) <= t.MaxLines {
		return lines
	}
	ell := t.Ellipsis
	if ell == "" {
		ell = DefaultEllipsis
	}
	out := append([]string(nil), lines[:t.MaxLines]...)
	last := clusters(out[len(out)-1])
	for len(last) > 0 && w.measure(strings.Join(last, "")+ell, font, size) > maxWidth {
		last = last[:len(last)-1]
	}
	out[len(out)-1] = strings.Join(last, "") + ell
	return out
}

// Measure 返回 text 的宽度（mm）；后端失败时返回估算值，不会报错。
func (w *Wrapper) Measure(text string, font FontHandle, size float64) float64 {
	return w.measure(text, font, size)
}

func (w *Wrapper) measure(text string, font FontHandle, size float64) (width float64) {
	if text == "" {
		return 0
	}
	if w.measurer == nil {
		return w.estimate(text, size)
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("glyph metrics panicked, using estimate", "font", font, "size", size, "panic", r)
			width = w.estimate(text, size)
		}
	}()
	v, err := w.measurer.Measure(text, font, size)
	if err != nil {
		Logger().Debug("glyph metrics failed, using estimate", "font", font, "size", size, "err", err)
		return w.estimate(text, size)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		Logger().Debug("glyph metrics returned invalid width, using estimate", "font", font, "width", v)
		return w.estimate(text, size)
	}
	return v
}

func (w *Wrapper) estimate(text string, size float64) float64 {
	factor := w.FallbackFactor
	if factor <= 0 {
		factor = DefaultFallbackFactor
	}
	return Pt(float64(utf8.RuneCountInString(text)) * size * factor)
}

func checkGeometry(size, maxWidth float64) error {
	if !(size > 0) || !(maxWidth > 0) {
		return fmt.Errorf("%w: size=%g maxWidth=%g", ErrInvalidGeometry, size, maxWidth)
	}
	return nil
}

// splitClusters 逐字符累积 token，溢出时把已累积部分追加到 lines。
// 返回追加后的 lines 与尚未输出的残段。
func splitClusters(token string, width func(string) float64, maxWidth float64, lines []string) ([]string, string) {
	part := ""
	for _, ch := range clusters(token) {
		if width(part+ch) <= maxWidth {
			part += ch
			continue
		}
		if part != "" {
			lines = append(lines, part)
		}
		part = ch
	}
	return lines, part
}

// clusters 将 s 切成“字符”：基字符加上紧随其后的组合符号（Mn/Mc/Me），
// 泰文的上下元音与声调符号因此不会和基字符分离。
func clusters(s string) []string {
	out := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		ch := s[i : i+size]
		i += size
		if len(out) > 0 && unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me) {
			out[len(out)-1] += ch
			continue
		}
		out = append(out, ch)
	}
	return out
}
