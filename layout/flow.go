package layout

import (
	"errors"
	"fmt"
)

// DefaultLineSpacing 是正文行距（相对字号）。
const DefaultLineSpacing = 1.4

// DefaultBulletSpacing 是列表项的行距。
const DefaultBulletSpacing = 1.5

// DefaultBulletIndent 是列表文本相对列表左边界的缩进（mm）。
const DefaultBulletIndent = 4.0

var errNilCursor = errors.New("layout: 游标为空")

// TextStyle 描述一段折行文本的字体与行距。
type TextStyle struct {
	Font        FontHandle
	Size        float64 // pt
	Color       Color
	LineSpacing float64 // <=0 时取 DefaultLineSpacing
	MaxLines    int     // >0 时截断
	Ellipsis    string
}

// LineHeight 返回行高（mm）。
func (s TextStyle) LineHeight() float64 {
	spacing := s.LineSpacing
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return Pt(s.Size * spacing)
}

// Position 是排版区域的水平范围。
type Position struct {
	X     float64
	Width float64
}

// BulletStyle 描述项目符号列表。
type BulletStyle struct {
	Text     TextStyle // LineSpacing<=0 时取 DefaultBulletSpacing
	Marker   Marker
	Indent   float64 // <=0 时取 DefaultBulletIndent
	MaxItems int     // >0 时只渲染前 MaxItems 项
}

// Flow 把折行结果按行提交给游标所在的页面，必要时分页。
type Flow struct {
	wrapper *Wrapper
	opts    FlowOptions
}

// NewFlow 创建 Flow；零值 FlowOptions 使用默认的行底留白与估算系数。
func NewFlow(w *Wrapper, opts FlowOptions) *Flow {
	if w == nil {
		w = NewWrapper(nil)
	}
	if opts.LinePadding <= 0 {
		opts.LinePadding = DefaultLinePadding
	}
	if opts.FallbackFactor > 0 {
		cp := *w
		cp.FallbackFactor = opts.FallbackFactor
		w = &cp
	}
	return &Flow{wrapper: w, opts: opts}
}

// LinePadding 返回每行分页检查时在行高之外预留的底部空间（mm）。
func (f *Flow) LinePadding() float64 { return f.opts.LinePadding }

// DrawWrapped 折行 text 并逐行绘制：每行前检查 lineHeight+LinePadding 的空间，
// 不足则分页，然后在 CursorY 处绘制并下移一个行高。返回绘制后的 CursorY。
// 空文本不绘制任何内容，也不移动游标。
func (f *Flow) DrawWrapped(text string, style TextStyle, pos Position, cur *PageCursor) (float64, error) {
	if cur == nil {
		return 0, errNilCursor
	}
	lines, err := f.lines(text, style, pos.Width)
	if err != nil {
		return cur.CursorY, err
	}
	lh := style.LineHeight()
	for _, line := range lines {
		if err := f.emit(line, style, pos.X, lh, cur); err != nil {
			return cur.CursorY, err
		}
	}
	return cur.CursorY, nil
}

// DrawBulletList 绘制项目符号列表。每项在 Width-Indent 内折行，
// 项目符号只画在首行左侧，文本从 X+Indent 开始。空白项被跳过。返回绘制后的 CursorY。
func (f *Flow) DrawBulletList(items []string, style BulletStyle, pos Position, cur *PageCursor) (float64, error) {
	if cur == nil {
		return 0, errNilCursor
	}
	indent := style.Indent
	if indent <= 0 {
		indent = DefaultBulletIndent
	}
	ts := style.Text
	if ts.LineSpacing <= 0 {
		ts.LineSpacing = DefaultBulletSpacing
	}
	if style.MaxItems > 0 && len(items) > style.MaxItems {
		items = items[:style.MaxItems]
	}
	lh := ts.LineHeight()
	for _, item := range items {
		if item == "" {
			continue
		}
		lines, err := f.lines(item, ts, pos.Width-indent)
		if err != nil {
			return cur.CursorY, err
		}
		for i, line := range lines {
			if _, err := cur.Ensure(lh + f.opts.LinePadding); err != nil {
				return cur.CursorY, err
			}
			if i == 0 {
				if err := style.Marker.Draw(cur.Page(), pos.X, cur.CursorY); err != nil {
					return cur.CursorY, err
				}
			}
			if err := f.draw(line, ts, pos.X+indent, cur); err != nil {
				return cur.CursorY, err
			}
			cur.Advance(lh)
		}
	}
	return cur.CursorY, nil
}

func (f *Flow) lines(text string, style TextStyle, width float64) ([]string, error) {
	lines, err := f.wrapper.Wrap(text, style.Font, style.Size, width)
	if err != nil {
		return nil, fmt.Errorf("折行失败: %w", err)
	}
	return f.wrapper.Truncate(lines, Truncation{MaxLines: style.MaxLines, Ellipsis: style.Ellipsis}, style.Font, style.Size, width), nil
}

func (f *Flow) emit(line string, style TextStyle, x, lh float64, cur *PageCursor) error {
	if _, err := cur.Ensure(lh + f.opts.LinePadding); err != nil {
		return err
	}
	if err := f.draw(line, style, x, cur); err != nil {
		return err
	}
	cur.Advance(lh)
	return nil
}

func (f *Flow) draw(line string, style TextStyle, x float64, cur *PageCursor) error {
	return cur.Page().DrawText(TextRun{
		Content: line,
		X:       x,
		Y:       cur.CursorY,
		Font:    style.Font,
		Size:    style.Size,
		Color:   style.Color,
	})
}
