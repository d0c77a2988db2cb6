package resume

import (
	"strings"

	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/theme"
)

// 以下间距都以 pt 表示，绘制前换算为 mm。
const (
	textGapPt   = 2 // 联系方式等正文前的间距
	detailGapPt = 1 // 条目内次要信息前的间距
)

// composer 保存一次记录渲染中不变的参数：主题、本地化、字体与项目符号。
type composer struct {
	flow    *layout.Flow
	th      *theme.Theme
	loc     Locale
	rec     *Record
	regular layout.FontHandle
	bold    layout.FontHandle
	marker  layout.Marker
}

// writer 是某一栏的写入位置。
type writer struct {
	*composer
	cur *layout.PageCursor
	pos layout.Position
}

type weight int

const (
	regular weight = iota
	bold
)

// style 返回相对正文字号偏移 delta pt 的文本样式。
func (c *composer) style(delta float64, color layout.Color, w weight) layout.TextStyle {
	font := c.regular
	if w == bold {
		font = c.bold
	}
	return layout.TextStyle{
		Font:        font,
		Size:        c.th.Text.Size + delta,
		Color:       color,
		LineSpacing: c.th.Text.LineSpacing,
	}
}

func (w *writer) skip(pt float64) {
	if pt > 0 {
		w.cur.Skip(layout.Pt(pt))
	}
}

// lead 描述栏目标题之后第一块内容的首行：前置间距（pt）与行高（mm）。
type lead struct {
	gapPt  float64
	height float64
}

func textLead(gapPt float64, style layout.TextStyle) lead {
	return lead{gapPt: gapPt, height: style.LineHeight()}
}

func (w *writer) bulletLead(gapPt, delta float64) lead {
	return lead{gapPt: gapPt, height: w.bulletStyle(delta).Text.LineHeight()}
}

// title 绘制栏目标题，并保证 next 描述的首行与标题落在同一页。
// 预留高度按绘制时的顺序逐项扣减，与正文首行的分页检查结果一致。
func (w *writer) title(label string, next lead) error {
	y := w.cur.CursorY - w.th.Text.TitleAdvance
	if next.gapPt > 0 {
		y -= layout.Pt(next.gapPt)
	}
	if y-(next.height+w.flow.LinePadding()) < w.cur.MarginBottom && w.cur.CursorY < w.cur.Top() {
		layout.Logger().Debug("section title moved to next page", "title", label, "page", w.cur.PageIndex, "remaining", w.cur.Remaining())
		if err := w.cur.Break(); err != nil {
			return err
		}
	}
	err := w.cur.Page().DrawText(layout.TextRun{
		Content: label,
		X:       w.pos.X,
		Y:       w.cur.CursorY,
		Font:    w.bold,
		Size:    w.th.Text.TitleSize,
		Color:   w.th.Colors.Accent,
	})
	if err != nil {
		return err
	}
	w.cur.Skip(w.th.Text.TitleAdvance)
	return nil
}

// text 在 gapPt 间距后绘制折行文本，空文本不绘制也不留间距。
func (w *writer) text(s string, gapPt float64, style layout.TextStyle) error {
	if s == "" {
		return nil
	}
	w.skip(gapPt)
	_, err := w.flow.DrawWrapped(s, style, w.pos, w.cur)
	return err
}

func (w *writer) bullets(items []string, gapPt, delta float64) error {
	if len(items) == 0 {
		return nil
	}
	w.skip(gapPt)
	_, err := w.flow.DrawBulletList(items, w.bulletStyle(delta), w.pos, w.cur)
	return err
}

// bulletStyle 使用 layout 的默认列表行距。
func (w *writer) bulletStyle(delta float64) layout.BulletStyle {
	style := layout.BulletStyle{
		Text:   w.style(delta, w.th.Colors.TextPrimary, regular),
		Marker: w.marker,
	}
	style.Text.LineSpacing = layout.DefaultBulletSpacing
	return style
}

func (w *writer) itemGap() { w.cur.Skip(w.th.Text.ItemGap) }

func (w *writer) primary(delta float64) layout.TextStyle {
	return w.style(delta, w.th.Colors.TextPrimary, regular)
}

func (w *writer) secondary(delta float64) layout.TextStyle {
	return w.style(delta, w.th.Colors.TextSecondary, regular)
}

func (w *writer) link(delta float64) layout.TextStyle {
	return w.style(delta, w.th.Colors.Secondary, regular)
}

// joinNonEmpty 用 sep 连接非空字符串。
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func labelled(label, value string) string {
	return label + ": " + value
}
