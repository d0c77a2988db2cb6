package resume

import (
	"fmt"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/theme"
)

// Fonts 提供按字重解析的字体句柄，*fonts.Registry 满足该接口。
type Fonts interface {
	ScriptFonts
	Resolve(w fonts.Weight) (layout.FontHandle, error)
}

// BuildOptions 配置一次记录渲染。
type BuildOptions struct {
	// Flow 负责折行与分页；为空时使用纯估算度量的 Flow。
	Flow *layout.Flow
	// Fonts 为必填。
	Fonts Fonts
	// Creator 写入 PDF 元信息。
	Creator string
}

// Build 按主题把记录排版成页面序列。渲染前先校验文字系统所需的字体；
// 每个栏位拥有独立的游标，在同一个页面流上各自分页。
func Build(rec *Record, th *theme.Theme, opts BuildOptions) (*layout.Result, error) {
	if rec == nil || th == nil {
		return nil, fmt.Errorf("resume: 记录与主题不能为空")
	}
	if opts.Fonts == nil {
		return nil, fmt.Errorf("resume: 未提供字体")
	}
	normalized := *rec
	normalized.Normalize()
	rec = &normalized
	if err := CheckFonts(rec, opts.Fonts); err != nil {
		return nil, err
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	flow := opts.Flow
	if flow == nil {
		flow = layout.NewFlow(nil, layout.FlowOptions{})
	}

	c := &composer{flow: flow, th: th, loc: LocaleFor(rec.Lang()), rec: rec}
	var err error
	if c.regular, err = opts.Fonts.Resolve(fonts.Regular); err != nil {
		return nil, err
	}
	if c.bold, err = opts.Fonts.Resolve(fonts.Bold); err != nil {
		return nil, err
	}
	if c.marker, err = th.Marker(); err != nil {
		return nil, err
	}

	plans := make([][]section, len(th.Columns))
	for i, col := range th.Columns {
		for _, name := range col.Sections {
			s, err := lookupSection(name)
			if err != nil {
				return nil, fmt.Errorf("theme %s column %s: %w", th.Name, col.Name, err)
			}
			plans[i] = append(plans[i], s)
		}
	}

	collector, err := layout.NewCollector(th.Page, th.Background())
	if err != nil {
		return nil, err
	}
	if err := c.header(collector.Page(1)); err != nil {
		return nil, fmt.Errorf("绘制页眉失败: %w", err)
	}

	// 先为所有栏位建好游标，第一页在最后一栏离开之前不会被封存
	writers := make([]*writer, len(th.Columns))
	for i, col := range th.Columns {
		cur, err := collector.NewCursorAt(1, th.ContentTop())
		if err != nil {
			return nil, err
		}
		writers[i] = &writer{composer: c, cur: cur, pos: layout.Position{X: col.X, Width: col.Width}}
	}
	for i, col := range th.Columns {
		w := writers[i]
		drawn := 0
		for j, s := range plans[i] {
			if !s.present(rec) {
				continue
			}
			w.cur.Skip(col.Gap(drawn))
			if err := s.draw(w); err != nil {
				return nil, fmt.Errorf("栏目 %s 排版失败: %w", col.Sections[j], err)
			}
			drawn++
		}
		w.cur.Close()
	}

	res := collector.Result(layout.DocumentMeta{
		Title:    rec.FullName(),
		Author:   rec.FullName(),
		Subject:  rec.Headline.String(),
		Creator:  opts.Creator,
		Keywords: rec.Skills.Strings(),
	})
	layout.Logger().Debug("record laid out", "name", rec.FullName(), "theme", th.Name, "bullet", c.marker.Shape(), "pages", len(res.Pages))
	return res, nil
}

// header 在第一页绘制姓名、职位标题与分隔线。
func (c *composer) header(page layout.Sink) error {
	h, colors := c.th.Header, c.th.Colors
	if name := c.rec.FullName(); name != "" {
		if err := page.DrawText(layout.TextRun{Content: name, X: h.X, Y: h.Y, Font: c.bold, Size: h.NameSize, Color: colors.TextPrimary}); err != nil {
			return err
		}
	}
	if headline := c.rec.Headline.String(); headline != "" {
		run := layout.TextRun{Content: headline, X: h.X, Y: h.Y - h.HeadlineOffset, Font: c.regular, Size: h.HeadlineSize, Color: colors.Accent}
		if err := page.DrawText(run); err != nil {
			return err
		}
	}
	y := h.Y - h.DividerOffset
	return page.DrawShape(layout.Line{X1: h.X, Y1: y, X2: h.X + h.Width, Y2: y, Color: colors.Accent, Width: h.DividerWidth})
}
