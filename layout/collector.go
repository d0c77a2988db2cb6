package layout

import (
	"errors"
	"fmt"
)

// ErrPageSealed 表示试图向已经封存的页面写入内容。
var ErrPageSealed = errors.New("layout: 页面已封存")

type pageAccumulator struct {
	page   Page
	sealed bool
}

func (p *pageAccumulator) DrawText(run TextRun) error {
	if p.sealed {
		return fmt.Errorf("%w: 第 %d 页", ErrPageSealed, p.page.Index)
	}
	p.page.Texts = append(p.page.Texts, run)
	return nil
}

func (p *pageAccumulator) DrawShape(s Shape) error {
	if p.sealed {
		return fmt.Errorf("%w: 第 %d 页", ErrPageSealed, p.page.Index)
	}
	if s == nil {
		return nil
	}
	s.appendTo(&p.page)
	return nil
}

// Collector 是追加式的页面流。一个文档渲染独占一个 Collector，不可并发使用。
// 多个 PageCursor（例如双栏布局的两栏）可以共享同一个 Collector：
// 每个游标只会向自己所在页及其后的页面写入，
// 当所有游标都离开某一页后该页即被封存。
type Collector struct {
	spec     PageSpec
	decorate Decorator
	accs     []*pageAccumulator
	cursors  []*PageCursor
}

// NewCollector 创建页面流并立即打开第一页（同时绘制背景）。
func NewCollector(spec PageSpec, decorate Decorator) (*Collector, error) {
	if !(spec.Width > 0) || !(spec.Height > 0) {
		return nil, fmt.Errorf("%w: 页面尺寸 %gx%g", ErrInvalidGeometry, spec.Width, spec.Height)
	}
	if spec.Height-spec.Margin.Top <= spec.Margin.Bottom {
		return nil, fmt.Errorf("%w: 上下边距 %g/%g 超出页面高度 %g", ErrInvalidGeometry, spec.Margin.Top, spec.Margin.Bottom, spec.Height)
	}
	c := &Collector{spec: spec, decorate: decorate}
	if _, err := c.open(1); err != nil {
		return nil, err
	}
	return c, nil
}

// Len 返回当前已创建的页数。
func (c *Collector) Len() int { return len(c.accs) }

// Page 返回第 index 页（从 1 开始）的绘制入口；页面尚不存在时返回 nil。
func (c *Collector) Page(index int) Sink {
	if index < 1 || index > len(c.accs) {
		return nil
	}
	return c.accs[index-1]
}

// NewCursor 在第 index 页的内容区顶部创建一个游标并登记到页面流。
func (c *Collector) NewCursor(index int) (*PageCursor, error) {
	return c.NewCursorAt(index, c.spec.Height-c.spec.Margin.Top)
}

// NewCursorAt 与 NewCursor 相同，但从基线 y 开始。
func (c *Collector) NewCursorAt(index int, y float64) (*PageCursor, error) {
	if index < 1 {
		return nil, fmt.Errorf("layout: 页码必须从 1 开始，得到 %d", index)
	}
	acc, err := c.open(index)
	if err != nil {
		return nil, err
	}
	if acc.sealed {
		return nil, fmt.Errorf("%w: 第 %d 页", ErrPageSealed, index)
	}
	pc := &PageCursor{
		CursorY:      y,
		MarginTop:    c.spec.Margin.Top,
		MarginBottom: c.spec.Margin.Bottom,
		PageHeight:   c.spec.Height,
		PageIndex:    index,
		collector:    c,
	}
	c.cursors = append(c.cursors, pc)
	return pc, nil
}

// Result 封存全部页面并导出排版结果。调用后 Collector 不再接受写入。
func (c *Collector) Result(meta DocumentMeta) *Result {
	pages := make([]Page, len(c.accs))
	for i, acc := range c.accs {
		acc.sealed = true
		pages[i] = acc.page
	}
	c.cursors = nil
	return &Result{Pages: pages, Meta: meta}
}

// open 返回第 index 页，必要时依次创建缺失的页面并绘制背景。
func (c *Collector) open(index int) (*pageAccumulator, error) {
	for len(c.accs) < index {
		acc := &pageAccumulator{page: Page{
			Index:  len(c.accs) + 1,
			Width:  c.spec.Width,
			Height: c.spec.Height,
			Margin: c.spec.Margin,
		}}
		c.accs = append(c.accs, acc)
		if c.decorate != nil {
			if err := c.decorate(acc, c.spec); err != nil {
				return nil, fmt.Errorf("绘制第 %d 页背景失败: %w", acc.page.Index, err)
			}
		}
		Logger().Debug("page opened", "page", acc.page.Index)
	}
	return c.accs[index-1], nil
}

// sealedBelow 返回仍有游标停留的最小页码；比它小的页面都已封存。
func (c *Collector) sealedBelow() int {
	low := len(c.accs)
	for _, pc := range c.cursors {
		if !pc.closed && pc.PageIndex < low {
			low = pc.PageIndex
		}
	}
	return low
}

// seal 封存所有游标都已离开的页面。
func (c *Collector) seal() {
	low := c.sealedBelow()
	for i := 0; i < low-1 && i < len(c.accs); i++ {
		c.accs[i].sealed = true
	}
}
