package layout

import "fmt"

// PageCursor 记录一个排版区域在页面流中的纵向位置（基线，mm）。
// CursorY 在页内只减不增，分页时重置为 PageHeight - MarginTop。
// 一个游标只属于一次文档渲染，不可并发使用。
type PageCursor struct {
	CursorY      float64
	PageIndex    int
	MarginTop    float64
	MarginBottom float64
	PageHeight   float64

	collector *Collector
	closed    bool
}

// Top 返回新页面上的起始位置。
func (pc *PageCursor) Top() float64 { return pc.PageHeight - pc.MarginTop }

// HasRoom 判断在不越过下边距的前提下是否还能放下 required 高度。
func (pc *PageCursor) HasRoom(required float64) bool {
	return pc.CursorY-required >= pc.MarginBottom
}

// Remaining 返回到下边距为止的剩余空间。
func (pc *PageCursor) Remaining() float64 { return pc.CursorY - pc.MarginBottom }

// Ensure 在空间不足时分页，返回是否发生了分页。
// 游标已位于新页面顶部仍放不下时不再分页，由调用方越界绘制，保证不会无限建页。
func (pc *PageCursor) Ensure(required float64) (bool, error) {
	if pc.HasRoom(required) {
		return false, nil
	}
	if pc.CursorY >= pc.Top() {
		Logger().Debug("line taller than page body, drawing past bottom margin", "page", pc.PageIndex, "required", required)
		return false, nil
	}
	if err := pc.Break(); err != nil {
		return false, err
	}
	return true, nil
}

// Break 离开当前页：当前页对本游标封存，进入下一页（不存在则创建并重绘背景），
// 游标回到页面顶部。
func (pc *PageCursor) Break() error {
	if pc.closed {
		return fmt.Errorf("layout: 游标已关闭")
	}
	next := pc.PageIndex + 1
	if _, err := pc.collector.open(next); err != nil {
		return err
	}
	pc.PageIndex = next
	pc.CursorY = pc.Top()
	pc.collector.seal()
	Logger().Debug("page break", "page", next)
	return nil
}

// Advance 在绘制一行后下移 h。
func (pc *PageCursor) Advance(h float64) { pc.CursorY -= h }

// Skip 与 Advance 相同，用于段落之间的固定间距，不触发分页检查。
func (pc *PageCursor) Skip(h float64) { pc.CursorY -= h }

// Page 返回游标当前所在页的绘制入口。
func (pc *PageCursor) Page() Sink {
	return pc.collector.accs[pc.PageIndex-1]
}

// Close 声明该区域已排版完毕，允许页面流封存它停留过的页面。
func (pc *PageCursor) Close() {
	if pc.closed {
		return
	}
	pc.closed = true
	pc.collector.seal()
}
