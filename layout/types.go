package layout

// 该文件定义排版结果与页面元素，供排版、渲染与调试 JSON 共用。坐标单位均为 mm，原点在页面左下角。

// Result 保存排版后的页面序列与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PageSpec 描述页面尺寸与上下边距。
type PageSpec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// A4 返回 210×297mm 的页面规格。
func A4(margin Margin) PageSpec {
	return PageSpec{Width: 210, Height: 297, Margin: margin}
}

// Page 记录一页上按追加顺序提交的全部绘制元素。
type Page struct {
	Index   int       `json:"index"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Margin  Margin    `json:"margin"`
	Texts   []TextRun `json:"texts"`
	Rects   []Rect    `json:"rects,omitempty"`
	Circles []Circle  `json:"circles,omitempty"`
	Lines   []Line    `json:"lines,omitempty"`
}

// TextRun 是单字体、单字号的一行文本，Y 为基线位置。
type TextRun struct {
	Content string     `json:"content"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Font    FontHandle `json:"font"`
	Size    float64    `json:"size"` // pt
	Color   Color      `json:"color"`
}

// Shape 是可提交到页面的图形：Rect、Circle 或 Line。
type Shape interface {
	appendTo(p *Page)
}

// Rect 表示一个填充矩形，(X, Y) 为左下角。
type Rect struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	FillColor Color   `json:"fillColor"`
}

// Circle 表示一个填充圆。
type Circle struct {
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	R         float64 `json:"r"`
	FillColor Color   `json:"fillColor"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

func (r Rect) appendTo(p *Page)   { p.Rects = append(p.Rects, r) }
func (c Circle) appendTo(p *Page) { p.Circles = append(p.Circles, c) }
func (l Line) appendTo(p *Page)   { p.Lines = append(p.Lines, l) }

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
