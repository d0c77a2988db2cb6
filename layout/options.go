package layout

// FontHandle 是字体注册表给出的不透明字体标识，排版引擎只负责透传。
type FontHandle string

// Measurer 是字形度量后端：返回 text 以 font/size(pt) 渲染后的宽度（mm）。
// 实现可以失败，Wrapper 会用估算值兜底。
type Measurer interface {
	Measure(text string, font FontHandle, size float64) (float64, error)
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, font FontHandle, size float64) (float64, error)

// Measure implements Measurer.
func (f MeasureFunc) Measure(text string, font FontHandle, size float64) (float64, error) {
	return f(text, font, size)
}

// Sink 是排版引擎需要的最小绘制原语，页面按追加顺序记录。
type Sink interface {
	DrawText(run TextRun) error
	DrawShape(s Shape) error
}

// Decorator 在每个新页面创建时绘制常驻背景元素。
type Decorator func(page Sink, spec PageSpec) error

// FlowOptions 配置 Flow 的默认行为。
type FlowOptions struct {
	// LinePadding 为每行额外预留的空间（mm），避免贴着下边距绘制。
	LinePadding float64
	// FallbackFactor 为度量失败时 len×size×factor 估算所用的系数。
	FallbackFactor float64
}

// DefaultLinePadding 为 2mm。
const DefaultLinePadding = 2.0
