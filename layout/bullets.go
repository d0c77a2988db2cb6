package layout

import (
	"fmt"
	"strings"
)

// BulletShape 是项目符号的视觉形状。
type BulletShape int

const (
	BulletBar    BulletShape = iota // 2×1mm 横条
	BulletDot                       // 半径 0.8mm 的圆点
	BulletSquare                    // 1.5mm 方块
)

func (s BulletShape) String() string {
	switch s {
	case BulletBar:
		return "bar"
	case BulletDot:
		return "dot"
	case BulletSquare:
		return "square"
	default:
		return fmt.Sprintf("BulletShape(%d)", int(s))
	}
}

// ParseBulletShape 将主题文件中的名称映射为 BulletShape。
func ParseBulletShape(name string) (BulletShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bar":
		return BulletBar, nil
	case "dot", "circle":
		return BulletDot, nil
	case "square":
		return BulletSquare, nil
	}
	return 0, fmt.Errorf("未知的项目符号形状：%q", name)
}

// bulletDrawers 按形状给出无状态的绘制策略，x 为列表左边界，y 为首行基线。
var bulletDrawers = [...]func(x, y float64, c Color) Shape{
	BulletBar: func(x, y float64, c Color) Shape {
		return Rect{X: x + 0.5, Y: y + 1, Width: 2, Height: 1, FillColor: c}
	},
	BulletDot: func(x, y float64, c Color) Shape {
		return Circle{CX: x + 1, CY: y + 1.5, R: 0.8, FillColor: c}
	},
	BulletSquare: func(x, y float64, c Color) Shape {
		return Rect{X: x + 0.5, Y: y + 1, Width: 1.5, Height: 1.5, FillColor: c}
	},
}

// Marker 是选定后的项目符号：形状与颜色在一次渲染开始时确定一次。
type Marker struct {
	shape BulletShape
	color Color
	draw  func(x, y float64, c Color) Shape
}

// NewMarker 从策略表中选出 shape 对应的绘制方式。
func NewMarker(shape BulletShape, color Color) (Marker, error) {
	if shape < 0 || int(shape) >= len(bulletDrawers) {
		return Marker{}, fmt.Errorf("未知的项目符号形状：%v", shape)
	}
	return Marker{shape: shape, color: color, draw: bulletDrawers[shape]}, nil
}

// Shape 返回该 Marker 的形状。
func (m Marker) Shape() BulletShape { return m.shape }

// Draw 在 x/y 处向 s 提交项目符号；零值 Marker 不绘制任何内容。
func (m Marker) Draw(s Sink, x, y float64) error {
	if m.draw == nil {
		return nil
	}
	return s.DrawShape(m.draw(x, y, m.color))
}
