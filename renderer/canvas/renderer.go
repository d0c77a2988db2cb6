package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/metrics"
	"github.com/ByLCY/vitae/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas and doubles as
// the default glyph metrics backend, so wrapping and drawing agree on widths.
type Renderer struct {
	src metrics.Source

	fontMu   sync.Mutex
	families map[layout.FontHandle]*canvas.FontFamily
	faces    map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type faceKey struct {
	font  layout.FontHandle
	size  float64
	color layout.Color
}

// measureColor 只用于度量，颜色不影响字宽。
var measureColor = layout.Color{}

var transparent = color.RGBA{0, 0, 0, 0}

// NewRenderer creates a renderer that loads font data from src (typically a *fonts.Registry).
func NewRenderer(src metrics.Source) *Renderer {
	return &Renderer{
		src:      src,
		families: map[layout.FontHandle]*canvas.FontFamily{},
		faces:    map[faceKey]*canvas.FontFace{},
	}
}

// Measure 实现 layout.Measurer：size 为 pt，返回 mm。
func (r *Renderer) Measure(text string, font layout.FontHandle, size float64) (float64, error) {
	face, err := r.fontFace(font, size, measureColor)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianI) // 与布局一致：左下角为原点，Y 向上

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Index, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	// 形状作为背景先绘制，文本最后
	r.drawRects(ctx, page.Rects)
	r.drawCircles(ctx, page.Circles)
	r.drawLines(ctx, page.Lines)
	for _, run := range page.Texts {
		if err := r.drawText(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// drawText 在基线 (X, Y) 处绘制单行文本。
func (r *Renderer) drawText(ctx *canvas.Context, run layout.TextRun) error {
	if run.Content == "" {
		return nil
	}
	face, err := r.fontFace(run.Font, run.Size, run.Color)
	if err != nil {
		return err
	}
	ctx.DrawText(run.X, run.Y, canvas.NewTextLine(face, run.Content, canvas.Left))
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(transparent)
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawRects 绘制填充矩形
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		ctx.SetFillColor(colorFromLayout(rc.FillColor))
		ctx.SetStrokeColor(transparent)
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// drawCircles 绘制填充圆；canvas.Circle 以原点为圆心
func (r *Renderer) drawCircles(ctx *canvas.Context, circles []layout.Circle) {
	for _, c := range circles {
		ctx.SetFillColor(colorFromLayout(c.FillColor))
		ctx.SetStrokeColor(transparent)
		ctx.DrawPath(c.CX, c.CY, canvas.Circle(c.R))
	}
}

func (r *Renderer) fontFace(font layout.FontHandle, size float64, col layout.Color) (*canvas.FontFace, error) {
	key := faceKey{font: font, size: size, color: col}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	face := family.Face(size, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = face
	return face, nil
}

// ensureFontFamily 每个字体句柄对应一个只含常规样式的字族；粗体是独立的句柄。
// 调用方需持有 fontMu。
func (r *Renderer) ensureFontFamily(font layout.FontHandle) (*canvas.FontFamily, error) {
	if family, ok := r.families[font]; ok {
		return family, nil
	}
	data, ok := r.src.Data(font)
	if !ok {
		return nil, fmt.Errorf("%w: %q", metrics.ErrUnknownFont, font)
	}
	family := canvas.NewFontFamily(string(font))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", font, err)
	}
	r.families[font] = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
