// Package theme 描述简历的视觉主题：配色、页面几何、页眉、栏位与各栏的栏目顺序。
// 主题以 dsl 包解析的主题文件声明，内置主题见 builtin.theme。
package theme

import (
	"errors"
	"fmt"

	"github.com/ByLCY/vitae/layout"
)

// ErrUnknownTheme 表示主题集中没有请求的主题。
var ErrUnknownTheme = errors.New("theme: 未知主题")

// 调色板中的角色名，与主题文件 colors 块中的键一致。
const (
	RoleBgAccent      = "bg-accent"
	RoleAccent        = "accent"
	RoleSecondary     = "secondary"
	RoleTextPrimary   = "text-primary"
	RoleTextSecondary = "text-secondary"
)

var roles = []string{RoleBgAccent, RoleAccent, RoleSecondary, RoleTextPrimary, RoleTextSecondary}

// Palette 是主题的五种颜色。
type Palette struct {
	BgAccent      layout.Color `json:"bgAccent"`
	Accent        layout.Color `json:"accent"`
	Secondary     layout.Color `json:"secondary"`
	TextPrimary   layout.Color `json:"textPrimary"`
	TextSecondary layout.Color `json:"textSecondary"`
}

func (p *Palette) slot(role string) *layout.Color {
	switch role {
	case RoleBgAccent:
		return &p.BgAccent
	case RoleAccent:
		return &p.Accent
	case RoleSecondary:
		return &p.Secondary
	case RoleTextPrimary:
		return &p.TextPrimary
	case RoleTextSecondary:
		return &p.TextSecondary
	}
	return nil
}

// Role 按角色名取颜色。
func (p Palette) Role(name string) (layout.Color, error) {
	slot := p.slot(name)
	if slot == nil {
		return layout.Color{}, fmt.Errorf("theme: 未知颜色角色 %q", name)
	}
	return *slot, nil
}

// Header 描述页眉：姓名、职位标题与分隔线。坐标为 mm，字号为 pt。
type Header struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`
	NameSize       float64 `json:"nameSize"`
	HeadlineSize   float64 `json:"headlineSize"`
	HeadlineOffset float64 `json:"headlineOffset"`
	DividerOffset  float64 `json:"dividerOffset"`
	DividerWidth   float64 `json:"dividerWidth"`
}

// Text 是正文排版参数。
type Text struct {
	Size         float64 `json:"size"` // pt
	LineSpacing  float64 `json:"lineSpacing"`
	TitleSize    float64 `json:"titleSize"`    // pt
	TitleAdvance float64 `json:"titleAdvance"` // 栏目标题占用的高度（mm）
	ItemGap      float64 `json:"itemGap"`      // 条目之间的间距（mm）
}

// Column 是一个独立分页的排版区域。
type Column struct {
	Name     string    `json:"name"`
	X        float64   `json:"x"`
	Width    float64   `json:"width"`
	Sections []string  `json:"sections"`
	Gaps     []float64 `json:"gaps"` // mm
}

// Gap 返回第 i 个栏目（从 0 开始）之前的间距；第一个栏目之前没有间距，
// 超出 Gaps 长度时重复最后一个值。
func (c Column) Gap(i int) float64 {
	if i <= 0 || len(c.Gaps) == 0 {
		return 0
	}
	if i > len(c.Gaps) {
		return c.Gaps[len(c.Gaps)-1]
	}
	return c.Gaps[i-1]
}

// Theme 是编译后的完整主题。
type Theme struct {
	Name          string             `json:"name"`
	Page          layout.PageSpec    `json:"page"`
	Band          float64            `json:"band"`          // 页顶色带高度（mm），0 表示不绘制
	ContentOffset float64            `json:"contentOffset"` // 栏目起点相对内容区顶部的下移量（mm）
	Colors        Palette            `json:"colors"`
	Bullet        layout.BulletShape `json:"bullet"`
	BulletColor   string             `json:"bulletColor"`
	Header        Header             `json:"header"`
	Text          Text               `json:"text"`
	Columns       []Column           `json:"columns"`

	colorsSet map[string]bool
}

// Validate 检查主题是否可直接用于渲染；缺少颜色或栏位的主题只能被继承。
func (t *Theme) Validate() error {
	for _, r := range roles {
		if !t.colorsSet[r] {
			return fmt.Errorf("theme %s: 缺少颜色 %s", t.Name, r)
		}
	}
	if _, err := t.Colors.Role(t.BulletColor); err != nil {
		return fmt.Errorf("theme %s: %w", t.Name, err)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("theme %s: 至少需要一个 column", t.Name)
	}
	for _, c := range t.Columns {
		if !(c.Width > 0) {
			return fmt.Errorf("theme %s: column %s 宽度必须为正数", t.Name, c.Name)
		}
		if c.X < 0 || c.X+c.Width > t.Page.Width {
			return fmt.Errorf("theme %s: column %s 超出页面宽度", t.Name, c.Name)
		}
	}
	if !(t.Text.Size > 0) || !(t.Text.TitleSize > 0) {
		return fmt.Errorf("theme %s: 字号必须为正数", t.Name)
	}
	return nil
}

// Background 返回在每个新页面顶部绘制色带的装饰器。
func (t *Theme) Background() layout.Decorator {
	band, fill := t.Band, t.Colors.BgAccent
	return func(page layout.Sink, spec layout.PageSpec) error {
		if band <= 0 {
			return nil
		}
		return page.DrawShape(layout.Rect{X: 0, Y: spec.Height - band, Width: spec.Width, Height: band, FillColor: fill})
	}
}

// Marker 返回本主题的项目符号。
func (t *Theme) Marker() (layout.Marker, error) {
	c, err := t.Colors.Role(t.BulletColor)
	if err != nil {
		return layout.Marker{}, err
	}
	return layout.NewMarker(t.Bullet, c)
}

// ContentTop 返回各栏第一个栏目的基线位置。
func (t *Theme) ContentTop() float64 {
	return t.Page.Height - t.Page.Margin.Top - t.ContentOffset
}

func (t *Theme) clone() *Theme {
	cp := *t
	cp.Columns = make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		c.Sections = append([]string(nil), c.Sections...)
		c.Gaps = append([]float64(nil), c.Gaps...)
		cp.Columns[i] = c
	}
	cp.colorsSet = make(map[string]bool, len(t.colorsSet))
	for k, v := range t.colorsSet {
		cp.colorsSet[k] = v
	}
	return &cp
}

func defaults(name string) *Theme {
	return &Theme{
		Name:        name,
		Page:        layout.A4(layout.Margin{}),
		Bullet:      layout.BulletDot,
		BulletColor: RoleSecondary,
		Text: Text{
			Size:        10,
			LineSpacing: layout.DefaultLineSpacing,
			TitleSize:   12,
		},
		colorsSet: map[string]bool{},
	}
}
