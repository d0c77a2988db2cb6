package theme

import (
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/vitae/dsl"
	"github.com/ByLCY/vitae/layout"
)

//go:embed builtin.theme
var builtinSource string

// Set 是一组按名称索引的主题。用户主题文件可以继承内置主题。
type Set struct {
	decls  map[string]*dsl.ThemeDecl
	themes map[string]*Theme
}

// Builtin 返回内置主题集（modern、classic、minimal）。
func Builtin() (*Set, error) {
	s := &Set{decls: map[string]*dsl.ThemeDecl{}}
	if _, err := s.add("builtin.theme", strings.NewReader(builtinSource)); err != nil {
		return nil, fmt.Errorf("加载内置主题失败: %w", err)
	}
	return s, nil
}

// LoadFile 把 path 中声明的主题加入集合，同名主题覆盖已有的声明。
// 返回文件中按声明顺序出现的主题名。
func (s *Set) LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开主题文件 %s: %w", path, err)
	}
	defer f.Close()
	return s.add(path, f)
}

// Add 从 r 读取主题声明并加入集合。
func (s *Set) Add(filename string, r io.Reader) error {
	_, err := s.add(filename, r)
	return err
}

func (s *Set) add(filename string, r io.Reader) ([]string, error) {
	file, err := dsl.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("解析主题文件失败: %w", err)
	}
	prev := make(map[string]*dsl.ThemeDecl, len(s.decls))
	for name, decl := range s.decls {
		prev[name] = decl
	}
	names := make([]string, 0, len(file.Themes))
	for _, decl := range file.Themes {
		s.decls[decl.Name] = decl
		names = append(names, decl.Name)
	}
	if err := s.compile(); err != nil {
		s.decls = prev
		return nil, err
	}
	return names, nil
}

// compile 重新编译全部声明，保证继承链看到最新的父主题。
func (s *Set) compile() error {
	themes := make(map[string]*Theme, len(s.decls))
	var build func(name string, chain []string) (*Theme, error)
	build = func(name string, chain []string) (*Theme, error) {
		if t, ok := themes[name]; ok {
			return t, nil
		}
		for _, n := range chain {
			if n == name {
				return nil, fmt.Errorf("theme: 循环继承 %s", strings.Join(append(chain, name), " -> "))
			}
		}
		decl, ok := s.decls[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		t := defaults(name)
		if decl.Extends != "" {
			parent, err := build(decl.Extends, append(chain, name))
			if err != nil {
				return nil, fmt.Errorf("theme %s: %w", name, err)
			}
			t = parent.clone()
			t.Name = name
		}
		if err := apply(t, decl); err != nil {
			return nil, fmt.Errorf("%s: theme %s: %w", decl.Pos, name, err)
		}
		themes[name] = t
		return t, nil
	}
	for name := range s.decls {
		if _, err := build(name, nil); err != nil {
			return err
		}
	}
	s.themes = themes
	return nil
}

// Get 返回可直接渲染的主题。
func (s *Set) Get(name string) (*Theme, error) {
	t, ok := s.themes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q（可用：%s）", ErrUnknownTheme, name, strings.Join(s.Names(), ", "))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Names 返回排好序的可渲染主题名；只用于继承的主题不在其中。
func (s *Set) Names() []string {
	var names []string
	for name, t := range s.themes {
		if t.Validate() == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Random 在可渲染主题中随机选一个。
func (s *Set) Random(rng *rand.Rand) (*Theme, error) {
	names := s.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: 主题集为空", ErrUnknownTheme)
	}
	return s.themes[names[rng.Intn(len(names))]], nil
}

func apply(t *Theme, decl *dsl.ThemeDecl) error {
	columnsReset := false
	for _, st := range decl.Body.Statements {
		if !st.IsCommand() {
			if err := applyTop(t, st); err != nil {
				return err
			}
			continue
		}
		if st.Label != "" && st.Key != "column" {
			return fmt.Errorf("%s: %s 块不接受名字 %q", st.Pos, st.Key, st.Label)
		}
		var err error
		switch st.Key {
		case "colors":
			err = eachAssignment(st.Key, st.Body, func(a *dsl.Statement) error { return applyColor(t, a) })
		case "header":
			err = eachAssignment(st.Key, st.Body, func(a *dsl.Statement) error { return applyHeader(&t.Header, a) })
		case "text":
			err = eachAssignment(st.Key, st.Body, func(a *dsl.Statement) error { return applyText(&t.Text, a) })
		case "column":
			if !columnsReset {
				// 子主题一旦声明 column，就整体替换继承来的栏位
				t.Columns = nil
				columnsReset = true
			}
			var col Column
			if col, err = buildColumn(st); err == nil {
				t.Columns = append(t.Columns, col)
			}
		default:
			err = fmt.Errorf("%s: 未知的块 %q", st.Pos, st.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// eachAssignment 对块中的每条 key: value 调用 fn，块中出现命令时报错。
func eachAssignment(name string, b *dsl.Block, fn func(*dsl.Statement) error) error {
	for _, st := range b.Statements {
		if st.IsCommand() {
			return fmt.Errorf("%s: %s 中只允许 key: value", st.Pos, name)
		}
		if err := fn(st); err != nil {
			return fmt.Errorf("%s.%w", name, err)
		}
	}
	return nil
}

func applyTop(t *Theme, a *dsl.Statement) error {
	var err error
	switch a.Key {
	case "margin":
		err = applyMargin(&t.Page.Margin, a.Value)
	case "band":
		t.Band, err = millimetres(a.Value)
	case "content-offset":
		t.ContentOffset, err = millimetres(a.Value)
	case "bullet":
		err = applyBullet(t, a.Value)
	default:
		return fmt.Errorf("未知的属性 %q", a.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a.Key, err)
	}
	return nil
}

// applyMargin 接受统一边距（margin: 20mm）或按边设置的对象。
func applyMargin(m *layout.Margin, v *dsl.Value) error {
	if v.Object == nil {
		all, err := millimetres(v)
		if err != nil {
			return err
		}
		*m = layout.Margin{Top: all, Right: all, Bottom: all, Left: all}
		return nil
	}
	return eachAssignment("margin", v.Object, func(e *dsl.Statement) error {
		val, err := millimetres(e.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Key, err)
		}
		switch e.Key {
		case "top":
			m.Top = val
		case "bottom":
			m.Bottom = val
		case "left":
			m.Left = val
		case "right":
			m.Right = val
		default:
			return fmt.Errorf("未知的边距 %q", e.Key)
		}
		return nil
	})
}

func applyBullet(t *Theme, v *dsl.Value) error {
	if v.Object == nil {
		return fmt.Errorf("需要 { shape: ...; color: ... }")
	}
	return eachAssignment("bullet", v.Object, func(e *dsl.Statement) error {
		name, err := ident(e.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Key, err)
		}
		switch e.Key {
		case "shape":
			shape, err := layout.ParseBulletShape(name)
			if err != nil {
				return err
			}
			t.Bullet = shape
		case "color":
			if _, err := t.Colors.Role(name); err != nil {
				return err
			}
			t.BulletColor = name
		default:
			return fmt.Errorf("未知的项目符号属性 %q", e.Key)
		}
		return nil
	})
}

func applyColor(t *Theme, a *dsl.Statement) error {
	slot := t.Colors.slot(a.Key)
	if slot == nil {
		return fmt.Errorf("%s: 未知颜色角色", a.Key)
	}
	if a.Value.Color == nil {
		return fmt.Errorf("%s: 需要 #RRGGBB 形式的颜色", a.Key)
	}
	c, err := ParseHex(*a.Value.Color)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Key, err)
	}
	*slot = c
	t.colorsSet[a.Key] = true
	return nil
}

func applyHeader(h *Header, a *dsl.Statement) error {
	var err error
	switch a.Key {
	case "x":
		h.X, err = millimetres(a.Value)
	case "y":
		h.Y, err = millimetres(a.Value)
	case "width":
		h.Width, err = millimetres(a.Value)
	case "name-size":
		h.NameSize, err = points(a.Value)
	case "headline-size":
		h.HeadlineSize, err = points(a.Value)
	case "headline-offset":
		h.HeadlineOffset, err = millimetres(a.Value)
	case "divider-offset":
		h.DividerOffset, err = millimetres(a.Value)
	case "divider-width":
		h.DividerWidth, err = millimetres(a.Value)
	default:
		return fmt.Errorf("未知的属性 %q", a.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a.Key, err)
	}
	return nil
}

func applyText(x *Text, a *dsl.Statement) error {
	var err error
	switch a.Key {
	case "size":
		x.Size, err = points(a.Value)
	case "line-spacing":
		x.LineSpacing, err = factor(a.Value)
	case "title-size":
		x.TitleSize, err = points(a.Value)
	case "title-advance":
		x.TitleAdvance, err = millimetres(a.Value)
	case "item-gap":
		x.ItemGap, err = millimetres(a.Value)
	default:
		return fmt.Errorf("未知的属性 %q", a.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a.Key, err)
	}
	return nil
}

func buildColumn(cmd *dsl.Statement) (Column, error) {
	if cmd.Label == "" {
		return Column{}, fmt.Errorf("%s: column 需要一个名字", cmd.Pos)
	}
	col := Column{Name: cmd.Label}
	err := eachAssignment("column "+cmd.Label, cmd.Body, func(a *dsl.Statement) error {
		var err error
		switch a.Key {
		case "x":
			col.X, err = millimetres(a.Value)
		case "width":
			col.Width, err = millimetres(a.Value)
		case "sections":
			col.Sections, err = identList(a.Value)
		case "gaps":
			col.Gaps, err = lengthList(a.Value)
		default:
			return fmt.Errorf("未知的属性 %q", a.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Key, err)
		}
		return nil
	})
	return col, err
}

// ParseHex 解析 #RGB、#RRGGBB 或 #RRGGBBAA（忽略透明度）。
func ParseHex(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return layout.Color{}, fmt.Errorf("无效的颜色 %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("无效的颜色 %q: %w", s, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func number(v *dsl.Value) (string, error) {
	if v == nil || v.Number == nil {
		return "", fmt.Errorf("需要数值")
	}
	return *v.Number, nil
}

// millimetres 解析长度，未带单位时按 mm。
func millimetres(v *dsl.Value) (float64, error) {
	raw, err := number(v)
	if err != nil {
		return 0, err
	}
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

// points 解析字号，未带单位时按 pt。
func points(v *dsl.Value) (float64, error) {
	raw, err := number(v)
	if err != nil {
		return 0, err
	}
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	if l.Unit == layout.UnitNone {
		return l.Value, nil
	}
	return l.ToPT(), nil
}

func factor(v *dsl.Value) (float64, error) {
	raw, err := number(v)
	if err != nil {
		return 0, err
	}
	return layout.ParseFactor(raw)
}

func ident(v *dsl.Value) (string, error) {
	switch {
	case v == nil:
	case v.Ident != nil:
		return *v.Ident, nil
	case v.String != nil:
		return *v.String, nil
	}
	return "", fmt.Errorf("需要标识符")
}

func identList(v *dsl.Value) ([]string, error) {
	if v.List == nil {
		return nil, fmt.Errorf("需要 [ ... ] 列表")
	}
	out := make([]string, 0, len(v.List.Items))
	for _, item := range v.List.Items {
		name, err := ident(item)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

func lengthList(v *dsl.Value) ([]float64, error) {
	if v.List == nil {
		return nil, fmt.Errorf("需要 [ ... ] 列表")
	}
	out := make([]float64, 0, len(v.List.Items))
	for _, item := range v.List.Items {
		mm, err := millimetres(item)
		if err != nil {
			return nil, err
		}
		out = append(out, mm)
	}
	return out, nil
}
