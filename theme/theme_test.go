package theme

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/vitae/layout"
)

func builtin(t *testing.T) *Set {
	t.Helper()
	s, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin error: %v", err)
	}
	return s
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuiltinNames(t *testing.T) {
	s := builtin(t)
	if diff := cmp.Diff([]string{"classic", "minimal", "modern"}, s.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Get("base"); err == nil {
		t.Fatalf("base has no colors and must not be renderable")
	}
	if _, err := s.Get("fancy"); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("unknown theme err = %v", err)
	}
}

func TestModern(t *testing.T) {
	m, err := builtin(t).Get("modern")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if m.Colors.Accent != (layout.Color{R: 0x63, G: 0x66, B: 0xF1}) {
		t.Fatalf("accent = %+v", m.Colors.Accent)
	}
	if m.Bullet != layout.BulletBar || m.BulletColor != RoleAccent {
		t.Fatalf("bullet = %v/%s", m.Bullet, m.BulletColor)
	}
	if len(m.Columns) != 2 {
		t.Fatalf("modern should have two columns, got %d", len(m.Columns))
	}
	left, right := m.Columns[0], m.Columns[1]
	if left.X != 20 || left.Width != 70 || right.X != 100 || right.Width != 90 {
		t.Fatalf("columns = %+v / %+v", left, right)
	}
	if diff := cmp.Diff([]string{"contact", "summary", "skills"}, left.Sections); diff != "" {
		t.Fatalf("left sections (-want +got):\n%s", diff)
	}
	if m.Page.Margin.Top != 30 || m.Page.Margin.Bottom != 25 || m.Band != 40 {
		t.Fatalf("inherited geometry lost: %+v band=%g", m.Page.Margin, m.Band)
	}
	if got := m.ContentTop(); got != 297-30-30 {
		t.Fatalf("ContentTop = %g", got)
	}
	if !near(m.Header.NameSize, 18) || !near(m.Header.DividerWidth, layout.Pt(1.2)) {
		t.Fatalf("header = %+v", m.Header)
	}
	if !near(m.Text.TitleAdvance, layout.Pt(20)) || !near(m.Text.LineSpacing, 1.4) {
		t.Fatalf("text = %+v", m.Text)
	}
}

func TestClassicInheritsMainColumn(t *testing.T) {
	c, err := builtin(t).Get("classic")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(c.Columns) != 1 || c.Columns[0].Width != 170 || len(c.Columns[0].Sections) != 12 {
		t.Fatalf("classic columns = %+v", c.Columns)
	}
	col := c.Columns[0]
	for i, want := range []float64{0, layout.Pt(4), layout.Pt(4), layout.Pt(2), layout.Pt(2)} {
		if got := col.Gap(i); !near(got, want) {
			t.Fatalf("Gap(%d) = %g, want %g", i, got, want)
		}
	}
	if c.Bullet != layout.BulletDot {
		t.Fatalf("classic bullet = %v", c.Bullet)
	}
}

func TestMinimal(t *testing.T) {
	m, err := builtin(t).Get("minimal")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if m.Colors.TextPrimary != (layout.Color{}) || m.Bullet != layout.BulletSquare {
		t.Fatalf("minimal = %+v %v", m.Colors, m.Bullet)
	}
	if got := m.Columns[0].Gap(7); !near(got, layout.Pt(12)) {
		t.Fatalf("minimal gap = %g", got)
	}
}

func TestUserThemeExtendsBuiltin(t *testing.T) {
	s := builtin(t)
	src := `
theme ocean extends classic {
  colors { accent: #036 }
  bullet: { shape: square; color: accent }
  margin: { bottom: 15mm }
}`
	if err := s.Add("ocean.theme", strings.NewReader(src)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	o, err := s.Get("ocean")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if o.Colors.Accent != (layout.Color{R: 0, G: 0x33, B: 0x66}) {
		t.Fatalf("accent = %+v", o.Colors.Accent)
	}
	if o.Colors.Secondary != (layout.Color{R: 0x02, G: 0x84, B: 0xC7}) {
		t.Fatalf("secondary should be inherited, got %+v", o.Colors.Secondary)
	}
	if o.Page.Margin.Bottom != 15 || o.Page.Margin.Top != 30 {
		t.Fatalf("margin = %+v", o.Page.Margin)
	}
	classic, _ := s.Get("classic")
	if classic.Bullet != layout.BulletDot {
		t.Fatalf("child must not mutate its parent")
	}
	if diff := cmp.Diff([]string{"classic", "minimal", "modern", "ocean"}, s.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"cycle":       "theme a extends b { band: 1mm }\ntheme b extends a { band: 1mm }",
		"missing":     "theme a extends nowhere { band: 1mm }",
		"unknown key": "theme a extends modern { shadow: 2mm }",
		"bad color":   "theme a extends modern { colors { accent: 12mm } }",
		"bad role":    "theme a extends modern { colors { glow: #fff } }",
		"bad shape":   "theme a extends modern { bullet: { shape: star } }",
		"bad block":   "theme a extends modern { footer { x: 1mm } }",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s := builtin(t)
			if err := s.Add(name+".theme", strings.NewReader(src)); err == nil {
				t.Fatalf("expected error")
			}
			if _, err := s.Get("modern"); err != nil {
				t.Fatalf("failed load must keep the previous themes: %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dusk.theme")
	src := "theme dusk extends modern { colors { accent: #F97316 } }\ntheme dawn extends dusk { band: 0mm }\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s := builtin(t)
	names, err := s.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if diff := cmp.Diff([]string{"dusk", "dawn"}, names); diff != "" {
		t.Fatalf("declared names (-want +got):\n%s", diff)
	}
	dawn, err := s.Get("dawn")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if dawn.Colors.Accent != (layout.Color{R: 0xF9, G: 0x73, B: 0x16}) || dawn.Band != 0 {
		t.Fatalf("dawn = %+v", dawn)
	}
	if _, err := s.LoadFile(filepath.Join(t.TempDir(), "none.theme")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	s := builtin(t)
	src := "theme wide extends modern { column only { x: 20mm; width: 300mm } }"
	if err := s.Add("wide.theme", strings.NewReader(src)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := s.Get("wide"); err == nil {
		t.Fatalf("column wider than the page should be rejected")
	}
}

func TestBackgroundAndMarker(t *testing.T) {
	m, _ := builtin(t).Get("modern")
	c, err := layout.NewCollector(m.Page, m.Background())
	if err != nil {
		t.Fatalf("NewCollector error: %v", err)
	}
	page := c.Result(layout.DocumentMeta{}).Pages[0]
	want := layout.Rect{X: 0, Y: 257, Width: 210, Height: 40, FillColor: m.Colors.BgAccent}
	if diff := cmp.Diff([]layout.Rect{want}, page.Rects); diff != "" {
		t.Fatalf("background mismatch (-want +got):\n%s", diff)
	}
	marker, err := m.Marker()
	if err != nil || marker.Shape() != layout.BulletBar {
		t.Fatalf("Marker = %v, %v", marker.Shape(), err)
	}
}

func TestRandomIsSeedable(t *testing.T) {
	s := builtin(t)
	a, _ := s.Random(rand.New(rand.NewSource(7)))
	b, _ := s.Random(rand.New(rand.NewSource(7)))
	if a.Name != b.Name {
		t.Fatalf("same seed picked %s and %s", a.Name, b.Name)
	}
}

func TestParseHex(t *testing.T) {
	for in, want := range map[string]layout.Color{
		"#fff":      {R: 255, G: 255, B: 255},
		"#2563EB":   {R: 0x25, G: 0x63, B: 0xEB},
		"#2563EB80": {R: 0x25, G: 0x63, B: 0xEB},
	} {
		got, err := ParseHex(in)
		if err != nil || got != want {
			t.Fatalf("ParseHex(%q) = %+v, %v", in, got, err)
		}
	}
	if _, err := ParseHex("#12"); err == nil {
		t.Fatalf("short color should fail")
	}
}
