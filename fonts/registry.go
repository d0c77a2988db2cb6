package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/vitae/layout"
)

// ErrNoFont 表示注册表中没有可用于请求字重的字体。
var ErrNoFont = errors.New("fonts: 没有可用的字体")

// Weight 是排版时请求的字重。
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// Face 是一个已注册并通过解析校验的字体文件。
type Face struct {
	Name string
	Path string
	Data []byte
	// Thai 表示字体包含泰文字形。
	Thai bool
}

// Family 将常规与粗体两个注册名归为一个字族。
type Family struct {
	Name    string
	Regular string
	Bold    string
}

// 精确文件名候选，按顺序尝试；同名只保留第一个成功注册的文件。
var candidates = []struct{ name, file string }{
	{"NotoSansThai", "NotoSansThai-Regular.ttf"},
	{"NotoSansThai-Bold", "NotoSansThai-Bold.ttf"},
	{"NotoSansThai", "NotoSansThai-VariableFont_wdth,wght.ttf"},
	{"NotoSansThai-Bold", "NotoSansThai-VariableFont_wdth,wght.ttf"},
	{"Sarabun", "Sarabun-Regular.ttf"},
	{"Sarabun-Bold", "Sarabun-Bold.ttf"},
	{"NotoSans", "NotoSansThai-Regular.ttf"},
	{"NotoSans-Bold", "NotoSansThai-Bold.ttf"},
}

// 文件名不固定时的通配模式。
var patterns = []struct{ name, glob string }{
	{"NotoSansThai", "*Noto*Sans*Thai*Regular*.ttf"},
	{"NotoSansThai-Bold", "*Noto*Sans*Thai*Bold*.ttf"},
	{"Sarabun", "*Sarabun*Regular*.ttf"},
	{"Sarabun-Bold", "*Sarabun*Bold*.ttf"},
	{"NotoSans", "*Noto*Sans*Regular*.ttf"},
	{"NotoSans-Bold", "*Noto*Sans*Bold*.ttf"},
}

// 字族按解析优先级排列：泰文字族在前，仅在确有泰文字形时参与选择。
var families = []Family{
	{Name: "NotoSansThai", Regular: "NotoSansThai", Bold: "NotoSansThai-Bold"},
	{Name: "Sarabun", Regular: "Sarabun", Bold: "Sarabun-Bold"},
	{Name: "NotoSans", Regular: "NotoSans", Bold: "NotoSans-Bold"},
	{Name: "Go", Regular: GoRegular, Bold: GoBold},
}

var thaiFamilies = map[string]bool{"NotoSansThai": true, "Sarabun": true}

// EnvFontDir 指定额外的字体搜索目录。
const EnvFontDir = "RESUME_FONT_DIR"

// Options 控制字体搜索。
type Options struct {
	// Dirs 为搜索目录，按顺序扫描；为空时使用 DefaultDirs()。
	Dirs []string
	// NoBuiltin 为 true 时不注册内置 Go 字体。
	NoBuiltin bool
}

// Registry 保存一次进程内显式加载的字体，加载完成后只读，可并发读取。
type Registry struct {
	faces map[string]*Face
}

// New 返回空注册表。
func New() *Registry {
	return &Registry{faces: map[string]*Face{}}
}

// DefaultDirs 返回默认搜索目录：可执行文件所在目录及其 fonts 子目录、
// 当前目录及其 fonts 子目录、RESUME_FONT_DIR，最后是 extra。重复目录只保留一次。
func DefaultDirs(extra ...string) []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		here := filepath.Dir(exe)
		dirs = append(dirs, here, filepath.Join(here, "fonts"))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd, filepath.Join(wd, "fonts"))
	}
	if env := os.Getenv(EnvFontDir); env != "" {
		dirs = append(dirs, env)
	}
	dirs = append(dirs, extra...)

	seen := map[string]bool{}
	out := dirs[:0]
	for _, d := range dirs {
		if d == "" {
			continue
		}
		clean := filepath.Clean(d)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	return out
}

// Load 扫描字体目录并返回注册表。无法读取或解析的文件会被跳过。
func Load(opts Options) (*Registry, error) {
	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
	r := New()
	for _, c := range candidates {
		for _, d := range dirs {
			r.tryFile(c.name, filepath.Join(d, c.file))
		}
	}
	for _, p := range patterns {
		for _, d := range dirs {
			matches, err := filepath.Glob(filepath.Join(d, p.glob))
			if err != nil {
				return nil, fmt.Errorf("字体通配模式 %q 无效: %w", p.glob, err)
			}
			sort.Strings(matches)
			for _, m := range matches {
				r.tryFile(p.name, m)
			}
		}
	}
	if !opts.NoBuiltin {
		if err := registerBuiltins(r); err != nil {
			return nil, fmt.Errorf("注册内置字体失败: %w", err)
		}
	}
	if len(r.faces) == 0 {
		return nil, fmt.Errorf("%w: 已搜索 %s", ErrNoFont, strings.Join(dirs, ", "))
	}
	layout.Logger().Debug("fonts loaded", "names", r.Names(), "thai", r.ThaiAvailable())
	return r, nil
}

func (r *Registry) tryFile(name, path string) {
	if r.Has(name) {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := r.Register(name, path, data); err != nil {
		layout.Logger().Debug("skip font file", "path", path, "err", err)
	}
}

// Register 校验并登记字体数据。同名字体已存在时保留先注册的那一个。
func (r *Registry) Register(name, path string, data []byte) error {
	if name == "" {
		return fmt.Errorf("fonts: 字体名不能为空")
	}
	if r.Has(name) {
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体 %s 失败: %w", path, err)
	}
	r.faces[name] = &Face{Name: name, Path: path, Data: data, Thai: covers(f, 'ก')}
	return nil
}

func covers(f *sfnt.Font, r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// Has 判断 name 是否已注册。
func (r *Registry) Has(name string) bool {
	_, ok := r.faces[name]
	return ok
}

func (r *Registry) face(h layout.FontHandle) (*Face, bool) {
	f, ok := r.faces[string(h)]
	return f, ok
}

// Data 返回字体文件内容。
func (r *Registry) Data(h layout.FontHandle) ([]byte, bool) {
	f, ok := r.face(h)
	if !ok {
		return nil, false
	}
	return f.Data, true
}

// Names 返回排好序的注册名。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.faces))
	for n := range r.faces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// family 按别名查找字族，只有至少注册了其中一个字重时才返回 true。
func (r *Registry) family(name string) (Family, bool) {
	for _, f := range families {
		if f.Name == name && (r.Has(f.Regular) || r.Has(f.Bold)) {
			return f, true
		}
	}
	return Family{}, false
}

// ThaiAvailable 判断是否注册了可显示泰文的字体。
func (r *Registry) ThaiAvailable() bool {
	for _, f := range families {
		if !thaiFamilies[f.Name] {
			continue
		}
		for _, n := range []string{f.Regular, f.Bold} {
			if face, ok := r.faces[n]; ok && face.Thai {
				return true
			}
		}
	}
	return false
}

// Resolve 按字重选择字体：有泰文字体时优先 NotoSansThai、Sarabun，
// 其后是 NotoSans，最后是内置 Go 字体。请求粗体但字族只有常规字重时返回常规字重。
func (r *Registry) Resolve(w Weight) (layout.FontHandle, error) {
	thai := r.ThaiAvailable()
	for _, f := range families {
		if thaiFamilies[f.Name] && !thai {
			continue
		}
		fam, ok := r.family(f.Name)
		if !ok {
			continue
		}
		if w == Bold && r.Has(fam.Bold) {
			return layout.FontHandle(fam.Bold), nil
		}
		if r.Has(fam.Regular) {
			return layout.FontHandle(fam.Regular), nil
		}
	}
	return "", fmt.Errorf("%w: 字重 %s", ErrNoFont, w)
}
