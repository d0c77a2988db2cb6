package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/vitae/layout"
)

func TestLoadBuiltinOnly(t *testing.T) {
	r, err := Load(Options{Dirs: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{GoBold, GoRegular}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if r.ThaiAvailable() {
		t.Fatalf("Go fonts have no Thai glyphs")
	}
	for w, want := range map[Weight]layout.FontHandle{Regular: GoRegular, Bold: GoBold} {
		got, err := r.Resolve(w)
		if err != nil || got != want {
			t.Fatalf("Resolve(%v) = %q, %v; want %q", w, got, err, want)
		}
	}
	if data, ok := r.Data(GoRegular); !ok || len(data) != len(goregular.TTF) {
		t.Fatalf("Data(GoRegular) missing")
	}
}

func TestLoadNoFonts(t *testing.T) {
	if _, err := Load(Options{Dirs: []string{t.TempDir()}, NoBuiltin: true}); !errors.Is(err, ErrNoFont) {
		t.Fatalf("err = %v, want ErrNoFont", err)
	}
}

func TestLoadScansCandidatesAndPatterns(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"Sarabun-Regular.ttf":     goregular.TTF,
		"Acme-Noto-Sans-Bold.ttf": gobold.TTF,
		"broken.ttf":              []byte("not a font"),
		"NotoSansThai-Bold.ttf":   []byte("also not a font"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	r, err := Load(Options{Dirs: []string{dir}, NoBuiltin: true})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff([]string{"NotoSans-Bold", "Sarabun"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	// 名为 Sarabun 但不含泰文字形，不能视为泰文字体
	if r.ThaiAvailable() {
		t.Fatalf("Sarabun without Thai glyphs must not count as Thai-capable")
	}
	if got, _ := r.Resolve(Bold); got != "NotoSans-Bold" {
		t.Fatalf("Resolve(Bold) = %q, want NotoSans-Bold", got)
	}
	if _, err := r.Resolve(Regular); !errors.Is(err, ErrNoFont) {
		t.Fatalf("Resolve(Regular) err = %v, want ErrNoFont", err)
	}
	if fam, ok := r.family("NotoSans"); !ok || fam.Bold != "NotoSans-Bold" {
		t.Fatalf("family(NotoSans) = %+v, %v", fam, ok)
	}
	if _, ok := r.family("NotoSansThai"); ok {
		t.Fatalf("NotoSansThai has no registered weight")
	}
}

func TestRegisterFirstWins(t *testing.T) {
	r := New()
	if err := r.Register("NotoSans", "a.ttf", goregular.TTF); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := r.Register("NotoSans", "b.ttf", gobold.TTF); err != nil {
		t.Fatalf("duplicate Register error: %v", err)
	}
	if f, _ := r.face("NotoSans"); f.Path != "a.ttf" {
		t.Fatalf("first registration should win, got %s", f.Path)
	}
	if err := r.Register("Bad", "bad.ttf", []byte{1, 2, 3}); err == nil {
		t.Fatalf("invalid font data should be rejected")
	}
	if err := r.Register("", "x.ttf", goregular.TTF); err == nil {
		t.Fatalf("empty name should be rejected")
	}
	// 只有常规字重时，粗体请求回落到常规字重
	if got, _ := r.Resolve(Bold); got != "NotoSans" {
		t.Fatalf("Resolve(Bold) = %q, want NotoSans", got)
	}
}

func TestDefaultDirs(t *testing.T) {
	env := t.TempDir()
	t.Setenv(EnvFontDir, env)
	extra := t.TempDir()
	dirs := DefaultDirs(extra, extra, "")
	count := map[string]int{}
	for _, d := range dirs {
		count[d]++
	}
	if count[filepath.Clean(env)] != 1 || count[filepath.Clean(extra)] != 1 {
		t.Fatalf("env/extra dirs should appear once: %v", dirs)
	}
	wd, _ := os.Getwd()
	if count[filepath.Join(wd, "fonts")] != 1 {
		t.Fatalf("./fonts missing from %v", dirs)
	}
}
