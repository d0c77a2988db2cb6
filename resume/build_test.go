package resume

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/vitae/fonts"
	"github.com/ByLCY/vitae/layout"
	"github.com/ByLCY/vitae/theme"
)

type stubFonts struct{ thai bool }

func (s stubFonts) ThaiAvailable() bool { return s.thai }

func (s stubFonts) Resolve(w fonts.Weight) (layout.FontHandle, error) {
	if w == fonts.Bold {
		return "bold", nil
	}
	return "regular", nil
}

// perRune 让每个字符宽 1.5mm，与字体和字号无关。
var perRune = layout.MeasureFunc(func(text string, _ layout.FontHandle, _ float64) (float64, error) {
	return 1.5 * float64(utf8.RuneCountInString(text)), nil
})

func testTheme(t *testing.T, name string) *theme.Theme {
	t.Helper()
	set, err := theme.Builtin()
	if err != nil {
		t.Fatalf("Builtin error: %v", err)
	}
	th, err := set.Get(name)
	if err != nil {
		t.Fatalf("Get(%s) error: %v", name, err)
	}
	return th
}

func build(t *testing.T, rec *Record, th *theme.Theme) *layout.Result {
	t.Helper()
	res, err := Build(rec, th, BuildOptions{
		Flow:  layout.NewFlow(layout.NewWrapper(perRune), layout.FlowOptions{}),
		Fonts: stubFonts{},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return res
}

func longRecord(n int) *Record {
	rec := &Record{
		Firstname:      "Jane",
		Lastname:       "Doe",
		Email:          "jane@example.com",
		ProfileSummary: "Engineer who likes tidy data and reliable pipelines.",
		Skills:         Texts{"Go", "SQL", "Airflow"},
		SoftSkills:     Texts{"Mentoring"},
	}
	for i := 0; i < n; i++ {
		rec.Experiences = append(rec.Experiences, Experience{
			PositionName: Text(fmt.Sprintf("Engineer %d", i)),
			CompanyName:  "Acme",
			StartPeriod:  "2020-01-01",
			Description:  Texts{"Designed and operated the ingestion platform for many internal teams across regions"},
			Technologies: Texts{"Go", "Kafka"},
		})
	}
	return rec
}

func texts(p layout.Page) []string {
	out := make([]string, len(p.Texts))
	for i, r := range p.Texts {
		out[i] = r.Content
	}
	return out
}

func TestBuildModernColumns(t *testing.T) {
	th := testTheme(t, "modern")
	res := build(t, longRecord(1), th)
	if len(res.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(res.Pages))
	}
	page := res.Pages[0]
	if page.Texts[0].Content != "Jane Doe" || page.Texts[0].Font != "bold" || page.Texts[0].Size != 18 {
		t.Fatalf("first run should be the name header, got %+v", page.Texts[0])
	}
	if page.Texts[1].Content != "Engineer 0" {
		t.Fatalf("headline should fall back to the first position, got %q", page.Texts[1].Content)
	}
	if len(page.Lines) != 1 || page.Lines[0].X2-page.Lines[0].X1 != 170 {
		t.Fatalf("divider = %+v", page.Lines)
	}

	xs := map[float64]bool{}
	for _, run := range page.Texts[2:] {
		xs[run.X] = true
	}
	for _, x := range []float64{20, 20 + layout.DefaultBulletIndent, 100, 100 + layout.DefaultBulletIndent} {
		if !xs[x] {
			t.Fatalf("no text at x=%g; columns or bullets misplaced: %v", x, xs)
		}
	}
	joined := strings.Join(texts(page), "\n")
	for _, want := range []string{"Contact", "Email: jane@example.com", "Experience", "Engineer 0 — Acme", "Jan 2020 – Present", "Tech: Go, Kafka", "Skills", "Soft Skills"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "Education") || strings.Contains(joined, "Projects") {
		t.Fatalf("empty sections must not draw a title:\n%s", joined)
	}
	// 背景色带与 3 个技能项目符号、1 个软技能、1 个经历描述
	if len(page.Rects) != 1+3+1+1 {
		t.Fatalf("rects = %d", len(page.Rects))
	}
	if res.Meta.Title != "Jane Doe" || res.Meta.Subject != "Engineer 0" {
		t.Fatalf("meta = %+v", res.Meta)
	}
}

func TestBuildPaginates(t *testing.T) {
	for _, name := range []string{"modern", "classic", "minimal"} {
		t.Run(name, func(t *testing.T) {
			th := testTheme(t, name)
			res := build(t, longRecord(30), th)
			if len(res.Pages) < 2 {
				t.Fatalf("30 experiences should overflow one page, got %d", len(res.Pages))
			}
			seen := 0
			for _, page := range res.Pages {
				if len(page.Rects) == 0 || page.Rects[0].Y != th.Page.Height-th.Band {
					t.Fatalf("page %d lacks the background band", page.Index)
				}
				for _, run := range page.Texts {
					if run.Y < th.Page.Margin.Bottom {
						t.Fatalf("page %d: %q drawn below the bottom margin at %g", page.Index, run.Content, run.Y)
					}
					if strings.HasSuffix(run.Content, " — Acme") {
						if run.Content != fmt.Sprintf("Engineer %d — Acme", seen) {
							t.Fatalf("experience out of order: %q, want #%d", run.Content, seen)
						}
						seen++
					}
				}
			}
			if seen != 30 {
				t.Fatalf("experiences drawn = %d, want 30", seen)
			}
		})
	}
}

func TestBuildColumnGapOnlyBetweenDrawnSections(t *testing.T) {
	set, err := theme.Builtin()
	if err != nil {
		t.Fatalf("Builtin error: %v", err)
	}
	src := `
theme tight extends minimal {
  column main { x: 20mm; width: 170mm; sections: [contact, summary, experience, certificates]; gaps: [5pt] }
}
theme loose extends minimal {
  column main { x: 20mm; width: 170mm; sections: [contact, summary, experience, certificates]; gaps: [12pt] }
}`
	if err := set.Add("gaps.theme", strings.NewReader(src)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	rec := &Record{Firstname: "A", Email: "a@b.c", Certificates: Texts{"CKA"}}
	titleY := func(name string) float64 {
		th, err := set.Get(name)
		if err != nil {
			t.Fatalf("Get(%s) error: %v", name, err)
		}
		page := build(t, rec, th).Pages[0]
		for _, run := range page.Texts {
			if run.Content == "Certificates" {
				return run.Y
			}
		}
		t.Fatalf("%s: no certificates title in %v", name, texts(page))
		return 0
	}
	// summary 与 experience 为空，只有 contact 与 certificates 之间的一次间距
	got := titleY("tight") - titleY("loose")
	if want := layout.Pt(12 - 5); math.Abs(got-want) > 1e-9 {
		t.Fatalf("title offset = %g, want %g", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	th := testTheme(t, "classic")
	if _, err := Build(&Record{Language: "th"}, th, BuildOptions{Fonts: stubFonts{}}); !errors.Is(err, ErrMissingScriptFont) {
		t.Fatalf("err = %v, want ErrMissingScriptFont", err)
	}
	if _, err := Build(&Record{Language: "th"}, th, BuildOptions{Fonts: stubFonts{thai: true}}); err != nil {
		t.Fatalf("Thai record with Thai font: %v", err)
	}
	if _, err := Build(&Record{}, th, BuildOptions{}); err == nil {
		t.Fatalf("missing fonts should fail")
	}

	set, _ := theme.Builtin()
	src := "theme odd extends classic { column main { x: 20mm; width: 170mm; sections: [contact, hobbies] } }"
	if err := set.Add("odd.theme", strings.NewReader(src)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	odd, err := set.Get("odd")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if _, err := Build(&Record{}, odd, BuildOptions{Fonts: stubFonts{}}); err == nil || !strings.Contains(err.Error(), "hobbies") {
		t.Fatalf("unknown section err = %v", err)
	}
}

func TestBuildDoesNotMutateRecord(t *testing.T) {
	rec := longRecord(1)
	rec.Skills = Texts{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
	build(t, rec, testTheme(t, "classic"))
	if rec.Headline != "" || len(rec.Skills) != 11 {
		t.Fatalf("Build must work on a copy: headline=%q skills=%d", rec.Headline, len(rec.Skills))
	}
}

// sweepRecord 的摘要有 words 个词，唯一一段经历有 bullets 条描述，其后各栏目都有内容。
func sweepRecord(words, bullets int) *Record {
	summary := make([]string, words)
	for i := range summary {
		summary[i] = fmt.Sprintf("w%d", i)
	}
	exp := Experience{PositionName: "Engineer", CompanyName: "Acme", StartPeriod: "2020-01-01"}
	for i := 0; i < bullets; i++ {
		exp.Description = append(exp.Description, Text(fmt.Sprintf("Shipped change %d", i)))
	}
	return &Record{
		Firstname:      "Jane",
		Email:          "jane@example.com",
		ProfileSummary: Text(strings.Join(summary, " ")),
		Experiences:    []Experience{exp},
		Educations:     []Education{{Degree: "BSc", Institution: "Uni", StartYear: "2012"}},
		Skills:         Texts{"Go", "SQL"},
		SoftSkills:     Texts{"Mentoring"},
		Certificates:   Texts{"CKA"},
		Publications:   Texts{"On pipelines"},
		Languages:      []SpokenLanguage{{Language: "English", Proficiency: "Native"}},
	}
}

func TestBuildKeepsTitleWithFirstLine(t *testing.T) {
	for _, name := range []string{"classic", "modern"} {
		th := testTheme(t, name)
		column := func(x float64) int {
			for i, col := range th.Columns {
				if x >= col.X && x < col.X+col.Width {
					return i
				}
			}
			return -1
		}
		for words := 120; words <= 260; words++ {
			for bullets := 0; bullets <= 20; bullets++ {
				res := build(t, sweepRecord(words, bullets), th)
				for _, page := range res.Pages {
					for _, title := range page.Texts {
						if title.Font != "bold" || title.Size != th.Text.TitleSize {
							continue
						}
						followed := false
						for _, run := range page.Texts {
							if run.Y < title.Y && column(run.X) == column(title.X) {
								followed = true
								break
							}
						}
						if !followed {
							t.Fatalf("%s words=%d bullets=%d: title %q ends column on page %d at y=%.2f",
								name, words, bullets, title.Content, page.Index, title.Y)
						}
					}
				}
			}
		}
	}
}
