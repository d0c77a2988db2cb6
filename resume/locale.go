package resume

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale 是一种语言的栏目标签与月份缩写。
type Locale struct {
	Tag    language.Tag
	Labels Labels
	Months [12]string
}

// Labels 是简历中出现的固定文案。
type Labels struct {
	Contact         string
	Email           string
	Phone           string
	Address         string
	Experience      string
	Education       string
	Skills          string
	TechnicalSkills string
	SoftSkills      string
	Certificates    string
	Publications    string
	Projects        string
	Awards          string
	Languages       string
	References      string
	Volunteer       string
	Present         string
	CGPA            string
	Faculty         string
	Major           string
	Institution     string
	Summary         string
	DateOfBirth     string
	Nationality     string
	Tech            string
}

var english = Locale{
	Tag: language.English,
	Labels: Labels{
		Contact:         "Contact",
		Email:           "Email",
		Phone:           "Phone",
		Address:         "Address",
		Experience:      "Experience",
		Education:       "Education",
		Skills:          "Skills",
		TechnicalSkills: "Technical Skills",
		SoftSkills:      "Soft Skills",
		Certificates:    "Certificates",
		Publications:    "Publications",
		Projects:        "Projects",
		Awards:          "Awards",
		Languages:       "Languages",
		References:      "References",
		Volunteer:       "Volunteer",
		Present:         "Present",
		CGPA:            "CGPA",
		Faculty:         "Faculty",
		Major:           "Major",
		Institution:     "Institution",
		Summary:         "Profile",
		DateOfBirth:     "Date of Birth",
		Nationality:     "Nationality",
		Tech:            "Tech",
	},
	Months: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

var thai = Locale{
	Tag: language.Thai,
	Labels: Labels{
		Contact:         "ข้อมูลติดต่อ",
		Email:           "อีเมล",
		Phone:           "โทรศัพท์",
		Address:         "ที่อยู่",
		Experience:      "ประสบการณ์ทำงาน",
		Education:       "การศึกษา",
		Skills:          "ทักษะ",
		TechnicalSkills: "ทักษะด้านเทคนิค",
		SoftSkills:      "ทักษะด้านอ่อน",
		Certificates:    "ใบรับรอง",
		Publications:    "ผลงานตีพิมพ์",
		Projects:        "โปรเจกต์",
		Awards:          "รางวัล",
		Languages:       "ภาษา",
		References:      "ผู้รับรอง",
		Volunteer:       "จิตอาสา",
		Present:         "ปัจจุบัน",
		CGPA:            "เกรดเฉลี่ยสะสม",
		Faculty:         "คณะ",
		Major:           "สาขา",
		Institution:     "สถาบัน",
		Summary:         "สรุปโปรไฟล์",
		DateOfBirth:     "วันเกิด",
		Nationality:     "สัญชาติ",
		Tech:            "เทคโนโลยี",
	},
	Months: [12]string{"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.", "ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค."},
}

var (
	locales = []Locale{english, thai}
	matcher = language.NewMatcher([]language.Tag{english.Tag, thai.Tag})
)

// LocaleFor 按语言标签选择本地化资源，例如 "th"、"th-TH"、"en-GB"。
// 无法识别或不支持的语言回退到英文。
func LocaleFor(tag string) Locale {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return english
	}
	return locales[idx]
}

// IsThai 判断语言标签是否为泰文。
func IsThai(tag string) bool {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return false
	}
	base, _ := t.Base()
	thaiBase, _ := language.Thai.Base()
	return base == thaiBase
}

// Title 按本地化规则把每个词首字母大写，其余小写。
func (l Locale) Title(s string) string {
	return cases.Title(l.Tag).String(s)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
}

// ParseDate 解析 ISO 8601 日期，无法解析时返回 false。
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Month 返回 "Jan 2020" 形式的月份。
func (l Locale) Month(t time.Time) string {
	return fmt.Sprintf("%s %d", l.Months[t.Month()-1], t.Year())
}

// Period 格式化起止时间："<开始> – <结束>"，结束缺失或无效时为“至今”，
// 开始缺失时只显示结束。
func (l Locale) Period(start, end string) string {
	e := l.Labels.Present
	if t, ok := ParseDate(end); ok {
		e = l.Month(t)
	}
	if t, ok := ParseDate(start); ok {
		return l.Month(t) + " – " + e
	}
	return e
}
