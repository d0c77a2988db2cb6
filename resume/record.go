// Package resume 把简历记录组合成排版结果：读取 JSON 记录、本地化标签与日期、
// 校验文字系统所需的字体，并按主题把各栏目交给 layout.Flow 逐行排版。
package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxSkills 是 skills 列表保留的最大条目数。
const MaxSkills = 10

// Text 是宽松的文本字段：JSON 中的字符串、数字或布尔值都按原样转为文本，null 为空。
// 读取时统一做 NFC 规范化，避免同一个泰文字符以不同的组合序列出现。
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(norm.NFC.String(s))
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("resume: 字段需要文本或数字，得到 %s", data)
		}
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Texts 是文本列表；JSON 中单个字符串也被接受为一项。
type Texts []Text

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Texts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = nil
		return nil
	}
	if len(data) > 0 && data[0] != '[' {
		var one Text
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		*ts = Texts{one}
		return nil
	}
	var many []Text
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*ts = many
	return nil
}

// Strings 返回去掉空项后的字符串列表。
func (ts Texts) Strings() []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		if s := t.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkillGroup 是 technicalSkills 中的一组，保持文件中的顺序。
type SkillGroup struct {
	Name   string
	Values []string
}

// SkillGroups 按 JSON 对象的键顺序解码 technicalSkills。
type SkillGroups []SkillGroup

// UnmarshalJSON implements json.Unmarshaler.
func (g *SkillGroups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("resume: technicalSkills 需要对象，得到 %v", tok)
	}
	var groups SkillGroups
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var vals Texts
		if err := dec.Decode(&vals); err != nil {
			return fmt.Errorf("resume: technicalSkills.%s: %w", key, err)
		}
		groups = append(groups, SkillGroup{Name: norm.NFC.String(key), Values: vals.Strings()})
	}
	*g = groups
	return nil
}

// Experience 是一段工作经历。
type Experience struct {
	PositionName Text  `json:"positionName"`
	CompanyName  Text  `json:"companyName"`
	Location     Text  `json:"location"`
	StartPeriod  Text  `json:"startPeriod"`
	EndPeriod    Text  `json:"endPeriod"`
	Description  Texts `json:"description"`
	Technologies Texts `json:"technologies"`
}

// Education 是一段教育经历。
type Education struct {
	Degree      Text  `json:"degree"`
	Institution Text  `json:"institution"`
	Faculty     Text  `json:"faculty"`
	Major       Text  `json:"major"`
	CGPA        Text  `json:"CGPA"`
	StartYear   Text  `json:"startYear"`
	EndYear     Text  `json:"endYear"`
	Honors      Texts `json:"honors"`
}

// Project 是一个项目。
type Project struct {
	Title        Text  `json:"title"`
	Technologies Texts `json:"technologies"`
	Description  Text  `json:"description"`
	Link         Text  `json:"link"`
	StartPeriod  Text  `json:"startPeriod"`
	EndPeriod    Text  `json:"endPeriod"`
}

// Award 是一项奖项。
type Award struct {
	Name        Text `json:"name"`
	Issuer      Text `json:"issuer"`
	Year        Text `json:"year"`
	Description Text `json:"description"`
}

// SpokenLanguage 是一门语言及其熟练度。
type SpokenLanguage struct {
	Language    Text `json:"language"`
	Proficiency Text `json:"proficiency"`
}

// Reference 是一位推荐人。
type Reference struct {
	Name         Text `json:"name"`
	Relationship Text `json:"relationship"`
	Company      Text `json:"company"`
	Contact      Text `json:"contact"`
}

// Volunteer 是一段志愿经历。
type Volunteer struct {
	Role         Text  `json:"role"`
	Organization Text  `json:"organization"`
	StartPeriod  Text  `json:"startPeriod"`
	EndPeriod    Text  `json:"endPeriod"`
	Activities   Texts `json:"activities"`
}

// Record 是一份简历。
type Record struct {
	Firstname       Text             `json:"firstname"`
	Lastname        Text             `json:"lastname"`
	Headline        Text             `json:"headline"`
	Language        Text             `json:"language"`
	Email           Text             `json:"email"`
	Phone           Text             `json:"phone"`
	Address         Text             `json:"address"`
	LinkedIn        Text             `json:"linkedin"`
	GitHub          Text             `json:"github"`
	Website         Text             `json:"website"`
	DateOfBirth     Text             `json:"dateOfBirth"`
	Nationality     Text             `json:"nationality"`
	ProfileSummary  Text             `json:"profileSummary"`
	Experiences     []Experience     `json:"experiencesList"`
	Educations      []Education      `json:"educationsList"`
	Projects        []Project        `json:"projectsList"`
	Skills          Texts            `json:"skills"`
	TechnicalSkills SkillGroups      `json:"technicalSkills"`
	SoftSkills      Texts            `json:"softSkills"`
	Certificates    Texts            `json:"certificates"`
	Publications    Texts            `json:"publications"`
	Awards          []Award          `json:"awardsList"`
	Languages       []SpokenLanguage `json:"languagesSpoken"`
	References      []Reference      `json:"referencesList"`
	Volunteering    []Volunteer      `json:"volunteerExperience"`
}

// FullName 返回 "名 姓"。
func (r *Record) FullName() string {
	return strings.TrimSpace(r.Firstname.String() + " " + r.Lastname.String())
}

// Lang 返回记录声明的语言标签，缺省为 en。
func (r *Record) Lang() string {
	if l := r.Language.String(); l != "" {
		return l
	}
	return "en"
}

// FirstPosition 返回第一段工作经历的职位，没有时为空。
func (r *Record) FirstPosition() string {
	if len(r.Experiences) == 0 {
		return ""
	}
	return r.Experiences[0].PositionName.String()
}

// Normalize 补齐缺省值：没有 headline 时使用第一段经历的职位，skills 最多保留 MaxSkills 项。
func (r *Record) Normalize() {
	if r.Headline.String() == "" {
		r.Headline = Text(r.FirstPosition())
	}
	if len(r.Skills) > MaxSkills {
		r.Skills = r.Skills[:MaxSkills]
	}
}

// Parse 读取单个记录对象或记录数组。
func Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取简历数据失败: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("简历数据为空")
	}
	var records []Record
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("解析简历数组失败: %w", err)
		}
	} else {
		var one Record
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("解析简历失败: %w", err)
		}
		records = []Record{one}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("简历数组为空")
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// Load 从文件读取记录。
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开简历数据 %s: %w", path, err)
	}
	defer f.Close()
	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
