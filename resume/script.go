package resume

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrMissingScriptFont 表示记录包含泰文但没有注册能显示泰文的字体。
var ErrMissingScriptFont = errors.New("resume: 缺少可显示泰文的字体")

// ScriptFonts 报告已加载的字体能否覆盖某种文字，*fonts.Registry 满足该接口。
type ScriptFonts interface {
	ThaiAvailable() bool
}

// NeedsThai 判断记录是否需要泰文字体：语言为泰文，或姓名、地址、简介中出现泰文字符。
func NeedsThai(r *Record) bool {
	if IsThai(r.Lang()) {
		return true
	}
	for _, s := range []Text{r.Firstname, r.Lastname, r.Address, r.ProfileSummary} {
		if containsThai(string(s)) {
			return true
		}
	}
	return false
}

func containsThai(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

// CheckFonts 在渲染前确认字体能显示记录中的文字，否则返回 ErrMissingScriptFont，
// 而不是输出一份缺字的 PDF。
func CheckFonts(r *Record, f ScriptFonts) error {
	if NeedsThai(r) && !f.ThaiAvailable() {
		return fmt.Errorf("%w: 请把 NotoSansThai-Regular.ttf 与 NotoSansThai-Bold.ttf（或 Sarabun）放到程序目录或 ./fonts，或设置 RESUME_FONT_DIR", ErrMissingScriptFont)
	}
	return nil
}
