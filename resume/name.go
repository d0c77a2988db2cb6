package resume

import (
	"fmt"
	"strings"

	"github.com/ByLCY/vitae/binding"
)

// SuggestName 返回 "<名>_<姓>_<职位>_<语言>_<主题>.pdf"，空格替换为下划线，空段被去掉。
func SuggestName(rec *Record, themeName string) string {
	return cleanName(fmt.Sprintf("%s_%s_%s_%s_%s", rec.Firstname, rec.Lastname, rec.FirstPosition(), rec.Lang(), themeName)) + ".pdf"
}

// NameFromTemplate 用记录字段展开文件名模板。模板可引用记录的 JSON 字段，
// 另外提供 ${theme}、${lang}、${position}、${index}。结果按 SuggestName 的规则清理，
// 缺少 .pdf 后缀时自动补上。
func NameFromTemplate(tmpl string, rec *Record, themeName string, index int) (string, error) {
	data, err := binding.FromValue(rec)
	if err != nil {
		return "", err
	}
	fields, ok := data.(map[string]any)
	if !ok {
		return "", fmt.Errorf("resume: 记录无法转换为模板数据")
	}
	fields["theme"] = themeName
	fields["lang"] = rec.Lang()
	fields["position"] = rec.FirstPosition()
	fields["index"] = index

	out, missing := binding.Expand(tmpl, fields)
	if len(missing) > 0 {
		return "", fmt.Errorf("resume: 文件名模板引用了不存在的字段 %s", strings.Join(missing, ", "))
	}
	name := cleanName(strings.TrimSuffix(out, ".pdf"))
	if name == "" {
		return "", fmt.Errorf("resume: 文件名模板 %q 展开后为空", tmpl)
	}
	return name + ".pdf", nil
}

func cleanName(s string) string {
	s = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(s)
	parts := strings.Split(s, "_")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}
