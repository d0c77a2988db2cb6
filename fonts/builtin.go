package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置的 Go 字体只覆盖拉丁字符，作为找不到任何系统字体时的最后兜底。
const (
	GoRegular = "GoRegular"
	GoBold    = "GoBold"
)

func registerBuiltins(r *Registry) error {
	if err := r.Register(GoRegular, "builtin:goregular", goregular.TTF); err != nil {
		return err
	}
	return r.Register(GoBold, "builtin:gobold", gobold.TTF)
}
