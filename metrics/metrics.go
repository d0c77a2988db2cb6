// Package metrics 提供独立于 PDF 后端的字形度量实现，
// 均满足 layout.Measurer：输入字号为 pt，返回宽度为 mm。
package metrics

import (
	"errors"
	"fmt"

	"github.com/ByLCY/vitae/layout"
)

// ErrUnknownFont 表示字体来源中没有该字体。
var ErrUnknownFont = errors.New("metrics: 未知字体")

// Source 按字体句柄提供字体文件内容，*fonts.Registry 满足该接口。
type Source interface {
	Data(h layout.FontHandle) ([]byte, bool)
}

func lookup(src Source, h layout.FontHandle) ([]byte, error) {
	data, ok := src.Data(h)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, h)
	}
	return data, nil
}

// New 按名称创建度量实现："opentype" 或 "shaping"。
func New(kind string, src Source) (layout.Measurer, error) {
	switch kind {
	case "opentype":
		return NewOpenType(src), nil
	case "shaping":
		return NewShaping(src), nil
	}
	return nil, fmt.Errorf("metrics: 不支持的度量方式 %q", kind)
}
