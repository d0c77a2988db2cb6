package metrics

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/vitae/layout"
)

type faceKey struct {
	font layout.FontHandle
	size float64
}

// OpenType 用字体的 hmtx/kern 步进宽度度量文本，不做复杂文字整形。
type OpenType struct {
	src Source

	mu    sync.Mutex
	fonts map[layout.FontHandle]*sfnt.Font
	faces map[faceKey]font.Face
}

// NewOpenType 创建基于 golang.org/x/image/font/opentype 的度量实现。
func NewOpenType(src Source) *OpenType {
	return &OpenType{
		src:   src,
		fonts: map[layout.FontHandle]*sfnt.Font{},
		faces: map[faceKey]font.Face{},
	}
}

// Measure implements layout.Measurer.
func (o *OpenType) Measure(text string, h layout.FontHandle, size float64) (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	face, err := o.face(h, size)
	if err != nil {
		return 0, err
	}
	adv := font.MeasureString(face, text)
	return layout.Pt(float64(adv) / 64), nil
}

func (o *OpenType) face(h layout.FontHandle, size float64) (font.Face, error) {
	key := faceKey{font: h, size: size}
	if f, ok := o.faces[key]; ok {
		return f, nil
	}
	parsed, ok := o.fonts[h]
	if !ok {
		data, err := lookup(o.src, h)
		if err != nil {
			return nil, err
		}
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", h, err)
		}
		o.fonts[h] = parsed
	}
	// DPI 72 时 1px = 1pt
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体 %s@%gpt 失败: %w", h, size, err)
	}
	o.faces[key] = f
	return f, nil
}
