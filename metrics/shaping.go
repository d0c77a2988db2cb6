package metrics

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/vitae/layout"
)

// Shaping 用 HarfBuzz 整形后的总步进度量文本，泰文等复杂文字的
// 组合符号会按字体的 GPOS 规则定位，宽度比逐字形相加更准确。
// 可并发调用。
type Shaping struct {
	src Source

	pool sync.Pool

	mu    sync.RWMutex
	fonts map[layout.FontHandle]*font.Font
}

// NewShaping 创建基于 github.com/go-text/typesetting 的度量实现。
func NewShaping(src Source) *Shaping {
	return &Shaping{
		src:   src,
		pool:  sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
		fonts: map[layout.FontHandle]*font.Font{},
	}
}

// Measure implements layout.Measurer.
func (s *Shaping) Measure(text string, h layout.FontHandle, size float64) (float64, error) {
	if text == "" {
		return 0, nil
	}
	f, err := s.font(h)
	if err != nil {
		return 0, err
	}
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	}
	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)
	return layout.Pt(float64(out.Advance) / 64), nil
}

func (s *Shaping) font(h layout.FontHandle) (*font.Font, error) {
	s.mu.RLock()
	f, ok := s.fonts[h]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fonts[h]; ok {
		return f, nil
	}
	data, err := lookup(s.src, h)
	if err != nil {
		return nil, err
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", h, err)
	}
	s.fonts[h] = face.Font
	return face.Font, nil
}

// scriptOf 取第一个非空白字符的文字系统。
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
