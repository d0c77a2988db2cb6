package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := Pt(pt) * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in     string
		wantMM float64
		unit   Unit
	}{
		{"40mm", 40, UnitMM},
		{"2.54cm", 25.4, UnitCM},
		{"1in", 25.4, UnitIN},
		{"12pt", 12 * PtToMm, UnitPT},
		{" 3 ", 3, UnitNone},
	}
	for _, tt := range tests {
		l, err := ParseLength(tt.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tt.in, err)
		}
		if l.Unit != tt.unit {
			t.Fatalf("ParseLength(%q) unit = %v, want %v", tt.in, l.Unit, tt.unit)
		}
		if diff := math.Abs(l.ToMM() - tt.wantMM); diff > 1e-9 {
			t.Fatalf("ParseLength(%q).ToMM() = %g, want %g", tt.in, l.ToMM(), tt.wantMM)
		}
	}
	for _, bad := range []string{"", "abc", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

func TestParseFactor(t *testing.T) {
	if f, err := ParseFactor("1.5x"); err != nil || f != 1.5 {
		t.Fatalf("ParseFactor(1.5x) = %g, %v", f, err)
	}
	if _, err := ParseFactor("0x"); err == nil {
		t.Fatalf("zero factor must be rejected")
	}
}
