package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample(t *testing.T) any {
	t.Helper()
	data, err := FromValue(map[string]any{
		"firstname": "Somchai",
		"language":  "th",
		"experiencesList": []map[string]any{
			{"positionName": "Data Engineer"},
		},
		"years":  3,
		"ratio":  0.5,
		"empty":  "",
		"nested": map[string]any{"list": [][]string{{"a", "b"}}},
	})
	if err != nil {
		t.Fatalf("FromValue error: %v", err)
	}
	return data
}

func TestExpand(t *testing.T) {
	data := sample(t)
	cases := map[string]string{
		"${firstname}_${language}":            "Somchai_th",
		"${experiencesList[0].positionName}":  "Data Engineer",
		"${ nested.list[0][1] }":              "b",
		"${years}y ${ratio}":                  "3y 0.5",
		"${missing}":                          "${missing}",
		"${missing|none}":                     "none",
		"${empty|blank}":                      "blank",
		"${experiencesList[3].positionName|}": "",
		"no placeholders":                     "no placeholders",
	}
	for in, want := range cases {
		if got, _ := Expand(in, data); got != want {
			t.Fatalf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandReportsMissing(t *testing.T) {
	out, missing := Expand("${firstname}-${nope}-${a.b|x}-${experiencesList[x]}", sample(t))
	if out != "Somchai-${nope}-x-${experiencesList[x]}" {
		t.Fatalf("Expand = %q", out)
	}
	if diff := cmp.Diff([]string{"nope", "experiencesList[x]"}, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupNilData(t *testing.T) {
	if _, ok := Lookup(nil, "a"); ok {
		t.Fatalf("nil data should not resolve")
	}
	if got, missing := Expand("${a|d}", nil); got != "d" || len(missing) != 0 {
		t.Fatalf("default should apply to nil data, got %q", got)
	}
}
