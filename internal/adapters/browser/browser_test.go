package browser

import (
	"strconv"
	"strings"
	"testing"

	"myreplays/internal/ports"
)

func TestAttrTargetPrefersHref(t *testing.T) {
	cases := []struct {
		name  string
		attrs map[string]string
		want  string
	}{
		{"href wins", map[string]string{"href": "/a", "data-url": "/b"}, "/a"},
		{"data-href fallback", map[string]string{"data-href": "/b", "data-src": "/c"}, "/b"},
		{"data-url fallback", map[string]string{"data-url": "/c"}, "/c"},
		{"data-src fallback", map[string]string{"data-src": "/d", "class": "x"}, "/d"},
		{"nothing usable", map[string]string{"class": "x"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := attrTarget(tc.attrs); got != tc.want {
				t.Fatalf("attrTarget(%v) = %q, want %q", tc.attrs, got, tc.want)
			}
		})
	}
}

func TestFrameCollectScriptEmbedsSelectors(t *testing.T) {
	sel := `a[href*="replay"]`
	script := frameCollectScript(sel)

	if !strings.Contains(script, strconv.Quote(sel)) {
		t.Fatalf("script does not carry the quoted selector:\n%s", script)
	}
	if !strings.Contains(script, strconv.Quote(ports.DataAttrSelector)) {
		t.Fatalf("script does not carry the data-attribute selector:\n%s", script)
	}
	if strings.Contains(script, "%s") {
		t.Fatalf("unexpanded placeholder left in script:\n%s", script)
	}
	if !strings.Contains(script, "contentDocument") {
		t.Fatalf("script does not descend into iframes:\n%s", script)
	}
}
