package shard

import "testing"

func TestEncodeParseLineRoundTrip(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"KEYVAL~alpha", "1"},
		{"TRIGRM~applepie", "applepie,appletart"},
		{"KEYVAL~empty", ""},
	}
	for _, c := range cases {
		line := EncodeLine(c.key, c.value)
		key, value, ok := ParseLine(string(line))
		if !ok {
			t.Fatalf("ParseLine(%q) = not ok", line)
		}
		if key != c.key || value != c.value {
			t.Fatalf("ParseLine(%q) = (%q,%q), want (%q,%q)", line, key, value, c.key, c.value)
		}
	}
}

func TestParseLineMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a record",
		`"onlykey"`,
		`"key":"novaluequote`,
		`nokeyquote":"value";`,
	}
	for _, c := range cases {
		if _, _, ok := ParseLine(c); ok {
			t.Fatalf("ParseLine(%q) = ok, want not ok", c)
		}
	}
}

func TestIsIgnorable(t *testing.T) {
	for _, l := range []string{"", "   ", "// a comment", "//"} {
		if !isIgnorable(l) {
			t.Fatalf("isIgnorable(%q) = false, want true", l)
		}
	}
	if isIgnorable(`"k":"v";`) {
		t.Fatal("isIgnorable of a data line = true, want false")
	}
}

func TestOnDiskKey(t *testing.T) {
	if got := OnDiskKey(KeyVal, "alpha"); got != "KEYVAL~alpha" {
		t.Fatalf("OnDiskKey = %q", got)
	}
	if got := OnDiskKey(TrigRam, "applepie"); got != "TRIGRM~applepie" {
		t.Fatalf("OnDiskKey = %q", got)
	}
}
