package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "cs_cz", want: "cs-CZ"},
		{in: " EN-us ", want: "en-US"},
		{in: "sr_cyrl_rs", want: "sr-Cyrl-RS"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegion(t *testing.T) {
	cases := map[string]string{
		"cs_CZ":      "CZ",
		"sr_Cyrl_RS": "RS",
		"en":         "",
		"sr_Latn":    "",
	}
	for in, want := range cases {
		if got := Region(in); got != want {
			t.Fatalf("Region(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFlagFromRegion(t *testing.T) {
	if got := FlagFromRegion("cz"); got != "🇨🇿" {
		t.Fatalf("FlagFromRegion(cz) = %q, want %q", got, "🇨🇿")
	}
	if got := FlagFromRegion("CZE"); got != "" {
		t.Fatalf("FlagFromRegion(CZE) = %q, want empty", got)
	}
	if got := FlagFromRegion("1A"); got != "" {
		t.Fatalf("FlagFromRegion(1A) = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("ja_JP")
		if got.Name != "Japanese" || got.Flag != "🇯🇵" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("script subtag", func(t *testing.T) {
		got := Resolve("sr_Latn_RS")
		if got.Name != "Serbian (Latin)" || got.Flag != "🇷🇸" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("it_CH")
		if got.Name != "Italian" || got.Flag != "🇨🇭" {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("static flag without region", func(t *testing.T) {
		got := Resolve("en")
		if got.Flag != "🇬🇧" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz")
		if got.Name != "zz" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}
