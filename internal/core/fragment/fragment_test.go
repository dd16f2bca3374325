package fragment

import (
	"strings"
	"testing"
)

// listing mimics the site's blob: accents escaped as \u00XX, string-typed
// numbers, several objects on one line, mixed casing between entries
const listing = `var p=[` +
	`{"n":"Jorge","a":"Aguilar Soto","c":"0","m":"0","i":11},` +
	`{"n":"Mar\u00eda Jos\u00e9","a":"N\u00fa\u00f1ez G\u00f3mez","c":"8.75","m":"12","i":123},` +
	`{"n":"Mar\u00eda","a":"N\u00fa\u00f1ez Duarte","c":"9.1","m":"3","i":456},` +
	`{"n":"ANA","a":"BELTRAN RIOS","c":7.5,"m":4,"i":"789"},` +
	`{"n":"luis \u00e1ngel","a":"mota p\u00e9rez","c":"6.2","m":"2","i":555}` +
	`];`

func TestBuildPattern_Validation(t *testing.T) {
	if _, err := BuildPattern("", "Núñez"); err == nil {
		t.Fatalf("expected error for empty first name")
	}
	if _, err := BuildPattern("María", "  "); err == nil {
		t.Fatalf("expected error for empty last name")
	}
}

func TestBuildPattern_Locate(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string // substring of the expected fragment, "" for no match
	}{
		{
			name:  "accented query against escaped entry",
			first: "María",
			last:  "Núñez Gómez",
			want:  `"i":123`,
		},
		{
			name:  "title case query against uppercase de-accented entry",
			first: "Ana",
			last:  "Beltran Rios",
			want:  `"i":"789"`,
		},
		{
			name:  "title case accented query against lowercase escaped entry",
			first: "Luis",
			last:  "Mota Pérez",
			want:  `"i":555`,
		},
		{
			name:  "repeated surname word never matches",
			first: "María",
			last:  "Núñez Núñez",
			want:  "",
		},
		{
			name:  "absent professor",
			first: "Pedro",
			last:  "Salinas Rojo",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			re, err := BuildPattern(tc.first, tc.last)
			if err != nil {
				t.Fatalf("BuildPattern: %v", err)
			}
			frag, ok := Locate(listing, re)
			if tc.want == "" {
				if ok {
					t.Fatalf("expected no match, got %q", frag)
				}
				return
			}
			if !ok {
				t.Fatalf("expected a match for %q %q", tc.first, tc.last)
			}
			if !strings.Contains(frag, tc.want) {
				t.Fatalf("fragment %q does not contain %q", frag, tc.want)
			}
			if !strings.HasPrefix(frag, "{") || !strings.HasSuffix(frag, "}") {
				t.Fatalf("fragment not brace delimited: %q", frag)
			}
		})
	}
}

func TestBuildPattern_FirstMatchWins(t *testing.T) {
	// a bare "Núñez" surname is ambiguous between ids 123 and 456;
	// document order decides
	re, err := BuildPattern("María", "Núñez")
	if err != nil {
		t.Fatalf("BuildPattern: %v", err)
	}
	frag, ok := Locate(listing, re)
	if !ok {
		t.Fatalf("expected a match")
	}
	if !strings.Contains(frag, `"i":123`) {
		t.Fatalf("expected first listing entry to win, got %q", frag)
	}
}

func TestBuildPattern_LongSurnameKeepsFinalTwoWords(t *testing.T) {
	re, err := BuildPattern("María", "de la Núñez Gómez")
	if err != nil {
		t.Fatalf("BuildPattern: %v", err)
	}
	if frag, ok := Locate(listing, re); !ok || !strings.Contains(frag, `"i":123`) {
		t.Fatalf("expected match on final two surname words, got %q ok=%v", frag, ok)
	}
}

func TestParseRecord(t *testing.T) {
	t.Run("string typed numbers", func(t *testing.T) {
		out := ParseRecord(`{"n":"María José","a":"Núñez Gómez","c":"8.75","m":"12","i":123}`)
		rec, ok := out.Found()
		if !ok {
			t.Fatalf("expected found, reason=%q", out.Reason())
		}
		if rec.FullName() != "María José Núñez Gómez" {
			t.Fatalf("full name = %q", rec.FullName())
		}
		if rec.Score != 8.75 || rec.Comments != 12 || rec.ID != "123" {
			t.Fatalf("record = %+v", rec)
		}
	})

	t.Run("escaped accents decode", func(t *testing.T) {
		out := ParseRecord(`{"n":"Mar\u00eda","a":"N\u00fa\u00f1ez","c":"9.1","m":"3","i":456}`)
		rec, ok := out.Found()
		if !ok {
			t.Fatalf("expected found, reason=%q", out.Reason())
		}
		if rec.FullName() != "María Núñez" {
			t.Fatalf("full name = %q", rec.FullName())
		}
	})

	t.Run("number typed fields and string id", func(t *testing.T) {
		out := ParseRecord(`{"n":"Ana","a":"Beltrán","c":7.5,"m":4,"i":"789"}`)
		rec, ok := out.Found()
		if !ok {
			t.Fatalf("expected found, reason=%q", out.Reason())
		}
		if rec.Score != 7.5 || rec.Comments != 4 || rec.ID != "789" {
			t.Fatalf("record = %+v", rec)
		}
	})

	t.Run("unrated entry is not found", func(t *testing.T) {
		out := ParseRecord(`{"n":"Jorge","a":"Aguilar","c":"0","m":"0","i":11}`)
		if _, ok := out.Found(); ok {
			t.Fatalf("expected unrated entry to be filtered")
		}
		if _, isParseErr := out.ParseError(); isParseErr {
			t.Fatalf("unrated entry is a not-found, not a parse error")
		}
	})

	t.Run("rated but commentless entry is not found", func(t *testing.T) {
		out := ParseRecord(`{"n":"Jorge","a":"Aguilar","c":"6.0","m":"0","i":11}`)
		if _, ok := out.Found(); ok {
			t.Fatalf("expected commentless entry to be filtered")
		}
	})

	t.Run("malformed fragment is a parse error", func(t *testing.T) {
		out := ParseRecord(`{"n":"Jorge","a":`)
		if reason, ok := out.ParseError(); !ok || reason == "" {
			t.Fatalf("expected parse error with reason, got %+v", out)
		}
	})

	t.Run("non numeric score is a parse error", func(t *testing.T) {
		out := ParseRecord(`{"n":"Jorge","a":"Aguilar","c":"n/a","m":"2","i":11}`)
		if reason, ok := out.ParseError(); !ok || !strings.Contains(reason, "score") {
			t.Fatalf("expected score parse error, got %+v", out)
		}
	})
}
