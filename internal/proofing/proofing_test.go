package proofing

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testChecker() *Checker {
	return New(
		[]string{"bapak", "pulang", "kampung", "bagaimana", "bisa", "pulau", "pula", "Presiden", "", "pulang"},
		map[string]string{"bgmn": "bagaimana", "Gmn": "bagaimana"},
	)
}

func TestNew(t *testing.T) {
	c := testChecker()
	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
}

func TestCheckWord(t *testing.T) {
	c := testChecker()

	tests := []struct {
		name string
		word string
		want WordResult
	}{
		{
			name: "empty",
			word: "",
			want: WordResult{Word: "", Suggestions: []string{}},
		},
		{
			name: "known",
			word: "pulang",
			want: WordResult{Word: "pulang", Exists: true},
		},
		{
			name: "known any case",
			word: "Pulang",
			want: WordResult{Word: "Pulang", Exists: true},
		},
		{
			name: "dictionary word stored uppercase",
			word: "presiden",
			want: WordResult{Word: "presiden", Exists: true},
		},
		{
			name: "custom replacement",
			word: "bgmn",
			want: WordResult{Word: "bagaimana", Exists: true},
		},
		{
			name: "custom key case folded",
			word: "gmn",
			want: WordResult{Word: "bagaimana", Exists: true},
		},
		{
			name: "typo gets suggestion",
			word: "pulagn",
			want: WordResult{Word: "pulagn", Suggestions: []string{"pulang", "pula"}},
		},
		{
			name: "no close word",
			word: "bg",
			want: WordResult{Word: "bg", Suggestions: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CheckWord(tt.word)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckWord(%q) = %+v, want %+v", tt.word, got, tt.want)
			}
		})
	}
}

func TestCheckWords(t *testing.T) {
	c := testChecker()

	got := c.CheckWords("Bapak pulagn kampung?")
	if len(got) != 3 {
		t.Fatalf("CheckWords() returned %d results, want 3", len(got))
	}
	if !got[0].Exists || got[1].Exists || !got[2].Exists {
		t.Errorf("CheckWords() = %+v", got)
	}

	if got := c.CheckWords(""); len(got) != 0 {
		t.Errorf("CheckWords(\"\") = %+v, want empty", got)
	}

	unknown := c.Unknown("bapak pulagn kampung")
	if len(unknown) != 1 || unknown[0].Word != "pulagn" {
		t.Errorf("Unknown() = %+v", unknown)
	}
}

func TestSuggest_OrderAndLimit(t *testing.T) {
	c := New([]string{"pulau", "pula", "pulas", "pular", "pulai", "kulai"}, nil)

	got := c.Suggest("pulai")
	// pulai 1.0, pula 0.89, then a three-way tie at 0.8 won by the larger word.
	want := []string{"pulai", "pula", "pulau"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest() = %v, want %v", got, want)
	}
}

func TestMatcherRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "pulang", b: "pulagn", want: 10.0 / 12.0},
		{a: "abcd", b: "abcd", want: 1},
		{a: "abcd", b: "wxyz", want: 0},
		{a: "", b: "", want: 1},
	}

	for _, tt := range tests {
		got := newMatcher([]rune(tt.b)).ratio([]rune(tt.a))
		if got < tt.want-1e-12 || got > tt.want+1e-12 {
			t.Errorf("ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "dictionary.txt")
	customPath := filepath.Join(dir, "custom_dict.json")

	if err := os.WriteFile(dictPath, []byte("bapak\npulang\n\nkampung\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(customPath, []byte(`{"plg": "pulang"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dictPath, customPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if r := c.CheckWord("plg"); !r.Exists || r.Word != "pulang" {
		t.Errorf("CheckWord(plg) = %+v", r)
	}

	if _, err := Load(dictPath, ""); err != nil {
		t.Errorf("Load() without custom dictionary error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.txt"), ""); err == nil {
		t.Error("Load() expected error for missing dictionary")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dictPath, bad); err == nil {
		t.Error("Load() expected error for invalid custom dictionary")
	}
}
