package analysis

import (
	"reflect"
	"testing"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestStandardTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "hello world", []string{"hello", "world"}},
		{"with punctuation", "hello, world!", []string{"hello", "world"}},
		{"camelCase", "theOffice", []string{"the", "Office"}},
		{"PascalCase", "TheOffice", []string{"The", "Office"}},
		{"acronym then camelCase", "HTTPRequestManager", []string{"HTTP", "Request", "Manager"}},
		{"string with hyphen", "state-of-the-art", []string{"state", "of", "the", "art"}},
		{"only symbols", "!@#$%^", []string{}},
	}

	tok := StandardTokenizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(tok.Tokenize(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardTokenizer_Positions(t *testing.T) {
	tok := StandardTokenizer{}
	got := tok.Tokenize("hello world again")
	want := []int{0, 1, 2}
	for i, tk := range got {
		if tk.Position != want[i] {
			t.Errorf("token %d position = %d, want %d", i, tk.Position, want[i])
		}
	}
}

func TestWhitespaceTokenizer(t *testing.T) {
	tok := WhitespaceTokenizer{}
	got := texts(tok.Tokenize("hello, World!  foo"))
	want := []string{"hello,", "World!", "foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestKeywordTokenizer(t *testing.T) {
	tok := KeywordTokenizer{}

	got := texts(tok.Tokenize("Exact Value!"))
	want := []string{"Exact Value!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := tok.Tokenize(""); len(got) != 0 {
		t.Errorf("empty input should yield no tokens, got %v", got)
	}
}

func TestNgramTokenizer(t *testing.T) {
	tok := NgramTokenizer{Min: 2, Max: 3}
	got := texts(tok.Tokenize("cat"))
	want := []string{"ca", "cat", "at"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNewTokenizer_Unknown(t *testing.T) {
	if _, err := NewTokenizer("madeup", 0, 0); err == nil {
		t.Error("expected error for unknown tokenizer name")
	}
}
