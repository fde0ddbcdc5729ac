package docproc

import (
	"testing"

	"github.com/ogini-search/core/internal/analysis"
)

func newProcessor() *Processor {
	return NewProcessor(analysis.NewRegistry())
}

func TestProcess_StandardAnalyzer(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"title": {Analyzer: "standard", Indexed: true, Weight: 1}}

	doc, err := p.Process("1", map[string]any{
		"title": "Hello world, This is a test with multiple words!",
	}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	fd := doc.Fields["title"]
	want := []string{"hello", "world", "test", "multiple", "words"}
	if len(fd.Terms) != len(want) {
		t.Fatalf("terms = %v, want %v", fd.Terms, want)
	}
	for i, w := range want {
		if fd.Terms[i] != w {
			t.Errorf("terms[%d] = %q, want %q", i, fd.Terms[i], w)
		}
	}
	if fd.Length != len(want) {
		t.Errorf("Length = %d, want %d", fd.Length, len(want))
	}
}

func TestProcess_Invariants(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"body": {Analyzer: "standard", Indexed: true, Weight: 1}}

	doc, err := p.Process("1", map[string]any{"body": "the cat sat on the cat mat"}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	fd := doc.Fields["body"]
	sum := 0
	for term, freq := range fd.TermFrequencies {
		sum += freq
		if len(fd.Positions[term]) != freq {
			t.Errorf("term %q: len(positions)=%d, want freq=%d", term, len(fd.Positions[term]), freq)
		}
		last := -1
		for _, pos := range fd.Positions[term] {
			if pos <= last {
				t.Errorf("term %q: positions not strictly increasing: %v", term, fd.Positions[term])
			}
			last = pos
		}
	}
	if sum != fd.Length || sum != len(fd.Terms) {
		t.Errorf("sum(freqs)=%d, Length=%d, len(terms)=%d — want all equal", sum, fd.Length, len(fd.Terms))
	}
}

func TestProcess_NotIndexedFieldSkipped(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"secret": {Analyzer: "standard", Indexed: false}}

	doc, err := p.Process("1", map[string]any{"secret": "hidden"}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, ok := doc.Fields["secret"]; ok {
		t.Error("expected non-indexed field to be skipped")
	}
}

func TestProcess_MissingFieldSkipped(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"title": {Analyzer: "standard", Indexed: true}}

	doc, err := p.Process("1", map[string]any{}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, ok := doc.Fields["title"]; ok {
		t.Error("expected missing field to be skipped, not indexed as empty")
	}
}

func TestProcess_UnknownAnalyzerIsFatal(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"title": {Analyzer: "no-such-analyzer", Indexed: true}}

	if _, err := p.Process("1", map[string]any{"title": "hi"}, mapping); err == nil {
		t.Error("expected an error for an unregistered analyzer")
	}
}

func TestProcess_DotPathResolution(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"author.name": {Analyzer: "standard", Indexed: true}}

	doc, err := p.Process("1", map[string]any{
		"author": map[string]any{"name": "Ada Lovelace"},
	}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	fd, ok := doc.Fields["author.name"]
	if !ok {
		t.Fatal("expected dot-path field to resolve")
	}
	if len(fd.Terms) != 2 || fd.Terms[0] != "ada" || fd.Terms[1] != "lovelace" {
		t.Errorf("terms = %v, want [ada lovelace]", fd.Terms)
	}
}

func TestProcess_AutoDetectWhenNoMapping(t *testing.T) {
	p := newProcessor()

	doc, err := p.Process("1", map[string]any{"title": "Hello There"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, ok := doc.Fields["title"]; !ok {
		t.Fatal("expected auto-detected title field to be processed")
	}
}

func TestProcess_KeywordAnalyzer(t *testing.T) {
	p := newProcessor()
	mapping := Mapping{"city": {Analyzer: "keyword", Indexed: true}}

	doc, err := p.Process("1", map[string]any{"city": "  Lagos, Nigeria  "}, mapping)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	fd := doc.Fields["city"]
	if len(fd.Terms) != 1 || fd.Terms[0] != "lagos, nigeria" {
		t.Errorf("terms = %v, want [lagos, nigeria]", fd.Terms)
	}
}
