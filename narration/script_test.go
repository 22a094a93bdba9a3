package narration

import (
	"testing"

	"editorial_ai/generator"
)

func TestStripMarkdown(t *testing.T) {
	cases := []struct{ in, want string }{
		{"The **chip** war", "The chip war"},
		{"An *important* point", "An important point"},
		{"**Bold** and *italic* and **more**", "Bold and italic and more"},
		{"no markers here", "no markers here"},
		{"a lone * star", "a lone * star"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripMarkdown(c.in); got != c.want {
			t.Errorf("StripMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripMarkdownIdempotent(t *testing.T) {
	for _, in := range []string{"The **chip** war", "*a* **b** *c*", "x * y ** z"} {
		once := StripMarkdown(in)
		if twice := StripMarkdown(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestScript(t *testing.T) {
	a := &generator.Article{Headline: "Chips Ahoy", Body: "Exports **fell**.\n\nThen *rose*."}
	want := "Chips Ahoy\n\nExports fell.\n\nThen rose."
	if got := Script(a); got != want {
		t.Errorf("Script = %q, want %q", got, want)
	}
}
