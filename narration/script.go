package narration

import (
	"regexp"

	"editorial_ai/generator"
)

var (
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasisRe = regexp.MustCompile(`\*(.*?)\*`)
)

// StripMarkdown removes **bold** and *emphasis* markers, keeping the enclosed text.
func StripMarkdown(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	return emphasisRe.ReplaceAllString(text, "$1")
}

// Script is the text read aloud: headline, a blank line, then the plain body.
func Script(a *generator.Article) string {
	return a.Headline + "\n\n" + StripMarkdown(a.Body)
}
