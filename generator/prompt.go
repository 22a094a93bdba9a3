package generator

import (
	"fmt"
	"strings"
)

// Tier 选择模型档位：链接模式需要检索能力，用更强的模型。
type Tier int

const (
	TierFast Tier = iota
	TierPro
)

func (t Tier) String() string {
	if t == TierPro {
		return "pro"
	}
	return "fast"
}

// Prompt 表示发送给 LLM 的一次完整请求。
type Prompt struct {
	System   string
	User     string
	Tier     Tier
	Grounded bool
	Schema   map[string]any
}

var requirements = []string{
	"The core facts and meaning must remain unchanged.",
	"Elevate the prose to match the target publication's distinct voice perfectly.",
	"Generate a catchy, style-appropriate headline.",
	"Extract exactly 3 distinct key takeaways from the content.",
	"Use Markdown sparingly: **bold** for strong emphasis on key terms only if it fits the publication style, and separate paragraphs with double newlines. No other Markdown.",
}

// BuildPrompt 根据输入模式和文风拼装提示词。
func BuildPrompt(in SourceInput) Prompt {
	var sb strings.Builder
	switch in.Mode {
	case ModeURL:
		sb.WriteString(fmt.Sprintf("I have a YouTube video or article link: %s\n", strings.TrimSpace(in.Content)))
		sb.WriteString("First, use Google Search to find the content, transcript, or summary of this specific video/link.\n")
		sb.WriteString("Understand the core message, arguments, and details.\n")
		sb.WriteString("Then, rewrite the content as an article.\n")
	default:
		sb.WriteString("Here is the raw source text:\n")
		sb.WriteString(fmt.Sprintf("%q\n", strings.TrimSpace(in.Content)))
		sb.WriteString("Rewrite this content into a cohesive article.\n")
	}
	sb.WriteString("\n")
	sb.WriteString(in.Style.Instruction)
	sb.WriteString("\n\nREQUIREMENTS:\n")
	for i, r := range requirements {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r))
	}
	sb.WriteString("\nOutput strictly in JSON format with the fields headline, body and keyTakeaways.")

	p := Prompt{
		System: "You are a senior magazine editor. Reply with the JSON object only, no commentary.",
		User:   sb.String(),
		Tier:   TierFast,
		Schema: ArticleSchema(),
	}
	if in.Mode == ModeURL {
		p.Tier = TierPro
		p.Grounded = true
	}
	return p
}

// ArticleSchema is the fixed response shape; all three fields are required.
func ArticleSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "The article headline in the style of the publication",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "The full rewritten article text. Use paragraphs (\\n\\n) for formatting. Support Markdown (**bold**) for emphasis.",
			},
			"keyTakeaways": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3 bullet points summarizing the core concepts",
			},
		},
		"required": []string{"headline", "body", "keyTakeaways"},
	}
}
