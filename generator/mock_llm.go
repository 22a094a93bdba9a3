package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// 取提示词首行之后的原文片段，拼成固定结构的 JSON。
	lines := strings.Split(strings.TrimSpace(prompt.User), "\n")
	source := "the submitted material"
	if len(lines) > 1 {
		source = strings.Trim(strings.TrimSpace(lines[1]), `"`)
	}
	out := map[string]any{
		"headline": "A Draft Worth Reading",
		"body": "This is an offline rendition of **" + source + "**.\n\n" +
			"The editors would normally rewrite it in the requested voice.",
		"keyTakeaways": []string{
			"The source was received intact.",
			"No model was consulted.",
			"Configure a real provider for genuine rewrites.",
		},
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
