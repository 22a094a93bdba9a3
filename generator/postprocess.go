package generator

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decode 校验模型返回的 JSON 并转换为 Article。
// 要点条目数不做强制，任意数量都接受。
func Decode(raw string) (Article, error) {
	text := stripFences(raw)
	if text == "" {
		return Article{}, ErrGenerationFailed
	}
	if !gjson.Valid(text) {
		return Article{}, fmt.Errorf("%w: response is not valid JSON", ErrMalformedResponse)
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return Article{}, fmt.Errorf("%w: response is not a JSON object", ErrMalformedResponse)
	}

	headline, err := requiredString(doc, "headline")
	if err != nil {
		return Article{}, err
	}
	body, err := requiredString(doc, "body")
	if err != nil {
		return Article{}, err
	}

	tk := doc.Get("keyTakeaways")
	if !tk.IsArray() {
		return Article{}, fmt.Errorf("%w: keyTakeaways must be an array", ErrMalformedResponse)
	}
	takeaways := []string{}
	for _, item := range tk.Array() {
		if item.Type != gjson.String {
			return Article{}, fmt.Errorf("%w: keyTakeaways must contain strings", ErrMalformedResponse)
		}
		takeaways = append(takeaways, item.String())
	}

	return Article{
		Headline:     headline,
		Body:         body,
		KeyTakeaways: takeaways,
	}, nil
}

func requiredString(doc gjson.Result, field string) (string, error) {
	v := doc.Get(field)
	if !v.Exists() || v.Type != gjson.String {
		return "", fmt.Errorf("%w: missing string field %q", ErrMalformedResponse, field)
	}
	if strings.TrimSpace(v.String()) == "" {
		return "", fmt.Errorf("%w: field %q is empty", ErrMalformedResponse, field)
	}
	return v.String(), nil
}

// 部分模型会把 JSON 包在 ``` 代码块里。
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
