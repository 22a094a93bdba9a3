package generator

import "time"

// InputMode 区分用户提交的是原文还是链接。
type InputMode string

const (
	ModeText InputMode = "text"
	ModeURL  InputMode = "url"
)

// ParseMode accepts the wire names used by the UI and CLI.
func ParseMode(s string) (InputMode, bool) {
	switch InputMode(s) {
	case ModeText, "":
		return ModeText, true
	case ModeURL:
		return ModeURL, true
	}
	return "", false
}

// SourceInput is one submission: the raw content plus the target style.
type SourceInput struct {
	Mode    InputMode
	Content string
	Style   Style
}

// Article 是一次成功改写的产物，生成后不再修改。
type Article struct {
	ID           string    `json:"id"`
	StyleID      string    `json:"style_id"`
	Mode         InputMode `json:"mode"`
	Headline     string    `json:"headline"`
	Body         string    `json:"body"`
	KeyTakeaways []string  `json:"keyTakeaways"`
	CreatedAt    time.Time `json:"created_at"`
}
