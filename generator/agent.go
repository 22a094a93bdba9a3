package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Agent 负责把一次提交改写成目标文风的稿件，不保留跨请求状态。
type Agent struct {
	llm LLMClient
	now func() time.Time
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, now: time.Now}, nil
}

// Transform 只调用一次后端，失败即返回，不做重试。
func (a *Agent) Transform(ctx context.Context, in SourceInput) (*Article, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyInput
	}
	if strings.TrimSpace(in.Style.Instruction) == "" {
		return nil, fmt.Errorf("%w: %q has no instruction", ErrUnknownStyle, in.Style.ID)
	}
	if _, ok := ParseMode(string(in.Mode)); !ok {
		return nil, fmt.Errorf("unsupported input mode %q", in.Mode)
	}
	if in.Mode == "" {
		in.Mode = ModeText
	}

	raw, err := a.llm.Complete(ctx, BuildPrompt(in))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: backend returned no content", ErrGenerationFailed)
	}

	art, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	art.ID = uuid.NewString()
	art.StyleID = in.Style.ID
	art.Mode = in.Mode
	art.CreatedAt = a.now()
	return &art, nil
}
