package generator

import (
	"context"
	"strings"
	"sync"
)

// Desk 持有当前展示的稿件：新稿件整体替换旧稿件，不保留历史。
// 同一时间只允许一个改写请求在途。
type Desk struct {
	agent     *Agent
	listeners []func(*Article)

	mu       sync.Mutex
	current  *Article
	inFlight bool
}

// NewDesk 创建 Desk；listeners 在每次新稿件到达时按顺序调用。
func NewDesk(agent *Agent, listeners ...func(*Article)) *Desk {
	return &Desk{agent: agent, listeners: listeners}
}

// Submit 改写一次提交。空白输入和并发提交在调用后端之前就被拒绝。
func (d *Desk) Submit(ctx context.Context, in SourceInput) (*Article, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyInput
	}

	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return nil, ErrBusy
	}
	d.inFlight = true
	d.mu.Unlock()

	art, err := d.agent.Transform(ctx, in)

	d.mu.Lock()
	d.inFlight = false
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.current = art
	d.mu.Unlock()

	for _, fn := range d.listeners {
		fn(art)
	}
	return art, nil
}

// Current returns the displayed article, or nil before the first success.
func (d *Desk) Current() *Article {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Busy reports whether a submission is in flight.
func (d *Desk) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}
