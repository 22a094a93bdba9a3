package narration

import (
	"sync"
	"time"

	"editorial_ai/audio"
)

// SilentPlayer produces no sound; a node lasts as long as its buffer would.
// Used on hosts without an output device.
type SilentPlayer struct{}

func (SilentPlayer) Play(buf *audio.Buffer, done func()) (Node, error) {
	n := &timerNode{}
	n.timer = time.AfterFunc(buf.Duration(), func() {
		n.mu.Lock()
		stopped := n.stopped
		n.mu.Unlock()
		if !stopped && done != nil {
			done()
		}
	})
	return n, nil
}

type timerNode struct {
	timer   *time.Timer
	mu      sync.Mutex
	stopped bool
}

func (n *timerNode) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	n.timer.Stop()
	return nil
}
