package narration

import "sync"

// Slot owns at most one Node. Replace always stops and releases the
// previous node before installing the new one.
type Slot struct {
	mu  sync.Mutex
	cur Node
}

// Replace installs n after releasing the prior node. The prior node's stop
// error is returned, but n is installed regardless.
func (s *Slot) Replace(n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.cur != nil {
		err = s.cur.Stop()
	}
	s.cur = n
	return err
}

// Release stops and drops the current node. It is a no-op when empty.
func (s *Slot) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	err := s.cur.Stop()
	s.cur = nil
	return err
}

// Holds reports whether n is the installed node.
func (s *Slot) Holds(n Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return n != nil && s.cur == n
}

// Active returns the number of installed nodes, 0 or 1.
func (s *Slot) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return 0
	}
	return 1
}
