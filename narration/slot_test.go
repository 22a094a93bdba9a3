package narration

import (
	"errors"
	"testing"
)

type stubNode struct {
	stops int
	err   error
}

func (n *stubNode) Stop() error {
	n.stops++
	return n.err
}

func TestSlotReplaceStopsPrevious(t *testing.T) {
	var s Slot
	a, b := &stubNode{}, &stubNode{}

	if err := s.Replace(a); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if s.Active() != 1 || !s.Holds(a) {
		t.Fatal("slot should hold a")
	}
	if err := s.Replace(b); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if a.stops != 1 {
		t.Errorf("previous node should be stopped once, got %d", a.stops)
	}
	if s.Active() != 1 || !s.Holds(b) || s.Holds(a) {
		t.Error("slot should hold only b")
	}
}

func TestSlotReplaceInstallsDespiteStopError(t *testing.T) {
	var s Slot
	bad := &stubNode{err: errors.New("device busy")}
	_ = s.Replace(bad)
	next := &stubNode{}
	if err := s.Replace(next); err == nil {
		t.Error("stop error should be reported")
	}
	if !s.Holds(next) {
		t.Error("new node should be installed regardless")
	}
}

func TestSlotRelease(t *testing.T) {
	var s Slot
	if err := s.Release(); err != nil {
		t.Errorf("releasing an empty slot should be a no-op, got %v", err)
	}
	n := &stubNode{}
	_ = s.Replace(n)
	_ = s.Release()
	_ = s.Release()
	if n.stops != 1 {
		t.Errorf("expected one stop, got %d", n.stops)
	}
	if s.Active() != 0 || s.Holds(nil) {
		t.Error("slot should be empty")
	}
}

func TestCache(t *testing.T) {
	var c Cache
	if !c.Empty() {
		t.Fatal("new cache should be empty")
	}
	c.Put("a", Asset{Data: "AAAA", SampleRate: 24000})
	if got, ok := c.Get("a"); !ok || got.Data != "AAAA" {
		t.Errorf("expected hit for a, got %+v %v", got, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("cache must not answer for another article")
	}
	c.Put("b", Asset{Data: "BBBB"})
	if _, ok := c.Get("a"); ok {
		t.Error("only one entry is kept")
	}
	c.Clear()
	if !c.Empty() {
		t.Error("Clear should empty the cache")
	}
}
