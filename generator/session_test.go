package generator

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeskReplacesCurrentArticle(t *testing.T) {
	llm := &fakeLLM{out: economistReply}
	agent, _ := NewAgent(llm)

	var seen []*Article
	desk := NewDesk(agent, func(a *Article) { seen = append(seen, a) })
	if desk.Current() != nil {
		t.Fatal("desk should start empty")
	}

	style, _ := LookupStyle("")
	first, err := desk.Submit(context.Background(), SourceInput{Content: "one", Style: style})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := desk.Submit(context.Background(), SourceInput{Content: "two", Style: style})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if desk.Current() != second || first.ID == second.ID {
		t.Error("second article should replace the first")
	}
	if len(seen) != 2 || seen[1] != second {
		t.Errorf("listeners should see every new article, got %d", len(seen))
	}
}

func TestDeskKeepsArticleOnFailure(t *testing.T) {
	llm := &fakeLLM{out: economistReply}
	agent, _ := NewAgent(llm)
	desk := NewDesk(agent)
	style, _ := LookupStyle("")

	ok, err := desk.Submit(context.Background(), SourceInput{Content: "one", Style: style})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	llm.out = "not json"
	if _, err := desk.Submit(context.Background(), SourceInput{Content: "two", Style: style}); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	if desk.Current() != ok {
		t.Error("failed submission must not replace the displayed article")
	}
}

func TestDeskRejectsEmptyInput(t *testing.T) {
	llm := &fakeLLM{out: economistReply}
	agent, _ := NewAgent(llm)
	desk := NewDesk(agent)
	style, _ := LookupStyle("")
	if _, err := desk.Submit(context.Background(), SourceInput{Content: "   ", Style: style}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if llm.calls() != 0 {
		t.Error("backend should not be called for blank input")
	}
}

func TestDeskRejectsConcurrentSubmit(t *testing.T) {
	llm := &fakeLLM{out: economistReply, block: make(chan struct{})}
	agent, _ := NewAgent(llm)
	desk := NewDesk(agent)
	style, _ := LookupStyle("")

	done := make(chan error, 1)
	go func() {
		_, err := desk.Submit(context.Background(), SourceInput{Content: "slow", Style: style})
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !desk.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := desk.Submit(context.Background(), SourceInput{Content: "fast", Style: style}); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(llm.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if desk.Busy() {
		t.Error("desk should be idle after completion")
	}
	if llm.calls() != 1 {
		t.Errorf("expected one backend call, got %d", llm.calls())
	}
}
