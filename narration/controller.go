package narration

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"editorial_ai/audio"
	"editorial_ai/generator"
)

// State of the read-aloud session.
type State int

const (
	Idle State = iota
	Requesting
	Playing
)

func (s State) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

var (
	ErrBusy      = errors.New("narration request already in progress")
	ErrNoArticle = errors.New("no article to narrate")
)

// Controller drives read-aloud for the displayed article. It owns the audio
// cache and the single playback slot.
//
// Transitions: Idle -> Requesting -> Playing -> Idle, or Requesting -> Idle
// on failure. ReadAloud while Playing stops playback.
type Controller struct {
	synth  Synthesizer
	player Player
	logger *slog.Logger

	// serializes synthesis so concurrent callers share one backend call
	fetchMu sync.Mutex
	cache   Cache
	slot    Slot

	mu      sync.Mutex
	state   State
	article *generator.Article
	gen     uint64
	idle    chan struct{}
}

func NewController(synth Synthesizer, player Player, logger *slog.Logger) (*Controller, error) {
	if synth == nil {
		return nil, errors.New("synthesizer is required")
	}
	if player == nil {
		return nil, errors.New("player is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{synth: synth, player: player, logger: logger}, nil
}

// SetArticle switches the displayed article: playback stops and the cache is cleared.
func (c *Controller) SetArticle(a *generator.Article) {
	c.mu.Lock()
	c.article = a
	if err := c.stopLocked(); err != nil {
		c.logger.Warn("Failed to stop playback on article change", slog.String("error", err.Error()))
	}
	c.mu.Unlock()
	c.cache.Clear()
}

// Article returns the article currently narrated, if any.
func (c *Controller) Article() *generator.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.article
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReadAloud toggles narration and returns the resulting state.
func (c *Controller) ReadAloud(ctx context.Context) (State, error) {
	c.mu.Lock()
	switch c.state {
	case Playing:
		err := c.stopLocked()
		c.mu.Unlock()
		return Idle, err
	case Requesting:
		c.mu.Unlock()
		return Requesting, ErrBusy
	}
	art := c.article
	if art == nil {
		c.mu.Unlock()
		return Idle, ErrNoArticle
	}
	c.state = Requesting
	c.mu.Unlock()

	asset, err := c.fetch(ctx, art)
	var buf *audio.Buffer
	if err == nil {
		buf, _, err = audio.DecodeBase64PCM(asset.Data, asset.SampleRate)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Idle
		return Idle, err
	}
	if c.article != art {
		// superseded while synthesizing; nothing to play for the new article yet
		c.state = Idle
		return Idle, nil
	}

	if err := c.slot.Release(); err != nil {
		c.logger.Warn("Failed to release previous output", slog.String("error", err.Error()))
	}
	c.gen++
	gen := c.gen
	node, err := c.player.Play(buf, func() { c.finished(gen) })
	if err != nil {
		c.state = Idle
		return Idle, fmt.Errorf("start playback: %w", err)
	}
	_ = c.slot.Replace(node)
	c.state = Playing
	c.idle = make(chan struct{})

	c.logger.Info("Narration started",
		slog.String("article_id", art.ID),
		slog.Duration("duration", buf.Duration()),
	)
	return Playing, nil
}

// Stop ends playback. Stopping while idle is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

// WaitIdle blocks until the current playback finishes or ctx is done.
func (c *Controller) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return nil
	}
	ch := c.idle
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Audio returns the narration asset for the displayed article, synthesizing
// it on first use.
func (c *Controller) Audio(ctx context.Context) (Asset, error) {
	art := c.Article()
	if art == nil {
		return Asset{}, ErrNoArticle
	}
	return c.fetch(ctx, art)
}

// WAV returns the narration of the displayed article as a WAV file.
func (c *Controller) WAV(ctx context.Context) ([]byte, error) {
	asset, err := c.Audio(ctx)
	if err != nil {
		return nil, err
	}
	pcm, err := base64.StdEncoding.DecodeString(asset.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio: %w", err)
	}
	return audio.EncodeWAV(pcm, asset.SampleRate)
}

// Cached reports whether audio for the displayed article is cached.
func (c *Controller) Cached() bool {
	art := c.Article()
	if art == nil {
		return false
	}
	_, ok := c.cache.Get(art.ID)
	return ok
}

// Close stops playback and releases the player when it holds resources.
func (c *Controller) Close() error {
	err := c.Stop()
	if closer, ok := c.player.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (c *Controller) fetch(ctx context.Context, art *generator.Article) (Asset, error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	if a, ok := c.cache.Get(art.ID); ok {
		return a, nil
	}

	asset, err := c.synth.Synthesize(ctx, Script(art))
	if err != nil {
		c.logger.Error("Speech synthesis failed",
			slog.String("article_id", art.ID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, ErrSynthesisFailed) {
			return Asset{}, err
		}
		return Asset{}, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}
	if asset.SampleRate == 0 {
		asset.SampleRate = audio.NarrationSampleRate
	}
	pcm, err := base64.StdEncoding.DecodeString(asset.Data)
	if err != nil || len(pcm) < audio.BytesPerSample {
		return Asset{}, fmt.Errorf("%w: unusable audio payload", ErrSynthesisFailed)
	}

	if c.Article() == art {
		c.cache.Put(art.ID, asset)
	}
	return asset, nil
}

func (c *Controller) finished(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing || c.gen != gen {
		return
	}
	if err := c.slot.Release(); err != nil {
		c.logger.Warn("Failed to release finished output", slog.String("error", err.Error()))
	}
	c.state = Idle
	close(c.idle)
	c.logger.Debug("Narration finished")
}

func (c *Controller) stopLocked() error {
	if c.state != Playing {
		return nil
	}
	err := c.slot.Release()
	c.state = Idle
	close(c.idle)
	return err
}
