package narration

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"editorial_ai/audio"
)

// MalgoPlayer plays buffers on the default playback device. The malgo
// context is created on first use and kept until Close.
type MalgoPlayer struct {
	mu           sync.Mutex
	malgoContext *malgo.AllocatedContext
}

func NewMalgoPlayer() *MalgoPlayer {
	return &MalgoPlayer{}
}

func (p *MalgoPlayer) context() (*malgo.AllocatedContext, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.malgoContext != nil {
		return p.malgoContext, nil
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	p.malgoContext = ctx
	return ctx, nil
}

// Play starts a new playback device for buf.
func (p *MalgoPlayer) Play(buf *audio.Buffer, done func()) (Node, error) {
	ctx, err := p.context()
	if err != nil {
		return nil, err
	}

	node := &malgoNode{samples: buf.Samples, done: done}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(buf.SampleRate)

	callbacks := malgo.DeviceCallbacks{Data: node.fill}
	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	node.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}
	return node, nil
}

// Close releases the malgo context.
func (p *MalgoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.malgoContext == nil {
		return nil
	}
	err := p.malgoContext.Uninit()
	p.malgoContext.Free()
	p.malgoContext = nil
	return err
}

type malgoNode struct {
	device *malgo.Device

	mu       sync.Mutex
	samples  []float32
	pos      int
	stopped  bool
	finished bool
	done     func()

	stopOnce sync.Once
}

// fill runs on the audio thread. The device must not be stopped from here,
// so completion is reported on a separate goroutine.
func (n *malgoNode) fill(out, _ []byte, frames uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := 0; i < int(frames) && (i+1)*4 <= len(out); i++ {
		var v float32
		if !n.stopped && n.pos < len(n.samples) {
			v = n.samples[n.pos]
			n.pos++
		}
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}

	if n.pos >= len(n.samples) && !n.finished && !n.stopped {
		n.finished = true
		if n.done != nil {
			go n.done()
		}
	}
}

func (n *malgoNode) Stop() error {
	var err error
	n.stopOnce.Do(func() {
		n.mu.Lock()
		n.stopped = true
		n.mu.Unlock()
		if n.device != nil {
			err = n.device.Stop()
			n.device.Uninit()
		}
	})
	return err
}
