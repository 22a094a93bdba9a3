package narration

import "editorial_ai/audio"

// Node is one active output: a buffer being played on a device.
type Node interface {
	// Stop halts output and releases the device. Calling it twice is safe.
	Stop() error
}

// Player creates output nodes. done is called once when the buffer has been
// played to the end; it is not called after Stop.
type Player interface {
	Play(buf *audio.Buffer, done func()) (Node, error)
}
