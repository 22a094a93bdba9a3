// Package audio converts narration PCM into playable float buffers and into
// RIFF/WAVE containers for download.
package audio
