// Package pcm converts raw 16-bit PCM payloads into playable buffers.
package pcm

import (
	"encoding/binary"
	"fmt"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const bytesPerSample = 2

// Decode turns little-endian signed 16-bit interleaved PCM into per-channel
// float samples in [-1, 1). A trailing partial frame is dropped. An empty
// payload yields a zero-frame buffer.
func Decode(payload []byte, sampleRate, channelCount int) (*domain.DecodedAudio, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", domain.ErrDecode, sampleRate)
	}
	if channelCount <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", domain.ErrDecode, channelCount)
	}

	frameSize := bytesPerSample * channelCount
	frames := len(payload) / frameSize

	channels := make([][]float32, channelCount)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		base := i * frameSize
		for c := 0; c < channelCount; c++ {
			off := base + c*bytesPerSample
			sample := int16(binary.LittleEndian.Uint16(payload[off : off+bytesPerSample]))
			channels[c][i] = float32(sample) / 32768.0
		}
	}

	return &domain.DecodedAudio{
		SampleRate:     sampleRate,
		ChannelCount:   channelCount,
		ChannelSamples: channels,
	}, nil
}
