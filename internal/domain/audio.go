package domain

import "time"

const (
	SpeechSampleRate   = 24000
	SpeechChannelCount = 1
	DefaultVoice       = "Kore"
)

// PrebuiltVoices lists the voices the speech backend accepts.
var PrebuiltVoices = []string{"Puck", "Charon", "Kore", "Fenrir", "Aoede"}

// DecodedAudio is a playable multi-channel buffer with samples in [-1, 1).
type DecodedAudio struct {
	SampleRate     int
	ChannelCount   int
	ChannelSamples [][]float32
}

// Frames is the number of samples per channel.
func (a *DecodedAudio) Frames() int {
	if a == nil || len(a.ChannelSamples) == 0 {
		return 0
	}
	return len(a.ChannelSamples[0])
}

// Duration is the playback length of the buffer.
func (a *DecodedAudio) Duration() time.Duration {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
}

// SpeakRequest is the input of the playback pipeline. Audio, when set, is a
// PCM16 payload already synthesized by the caller.
type SpeakRequest struct {
	Text      string
	VoiceName string
	Audio     []byte
}

// PlaybackOutcome tells which tier rendered a SpeakRequest.
type PlaybackOutcome string

const (
	PlaybackAI      PlaybackOutcome = "ai"
	PlaybackLocal   PlaybackOutcome = "local"
	PlaybackSkipped PlaybackOutcome = "skipped"
)
