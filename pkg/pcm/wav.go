package pcm

import (
	"encoding/binary"
	"math"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const wavHeaderSize = 44

// EncodeWAV renders a decoded buffer as a 16-bit PCM WAV file so browsers can
// play it with decodeAudioData.
func EncodeWAV(audio *domain.DecodedAudio) []byte {
	frames := audio.Frames()
	channels := audio.ChannelCount
	dataLen := frames * channels * bytesPerSample

	buf := make([]byte, wavHeaderSize+dataLen)
	le := binary.LittleEndian

	// RIFF header
	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	// fmt chunk
	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16)
	le.PutUint16(buf[20:22], 1) // PCM
	le.PutUint16(buf[22:24], uint16(channels))
	le.PutUint32(buf[24:28], uint32(audio.SampleRate))
	le.PutUint32(buf[28:32], uint32(audio.SampleRate*channels*bytesPerSample))
	le.PutUint16(buf[32:34], uint16(channels*bytesPerSample))
	le.PutUint16(buf[34:36], 16)

	// data chunk
	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(dataLen))

	off := wavHeaderSize
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			le.PutUint16(buf[off:off+bytesPerSample], uint16(quantize(audio.ChannelSamples[c][i])))
			off += bytesPerSample
		}
	}

	return buf
}

func quantize(f float32) int16 {
	v := math.Round(float64(f) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
