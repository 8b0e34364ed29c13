// Package wav wraps raw PCM in a RIFF/WAVE container. Container only — the
// samples are written verbatim, no codec involved.
package wav

import "encoding/binary"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16

	HeaderSize = 44
)

// Encode prepends a canonical 44-byte PCM WAV header to pcm using the
// package defaults (16 kHz mono s16le).
func Encode(pcm []byte) []byte {
	return EncodeWith(pcm, SampleRate, Channels)
}

// EncodeWith prepends a PCM WAV header for the given sample rate and channel
// count. Samples are assumed 16-bit little-endian.
func EncodeWith(pcm []byte, sampleRate, channels uint32) []byte {
	bytesPerFrame := channels * BitsPerSample / 8
	byteRate := sampleRate * bytesPerFrame

	buf := make([]byte, HeaderSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(HeaderSize-8+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], byteRate)
	binary.LittleEndian.PutUint16(buf[32:34], uint16(bytesPerFrame))
	binary.LittleEndian.PutUint16(buf[34:36], BitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[HeaderSize:], pcm)
	return buf
}

// Duration returns the length in seconds of pcm at the package defaults.
func Duration(pcm []byte) float64 {
	return float64(len(pcm)/2) / float64(SampleRate)
}
