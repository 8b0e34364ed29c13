//go:build !linux

package beep

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx     *malgo.AllocatedContext
	device       *malgo.Device
	startSamples []byte
	endSamples   []byte
	errorSamples []byte
	soundOnce    sync.Once

	// Playback state, accessed atomically from the device callback
	playSamples atomic.Pointer[[]byte]
	playPos     atomic.Uint32
	playMu      sync.Mutex
)

func int16Bytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	startSamples = int16Bytes(generateTick(startFreq, 0.03, startVolume, startDecay))
	endSamples = int16Bytes(generateTick(endFreq, 0.05, endVolume, endDecay))
	errorSamples = int16Bytes(generateDoubleBeep(errorFreq, 0.08, 0.05, errorVolume, errorDecay))

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{
		Data: dataCallback,
	})
	if err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
		return
	}
	device.Start()
}

func Init() {
	soundOnce.Do(initSound)
}

func dataCallback(pOutput, _ []byte, _ uint32) {
	samples := playSamples.Load()
	if samples == nil || len(*samples) == 0 {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	pos := int(playPos.Load())
	n := copy(pOutput, (*samples)[pos:])
	for i := n; i < len(pOutput); i++ {
		pOutput[i] = 0
	}
	if pos+n >= len(*samples) {
		playSamples.Store(nil)
		playPos.Store(0)
	} else {
		playPos.Store(uint32(pos + n))
	}
}

func play(buf []byte) {
	if disabled || device == nil || len(buf) == 0 {
		return
	}
	playMu.Lock()
	playPos.Store(0)
	playSamples.Store(&buf)
	playMu.Unlock()
}

func PlayStart() {
	soundOnce.Do(initSound)
	play(startSamples)
}

func PlayEnd() {
	soundOnce.Do(initSound)
	play(endSamples)
}

func PlayError() {
	soundOnce.Do(initSound)
	play(errorSamples)
}
