// This file is part of audiocommon.
//
// audiocommon is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// audiocommon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with audiocommon.  If not, see <https://www.gnu.org/licenses/>.

package backend

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/veandco/go-sdl2/sdl"
)

// the number of device buffers SDL is allowed to queue before the push
// goroutine is asked for another
const sdlQueuedBuffers = 2

func newSDL() Driver {
	return newPushDriver(NameSDL, newSDLHost())
}

// sdlHost is a push host using SDL's audio queue. SDL has no event for
// when the queue needs more data so a ticker goroutine checks the size of the
// queue once per buffer period.
type sdlHost struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	buf []byte

	needed chan struct{}
	quit   chan struct{}
	wg     sync.WaitGroup
}

func newSDLHost() *sdlHost {
	return &sdlHost{
		needed: make(chan struct{}, 1),
	}
}

// sdlDevices lists the names of the playback devices
func sdlDevices() ([]string, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}
	defer sdl.QuitSubSystem(sdl.INIT_AUDIO)

	n := sdl.GetNumAudioDevices(false)
	names := make([]string, 0, n)
	for i := range n {
		names = append(names, sdl.GetAudioDeviceName(i, false))
	}
	return names, nil
}

func (h *sdlHost) open(cfg Config) (int, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: uint8(cfg.Layout.Channels()),
		Samples:  MinBufferFrames,
	}
	if cfg.Layout == samples.Surround51Float {
		spec.Format = sdl.AUDIO_F32SYS
	}

	var device string
	if !cfg.IsDefaultDevice() {
		device = cfg.Device
		found := false
		for i := range sdl.GetNumAudioDevices(false) {
			if sdl.GetAudioDeviceName(i, false) == device {
				found = true
				break
			}
		}
		if !found {
			logger.Logf(logger.Allow, NameSDL, "device %q not found, using default device", device)
			device = ""
		}
	}

	var actual sdl.AudioSpec

	// with no allowed changes SDL converts to the format of the hardware
	// when necessary
	id, err := sdl.OpenAudioDevice(device, false, spec, &actual, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	if actual.Freq != spec.Freq || actual.Channels != spec.Channels || actual.Format != spec.Format {
		sdl.CloseAudioDevice(id)
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return 0, curated.Errorf(DeviceFormatUnsupported,
			fmt.Errorf("%dHz %d channels", actual.Freq, actual.Channels))
	}

	h.id = id
	h.spec = actual
	h.buf = make([]byte, int(actual.Samples)*cfg.Layout.BytesPerFrame())

	return int(actual.Samples), nil
}

func (h *sdlHost) start() error {
	sdl.PauseAudioDevice(h.id, false)

	h.quit = make(chan struct{})
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		period := time.Duration(h.spec.Samples) * time.Second / time.Duration(h.spec.Freq)
		tck := time.NewTicker(period)
		defer tck.Stop()

		for {
			select {
			case <-h.quit:
				return
			case <-tck.C:
				if sdl.GetQueuedAudioSize(h.id) < uint32(len(h.buf)*sdlQueuedBuffers) {
					select {
					case h.needed <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	return nil
}

func (h *sdlHost) stop() error {
	if h.quit != nil {
		close(h.quit)
		h.wg.Wait()
		h.quit = nil
	}
	sdl.PauseAudioDevice(h.id, true)
	sdl.ClearQueuedAudio(h.id)
	return nil
}

func (h *sdlHost) need() <-chan struct{} {
	return h.needed
}

func (h *sdlHost) buffer() ([]byte, error) {
	return h.buf, nil
}

func (h *sdlHost) submit() error {
	return sdl.QueueAudio(h.id, h.buf)
}

func (h *sdlHost) byteOrder() binary.ByteOrder {
	return binary.NativeEndian
}

func (h *sdlHost) close() error {
	sdl.CloseAudioDevice(h.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
