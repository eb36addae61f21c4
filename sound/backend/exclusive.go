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
	"sync"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/gen2brain/malgo"
)

func newExclusive() Driver {
	return newPushDriver(NameExclusive, newExclusiveHost())
}

// exclusiveHost is a push host that opens the device in exclusive mode.
//
// there are two buffers. the push goroutine fills one buffer while the device
// callback plays the other. when the device has finished playing a buffer it
// signals that a buffer is needed.
type exclusiveHost struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	crit sync.Mutex

	bufs  [2][]byte
	ready [2]bool

	// the buffer being filled by the push goroutine
	filling int

	// the buffer being played by the callback and the play position in it
	playing int
	pos     int

	needed chan struct{}
}

func newExclusiveHost() *exclusiveHost {
	return &exclusiveHost{
		needed: make(chan struct{}, 1),
	}
}

func (h *exclusiveHost) open(cfg Config) (int, error) {
	ctx, err := newMiniaudioContext()
	if err != nil {
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = miniaudioFormat(cfg.Layout)
	deviceConfig.Playback.Channels = uint32(cfg.Layout.Channels())
	deviceConfig.Playback.ShareMode = malgo.Exclusive
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PerformanceProfile = malgo.LowLatency
	deviceConfig.PeriodSizeInFrames = MinBufferFrames
	selectMiniaudioDevice(ctx, &deviceConfig, cfg, NameExclusive)

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, _ uint32) {
			h.play(output)
		},
	})
	if err != nil {
		freeMiniaudioContext(ctx)

		// the most common reason for failing to open a device in exclusive
		// mode is that another application is using it
		return 0, curated.Errorf(DeviceBusy, err)
	}

	h.ctx = ctx
	h.device = device
	h.setup(cfg.Layout, MinBufferFrames)

	return MinBufferFrames, nil
}

func (h *exclusiveHost) setup(layout samples.Layout, frames int) {
	for i := range h.bufs {
		h.bufs[i] = make([]byte, frames*layout.BytesPerFrame())
		h.ready[i] = false
	}
	h.filling = 0
	h.playing = 0
	h.pos = 0
}

// play is called by the device callback
func (h *exclusiveHost) play(output []byte) {
	h.crit.Lock()
	defer h.crit.Unlock()

	n := 0
	for n < len(output) {
		if !h.ready[h.playing] {
			clear(output[n:])
			return
		}

		c := copy(output[n:], h.bufs[h.playing][h.pos:])
		n += c
		h.pos += c

		if h.pos >= len(h.bufs[h.playing]) {
			h.ready[h.playing] = false
			h.playing ^= 1
			h.pos = 0
			h.signal()
		}
	}
}

func (h *exclusiveHost) signal() {
	select {
	case h.needed <- struct{}{}:
	default:
	}
}

func (h *exclusiveHost) start() error {
	// the buffer not filled by priming is needed straight away
	h.signal()
	return h.device.Start()
}

func (h *exclusiveHost) stop() error {
	err := h.device.Stop()

	h.crit.Lock()
	defer h.crit.Unlock()
	for i := range h.ready {
		h.ready[i] = false
	}
	h.filling = 0
	h.playing = 0
	h.pos = 0

	select {
	case <-h.needed:
	default:
	}

	return err
}

func (h *exclusiveHost) need() <-chan struct{} {
	return h.needed
}

func (h *exclusiveHost) buffer() ([]byte, error) {
	h.crit.Lock()
	defer h.crit.Unlock()
	if h.ready[h.filling] {
		return nil, curated.Errorf(DeviceBusy, "no free buffer")
	}
	return h.bufs[h.filling], nil
}

func (h *exclusiveHost) submit() error {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.ready[h.filling] = true
	h.filling ^= 1
	return nil
}

func (h *exclusiveHost) byteOrder() binary.ByteOrder {
	return binary.NativeEndian
}

func (h *exclusiveHost) close() error {
	h.device.Uninit()
	freeMiniaudioContext(h.ctx)
	return nil
}
