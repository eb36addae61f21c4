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
	"github.com/ebitengine/oto/v3"
)

// the size of oto's own buffer
const otoBufferDuration = 10 * time.Millisecond

// oto allows only one context per process. the context is created on first
// use and kept for the lifetime of the process
var otoContext struct {
	crit       sync.Mutex
	ctx        *oto.Context
	sampleRate int
}

func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoContext.crit.Lock()
	defer otoContext.crit.Unlock()

	if otoContext.ctx != nil {
		if otoContext.sampleRate != sampleRate {
			return nil, curated.Errorf(DeviceFormatUnsupported,
				fmt.Errorf("context already running at %dHz", otoContext.sampleRate))
		}
		return otoContext.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: samples.StereoChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   otoBufferDuration,
	})
	if err != nil {
		return nil, curated.Errorf(DeviceInitFailure, err)
	}
	<-ready

	otoContext.ctx = ctx
	otoContext.sampleRate = sampleRate

	return ctx, nil
}

func newOto() Driver {
	return newPullDriver(NameOto, &otoHost{})
}

// otoHost is a pull host. oto reads from the player's io.Reader on its own
// goroutine.
type otoHost struct {
	player *oto.Player
}

// otoReader is the io.Reader given to the oto player
type otoReader struct {
	src *feeder
}

// Read implements the io.Reader interface. Only whole frames are written to p.
func (r otoReader) Read(p []byte) (int, error) {
	n := len(p) - len(p)%samples.Stereo16.BytesPerFrame()
	r.src.fill(p[:n], binary.LittleEndian)
	return n, nil
}

func (h *otoHost) open(cfg Config, src *feeder) (int, error) {
	if cfg.Layout.Channels() > samples.StereoChannels {
		return 0, curated.Errorf(DeviceFormatUnsupported, fmt.Errorf("%s", cfg.Layout))
	}

	if !cfg.IsDefaultDevice() {
		logger.Logf(logger.Allow, NameOto, "device selection not supported, using default device")
	}

	ctx, err := sharedOtoContext(cfg.SampleRate)
	if err != nil {
		return 0, err
	}

	h.player = ctx.NewPlayer(otoReader{src: src})
	h.player.SetBufferSize(MinBufferFrames * samples.Stereo16.BytesPerFrame())

	return int(otoBufferDuration * SampleRate / time.Second), nil
}

func (h *otoHost) start() error {
	h.player.Play()
	return nil
}

func (h *otoHost) stop() error {
	h.player.Pause()
	return nil
}

func (h *otoHost) setVolume(vol float64) bool {
	h.player.SetVolume(vol)
	return true
}

func (h *otoHost) close() error {
	return h.player.Close()
}
