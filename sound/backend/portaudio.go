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

//go:build portaudio

package backend

import (
	"fmt"
	"time"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/gordonklaus/portaudio"
)

func portAudioAvailable() bool {
	return true
}

func newPortAudio() Driver {
	return newPullDriver(NamePortAudio, &portAudioHost{})
}

// portAudioDevices lists the names of the devices with output channels
func portAudioDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}

// portAudioHost is a pull host. portaudio calls the stream callback on its
// own thread with a buffer of native values.
type portAudioHost struct {
	stream *portaudio.Stream
}

func (h *portAudioHost) device(cfg Config) (*portaudio.DeviceInfo, error) {
	if !cfg.IsDefaultDevice() {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, err
		}
		for _, d := range devices {
			if d.Name == cfg.Device && d.MaxOutputChannels > 0 {
				return d, nil
			}
		}
		logger.Logf(logger.Allow, NamePortAudio, "device %q not found, using default device", cfg.Device)
	}
	return portaudio.DefaultOutputDevice()
}

func (h *portAudioHost) open(cfg Config, src *feeder) (int, error) {
	if err := portaudio.Initialize(); err != nil {
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	dev, err := h.device(cfg)
	if err != nil {
		portaudio.Terminate()
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	channels := cfg.Layout.Channels()
	if dev.MaxOutputChannels < channels {
		portaudio.Terminate()
		return 0, curated.Errorf(DeviceFormatUnsupported,
			fmt.Errorf("%s has %d output channels", dev.Name, dev.MaxOutputChannels))
	}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = channels
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = MinBufferFrames

	var stream *portaudio.Stream
	if cfg.Layout == samples.Surround51Float {
		stream, err = portaudio.OpenStream(params, src.fillF32)
	} else {
		stream, err = portaudio.OpenStream(params, src.fillS16)
	}
	if err != nil {
		portaudio.Terminate()
		return 0, curated.Errorf(DeviceFormatUnsupported, err)
	}

	h.stream = stream

	return int(dev.DefaultLowOutputLatency * time.Duration(cfg.SampleRate) / time.Second), nil
}

func (h *portAudioHost) start() error {
	return h.stream.Start()
}

func (h *portAudioHost) stop() error {
	return h.stream.Stop()
}

// portaudio has no stream volume
func (h *portAudioHost) setVolume(_ float64) bool {
	return false
}

func (h *portAudioHost) close() error {
	err := h.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
