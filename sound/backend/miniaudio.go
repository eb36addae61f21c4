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

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/gen2brain/malgo"
)

// the number of periods in the miniaudio device buffer
const miniaudioPeriods = 2

func newMiniaudio() Driver {
	return newPullDriver(NameMiniaudio, &miniaudioHost{})
}

// miniaudioHost is a pull host. miniaudio calls the data callback on its own
// thread and the callback drains the feeder.
type miniaudioHost struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func newMiniaudioContext() (*malgo.AllocatedContext, error) {
	return malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
}

func freeMiniaudioContext(ctx *malgo.AllocatedContext) {
	_ = ctx.Uninit()
	ctx.Free()
}

// miniaudioDevices lists the names of the playback devices
func miniaudioDevices() ([]string, error) {
	ctx, err := newMiniaudioContext()
	if err != nil {
		return nil, err
	}
	defer freeMiniaudioContext(ctx)

	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// selectMiniaudioDevice sets the playback device in the device configuration.
// if the device cannot be found the system default is used
func selectMiniaudioDevice(ctx *malgo.AllocatedContext, deviceConfig *malgo.DeviceConfig, cfg Config, tag string) {
	if cfg.IsDefaultDevice() {
		return
	}

	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		logger.Logf(logger.Allow, tag, "cannot list devices: %v", err)
		return
	}

	for _, info := range infos {
		if info.Name() == cfg.Device {
			id := info.ID
			deviceConfig.Playback.DeviceID = id.Pointer()
			return
		}
	}

	logger.Logf(logger.Allow, tag, "device %q not found, using default device", cfg.Device)
}

func miniaudioFormat(layout samples.Layout) malgo.FormatType {
	if layout == samples.Surround51Float {
		return malgo.FormatF32
	}
	return malgo.FormatS16
}

func (h *miniaudioHost) open(cfg Config, src *feeder) (int, error) {
	ctx, err := newMiniaudioContext()
	if err != nil {
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = miniaudioFormat(cfg.Layout)
	deviceConfig.Playback.Channels = uint32(cfg.Layout.Channels())
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PerformanceProfile = malgo.LowLatency
	deviceConfig.PeriodSizeInFrames = MinBufferFrames
	deviceConfig.Periods = miniaudioPeriods
	deviceConfig.Alsa.NoMMap = 1
	selectMiniaudioDevice(ctx, &deviceConfig, cfg, NameMiniaudio)

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, _ uint32) {
			src.fill(output, binary.NativeEndian)
		},
	})
	if err != nil {
		freeMiniaudioContext(ctx)
		return 0, curated.Errorf(DeviceInitFailure, err)
	}

	h.ctx = ctx
	h.device = device

	return MinBufferFrames * miniaudioPeriods, nil
}

func (h *miniaudioHost) start() error {
	return h.device.Start()
}

func (h *miniaudioHost) stop() error {
	return h.device.Stop()
}

// malgo does not expose a master volume for the device
func (h *miniaudioHost) setVolume(_ float64) bool {
	return false
}

func (h *miniaudioHost) close() error {
	h.device.Uninit()
	freeMiniaudioContext(h.ctx)
	return nil
}
