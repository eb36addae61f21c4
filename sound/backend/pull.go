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
	"fmt"
	"sync"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound/ring"
	"github.com/cubeaudio/audiocommon/sound/samples"
)

// pullHost is implemented by host libraries that call back on their own
// thread when they need more frames.
type pullHost interface {
	// open the device. the host's callback drains src. the returned value is
	// the minimum latency of the device in frames
	//
	// the callback must not be called before start()
	open(cfg Config, src *feeder) (int, error)

	start() error
	stop() error

	// returns false if the host has no native volume control, in which case
	// the volume is applied in software
	setVolume(vol float64) bool

	close() error
}

type pullDriver struct {
	name string
	host pullHost
	feed *feeder

	crit    sync.Mutex
	running bool
	closed  bool
}

func newPullDriver(name string, host pullHost) *pullDriver {
	return &pullDriver{
		name: name,
		host: host,
	}
}

func (drv *pullDriver) Name() string {
	return drv.name
}

func (drv *pullDriver) Init(cfg Config) error {
	if cfg.SampleRate != SampleRate {
		return curated.Errorf(DeviceFormatUnsupported, fmt.Errorf("sample rate of %dHz", cfg.SampleRate))
	}

	feed := newFeeder(cfg, MaxFramesInFlight(0, cfg.LatencyMS))

	deviceMin, err := drv.host.open(cfg, feed)
	if err != nil {
		return err
	}

	// the ring can be replaced safely because the host will not call back
	// until the driver is started
	maxFrames := MaxFramesInFlight(deviceMin, cfg.LatencyMS)
	if maxFrames != feed.ring.MaxFrames() {
		feed.ring = ring.NewRing(samples.StereoChannels, maxFrames)
	}
	drv.feed = feed

	logger.Logf(logger.Allow, drv.name, "%s at %dHz: %d frames in flight", cfg.Layout, cfg.SampleRate, maxFrames)

	return nil
}

func (drv *pullDriver) SetRunning(running bool) error {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.feed == nil || drv.closed {
		return curated.Errorf(DeviceStartFailure, "not initialised")
	}

	if running {
		if err := drv.host.start(); err != nil {
			return curated.Errorf(DeviceStartFailure, err)
		}
	} else {
		if err := drv.host.stop(); err != nil {
			return curated.Errorf(DeviceStartFailure, err)
		}
	}

	drv.running = running
	return nil
}

func (drv *pullDriver) SetVolume(level int) {
	if drv.feed == nil {
		return
	}

	level = min(max(level, 0), 100)
	if drv.host.setVolume(float64(level) / 100.0) {
		drv.feed.volume.Store(100)
	} else {
		drv.feed.volume.Store(int32(level))
	}
}

func (drv *pullDriver) PushSamples(s []int16) {
	if drv.feed == nil {
		return
	}
	drv.feed.ring.Push(s)
}

func (drv *pullDriver) Close() error {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.feed == nil || drv.closed {
		return nil
	}
	drv.closed = true

	if drv.running {
		if err := drv.host.stop(); err != nil {
			logger.Log(logger.Allow, drv.name, err)
		}
		drv.running = false
	}

	return drv.host.close()
}
