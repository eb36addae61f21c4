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
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
)

// pushHost is implemented by host libraries that expect the application to
// submit buffers when the device signals that it needs one.
type pushHost interface {
	// open the device. the returned value is the number of frames in each
	// device buffer
	open(cfg Config) (int, error)

	start() error
	stop() error

	// need returns the channel on which the device signals that a buffer is
	// needed
	need() <-chan struct{}

	// buffer returns the device buffer to be filled. the buffer is handed to
	// the device with submit(). an error means the device was not ready
	buffer() ([]byte, error)
	submit() error

	// the byte order of samples in the device buffer
	byteOrder() binary.ByteOrder

	close() error
}

type pushDriver struct {
	name string
	host pushHost
	feed *feeder

	// crit serialises SetRunning() and Close()
	crit   sync.Mutex
	closed bool

	// running is cleared to ask the push goroutine to exit
	running atomic.Bool

	// stopped is set by the push goroutine as the last thing it does. the
	// device is never released until stopped has been observed
	stopped atomic.Bool

	quit chan struct{}
	done chan struct{}

	// how long to wait for the device to signal
	timeout time.Duration

	// per buffer failures. these are not reported to the user
	timeouts   atomic.Uint64
	transients atomic.Uint64
}

func newPushDriver(name string, host pushHost) *pushDriver {
	drv := &pushDriver{
		name:    name,
		host:    host,
		timeout: WaitTimeout,
	}
	drv.stopped.Store(true)
	return drv
}

func (drv *pushDriver) Name() string {
	return drv.name
}

func (drv *pushDriver) Init(cfg Config) error {
	if cfg.SampleRate != SampleRate {
		return curated.Errorf(DeviceFormatUnsupported, fmt.Errorf("sample rate of %dHz", cfg.SampleRate))
	}

	bufferFrames, err := drv.host.open(cfg)
	if err != nil {
		return err
	}

	maxFrames := MaxFramesInFlight(bufferFrames, cfg.LatencyMS)
	drv.feed = newFeeder(cfg, maxFrames)

	logger.Logf(logger.Allow, drv.name, "%s at %dHz: %d frame buffers, %d frames in flight",
		cfg.Layout, cfg.SampleRate, bufferFrames, maxFrames)

	return nil
}

func (drv *pushDriver) SetRunning(running bool) error {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.feed == nil || drv.closed {
		return curated.Errorf(DeviceStartFailure, "not initialised")
	}

	if running == drv.running.Load() {
		return nil
	}

	if !running {
		drv.halt()
		if err := drv.host.stop(); err != nil {
			return curated.Errorf(DeviceStartFailure, err)
		}
		return nil
	}

	// prime the device with one buffer of silence
	if buf, err := drv.host.buffer(); err == nil {
		clear(buf)
		if err := drv.host.submit(); err != nil {
			logger.Log(logger.Allow, drv.name, curated.Errorf(DeviceTransientTimeout, err))
		}
	}

	if err := drv.host.start(); err != nil {
		return curated.Errorf(DeviceStartFailure, err)
	}

	drv.quit = make(chan struct{})
	drv.done = make(chan struct{})
	drv.stopped.Store(false)
	drv.running.Store(true)
	go drv.loop(drv.quit, drv.done)

	return nil
}

// halt the push goroutine and wait for it to acknowledge. must be called with
// crit held
func (drv *pushDriver) halt() {
	drv.running.Store(false)
	close(drv.quit)
	<-drv.done

	for !drv.stopped.Load() {
		runtime.Gosched()
	}

	if n := drv.timeouts.Swap(0); n > 0 {
		logger.Log(logger.Allow, drv.name, curated.Errorf(DeviceTransientTimeout, fmt.Errorf("%d waits timed out", n)))
	}
	if n := drv.transients.Swap(0); n > 0 {
		logger.Logf(logger.Allow, drv.name, "%d buffers were not submitted", n)
	}
}

func (drv *pushDriver) loop(quit <-chan struct{}, done chan<- struct{}) {
	defer func() {
		drv.stopped.Store(true)
		close(done)
	}()

	bo := drv.host.byteOrder()

	wait := time.NewTimer(drv.timeout)
	defer wait.Stop()

	for drv.running.Load() {
		wait.Reset(drv.timeout)

		select {
		case <-quit:
			return
		case <-drv.host.need():
		case <-wait.C:
			// the device may have been lost. keep waiting until told to stop
			drv.timeouts.Add(1)
			continue
		}

		buf, err := drv.host.buffer()
		if err != nil {
			drv.transients.Add(1)
			continue
		}

		drv.feed.fill(buf, bo)

		if err := drv.host.submit(); err != nil {
			drv.transients.Add(1)
		}
	}
}

func (drv *pushDriver) SetVolume(level int) {
	if drv.feed == nil {
		return
	}
	drv.feed.volume.Store(int32(min(max(level, 0), 100)))
}

func (drv *pushDriver) PushSamples(s []int16) {
	if drv.feed == nil {
		return
	}
	drv.feed.ring.Push(s)
}

func (drv *pushDriver) Close() error {
	drv.crit.Lock()
	defer drv.crit.Unlock()

	if drv.feed == nil || drv.closed {
		return nil
	}
	drv.closed = true

	if drv.running.Load() {
		drv.halt()
		if err := drv.host.stop(); err != nil {
			logger.Log(logger.Allow, drv.name, err)
		}
	}

	return drv.host.close()
}
