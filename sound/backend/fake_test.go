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
	"errors"
	"sync"
	"sync/atomic"
)

// fakePullHost stands in for a host library with a callback thread. the test
// calls callback() in place of the host
type fakePullHost struct {
	deviceMin int
	openErr   error
	native    bool

	src    *feeder
	cfg    Config
	volume float64

	starts int
	stops  int
	closes int
}

func (h *fakePullHost) open(cfg Config, src *feeder) (int, error) {
	if h.openErr != nil {
		return 0, h.openErr
	}
	h.cfg = cfg
	h.src = src
	return h.deviceMin, nil
}

func (h *fakePullHost) start() error {
	h.starts++
	return nil
}

func (h *fakePullHost) stop() error {
	h.stops++
	return nil
}

func (h *fakePullHost) setVolume(vol float64) bool {
	h.volume = vol
	return h.native
}

func (h *fakePullHost) close() error {
	h.closes++
	return nil
}

// callback requests the number of frames from the feeder, as little endian
// bytes
func (h *fakePullHost) callback(frames int) []byte {
	out := make([]byte, frames*h.cfg.Layout.BytesPerFrame())
	h.src.fill(out, binary.LittleEndian)
	return out
}

// fakePushHost stands in for a host that signals when it needs a buffer
type fakePushHost struct {
	frames int

	// the driver using the host
	drv *pushDriver

	needed chan struct{}
	buf    []byte

	crit      sync.Mutex
	submitted [][]byte

	// counts the times the device was stopped or closed while the push
	// goroutine was still running
	violations atomic.Int64

	starts atomic.Int64
	stops  atomic.Int64
	closes atomic.Int64

	failBuffer atomic.Bool
}

// newFakePushDriver returns a push driver using a new fake host
func newFakePushDriver(frames int) (*pushDriver, *fakePushHost) {
	h := &fakePushHost{
		frames: frames,
		needed: make(chan struct{}, 1),
	}
	h.drv = newPushDriver("fake push", h)
	return h.drv, h
}

func (h *fakePushHost) open(cfg Config) (int, error) {
	h.buf = make([]byte, h.frames*cfg.Layout.BytesPerFrame())
	return h.frames, nil
}

func (h *fakePushHost) start() error {
	h.starts.Add(1)
	return nil
}

func (h *fakePushHost) stop() error {
	if !h.drv.stopped.Load() {
		h.violations.Add(1)
	}
	h.stops.Add(1)
	return nil
}

func (h *fakePushHost) need() <-chan struct{} {
	return h.needed
}

func (h *fakePushHost) signal() {
	h.needed <- struct{}{}
}

func (h *fakePushHost) buffer() ([]byte, error) {
	if h.failBuffer.Load() {
		return nil, errors.New("buffer not available")
	}
	return h.buf, nil
}

func (h *fakePushHost) submit() error {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.submitted = append(h.submitted, append([]byte{}, h.buf...))
	return nil
}

func (h *fakePushHost) submissions() [][]byte {
	h.crit.Lock()
	defer h.crit.Unlock()
	return append([][]byte{}, h.submitted...)
}

func (h *fakePushHost) byteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

func (h *fakePushHost) close() error {
	if !h.drv.stopped.Load() {
		h.violations.Add(1)
	}
	h.closes.Add(1)
	return nil
}
