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
	"sync/atomic"

	"github.com/cubeaudio/audiocommon/sound/ring"
	"github.com/cubeaudio/audiocommon/sound/samples"
)

// feeder drains the ring buffer on behalf of the consumer and converts the
// frames to the format of the device.
//
// the fill functions must only be called from one goroutine at a time. for
// pull drivers this is the host's callback and for push drivers it is the
// push goroutine.
type feeder struct {
	ring   *ring.Ring
	layout samples.Layout
	order  samples.Order

	// software volume. 100 means the samples are not scaled
	volume atomic.Int32

	scratch []int16
	upmix   []float32
}

func newFeeder(cfg Config, maxFrames int) *feeder {
	f := &feeder{
		ring:   ring.NewRing(samples.StereoChannels, maxFrames),
		layout: cfg.Layout,
		order:  cfg.Order,
	}
	f.volume.Store(100)
	return f
}

// take the next count frames from the ring, converted to host values and
// scaled by the software volume
func (f *feeder) take(count int) []int16 {
	n := count * samples.StereoChannels
	if cap(f.scratch) < n {
		f.scratch = make([]int16, n)
	}
	s := f.scratch[:n]

	f.ring.PullInto(s)

	vol := int(f.volume.Load())
	for i := range s {
		s[i] = samples.Scale(f.order.Value(s[i]), vol)
	}

	return s
}

// fill a device buffer of bytes with as many frames as will fit. the samples
// are written using the byte order of the device. any bytes in a trailing
// partial frame are zeroed
func (f *feeder) fill(out []byte, bo binary.ByteOrder) {
	frames := len(out) / f.layout.BytesPerFrame()
	s := f.take(frames)

	switch f.layout {
	case samples.Surround51Float:
		u := f.surround(s)
		samples.PutF32(out, u, bo)
	default:
		samples.PutS16(out, s, bo)
	}

	clear(out[frames*f.layout.BytesPerFrame():])
}

// fillS16 is the same as fill() except that the device buffer is of native
// 16-bit values. used with stereo streams only
func (f *feeder) fillS16(out []int16) {
	frames := len(out) / samples.StereoChannels
	copy(out, f.take(frames))
	clear(out[frames*samples.StereoChannels:])
}

// fillF32 is the same as fill() except that the device buffer is of native
// 32-bit floats. used with surround streams only
func (f *feeder) fillF32(out []float32) {
	channels := f.layout.Channels()
	frames := len(out) / channels
	copy(out, f.surround(f.take(frames)))
	clear(out[frames*channels:])
}

func (f *feeder) surround(s []int16) []float32 {
	channels := samples.Surround51Float.Channels()
	frames := len(s) / samples.StereoChannels

	n := frames * channels
	if cap(f.upmix) < n {
		f.upmix = make([]float32, n)
	}
	u := f.upmix[:n]

	for i := range frames {
		samples.Upmix51(u[i*channels:], s[i*2], s[i*2+1])
	}

	return u
}
