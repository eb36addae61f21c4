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
	"math"
	"testing"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/cubeaudio/audiocommon/test"
)

// sample at position i in a buffer of little endian 16-bit values
func s16(b []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(b[i*2:]))
}

// sample at position i in a buffer of little endian 32-bit floats
func f32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

// big endian stereo frames from host values
func console(v ...int16) []int16 {
	s := make([]int16, len(v))
	for i := range v {
		s[i] = samples.Swap16(v[i])
	}
	return s
}

func TestPullDriver(t *testing.T) {
	host := &fakePullHost{deviceMin: 400}
	drv := newPullDriver("fake pull", host)

	// not yet initialised
	test.ExpectFailure(t, drv.SetRunning(true))

	test.DemandSuccess(t, drv.Init(NewConfig()))
	test.ExpectEquality(t, drv.feed.ring.MaxFrames(), 400+FramesPerMillisecond)

	test.ExpectSuccess(t, drv.SetRunning(true))
	test.ExpectEquality(t, host.starts, 1)

	drv.PushSamples(console(100, -200))
	out := host.callback(3)
	test.DemandEquality(t, len(out), 12)
	test.ExpectEquality(t, s16(out, 0), 100)
	test.ExpectEquality(t, s16(out, 1), -200)

	// underflow repeats the last frame
	test.ExpectEquality(t, s16(out, 2), 100)
	test.ExpectEquality(t, s16(out, 3), -200)
	test.ExpectEquality(t, s16(out, 4), 100)
	test.ExpectEquality(t, s16(out, 5), -200)

	// the ring is drained by the underflow so the next callback is silent
	out = host.callback(1)
	test.ExpectEquality(t, s16(out, 0), 0)
	test.ExpectEquality(t, s16(out, 1), 0)

	test.ExpectSuccess(t, drv.SetRunning(false))
	test.ExpectEquality(t, host.stops, 1)

	test.ExpectSuccess(t, drv.Close())
	test.ExpectSuccess(t, drv.Close())
	test.ExpectEquality(t, host.closes, 1)
	test.ExpectFailure(t, drv.SetRunning(true))
}

func TestPullDriverVolume(t *testing.T) {
	// host with no native volume
	host := &fakePullHost{}
	drv := newPullDriver("fake pull", host)
	test.DemandSuccess(t, drv.Init(NewConfig()))

	drv.SetVolume(50)
	test.ExpectEquality(t, host.volume, 0.5)
	test.ExpectEquality(t, drv.feed.volume.Load(), 50)

	drv.PushSamples(console(1000, -1000))
	out := host.callback(1)
	test.ExpectEquality(t, s16(out, 0), 500)
	test.ExpectEquality(t, s16(out, 1), -500)

	// host with native volume. samples are not scaled
	host = &fakePullHost{native: true}
	drv = newPullDriver("fake pull", host)
	test.DemandSuccess(t, drv.Init(NewConfig()))

	drv.SetVolume(150)
	test.ExpectEquality(t, host.volume, 1.0)
	drv.SetVolume(25)
	test.ExpectEquality(t, host.volume, 0.25)
	test.ExpectEquality(t, drv.feed.volume.Load(), 100)

	drv.PushSamples(console(1000, -1000))
	out = host.callback(1)
	test.ExpectEquality(t, s16(out, 0), 1000)
	test.ExpectEquality(t, s16(out, 1), -1000)
}

func TestPullDriverSurround(t *testing.T) {
	host := &fakePullHost{}
	drv := newPullDriver("fake pull", host)

	cfg := NewConfig()
	cfg.Layout = samples.Surround51Float
	test.DemandSuccess(t, drv.Init(cfg))

	drv.PushSamples(console(16384, -16384))
	out := host.callback(1)
	test.DemandEquality(t, len(out), 24)
	test.ExpectEquality(t, f32(out, 0), 0.5)
	test.ExpectEquality(t, f32(out, 1), -0.5)
	test.ExpectEquality(t, f32(out, 2), 0.0)
	test.ExpectEquality(t, f32(out, 3), 0.0)
	test.ExpectEquality(t, f32(out, 4), 0.25)
	test.ExpectEquality(t, f32(out, 5), -0.25)
}

func TestPullDriverHostOrder(t *testing.T) {
	host := &fakePullHost{}
	drv := newPullDriver("fake pull", host)

	cfg := NewConfig()
	cfg.Order = samples.HostOrder
	test.DemandSuccess(t, drv.Init(cfg))

	drv.PushSamples([]int16{300, -300})
	out := host.callback(1)
	test.ExpectEquality(t, s16(out, 0), 300)
	test.ExpectEquality(t, s16(out, 1), -300)
}

func TestPullDriverInitFailure(t *testing.T) {
	host := &fakePullHost{openErr: curated.Errorf(DeviceInitFailure, errors.New("no device"))}
	drv := newPullDriver("fake pull", host)
	err := drv.Init(NewConfig())
	test.ExpectEquality(t, curated.Is(err, DeviceInitFailure), true)

	// samples pushed to a driver that failed are ignored
	drv.PushSamples([]int16{1, 2})

	host = &fakePullHost{}
	drv = newPullDriver("fake pull", host)
	cfg := NewConfig()
	cfg.SampleRate = 44100
	err = drv.Init(cfg)
	test.ExpectEquality(t, curated.Is(err, DeviceFormatUnsupported), true)
}

func TestFeederS16(t *testing.T) {
	f := newFeeder(NewConfig(), 16)
	f.ring.Push(console(1, 2, 3, 4))

	// odd length buffer. the trailing sample is zeroed
	out := []int16{9, 9, 9, 9, 9}
	f.fillS16(out)
	test.ExpectEquality(t, out[0], 1)
	test.ExpectEquality(t, out[1], 2)
	test.ExpectEquality(t, out[2], 3)
	test.ExpectEquality(t, out[3], 4)
	test.ExpectEquality(t, out[4], 0)
}

func TestFeederF32(t *testing.T) {
	cfg := NewConfig()
	cfg.Layout = samples.Surround51Float
	f := newFeeder(cfg, 16)
	f.ring.Push(console(-32768, 0))

	out := make([]float32, 6)
	f.fillF32(out)
	test.ExpectEquality(t, out[0], -1.0)
	test.ExpectEquality(t, out[1], 0.0)
	test.ExpectEquality(t, out[2], -0.5)
	test.ExpectEquality(t, out[4], -0.5)
}
