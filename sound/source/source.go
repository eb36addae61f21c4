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

// Package source produces console-format sample streams for the command line
// player. A stream can be a test tone or a decoded audio file. All streams
// are converted to stereo at the console sample rate.
package source

import (
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/gopxl/beep"
)

// SampleRate of all streams returned by this package.
const SampleRate = beep.SampleRate(backend.SampleRate)

// Source reads interleaved stereo frames of 16-bit samples from a beep
// streamer.
type Source struct {
	streamer beep.Streamer
	order    samples.Order
	buf      [][2]float64
	done     bool
}

// New is the preferred method of initialisation for the Source type. Samples
// are produced in the specified byte order.
func New(s beep.Streamer, order samples.Order) *Source {
	return &Source{
		streamer: s,
		order:    order,
	}
}

// Read fills dst with as many whole frames as are available. Returns the
// number of frames written and false once the stream has been exhausted.
func (src *Source) Read(dst []int16) (int, bool) {
	if src.done {
		return 0, false
	}

	frames := len(dst) / samples.StereoChannels
	if cap(src.buf) < frames {
		src.buf = make([][2]float64, frames)
	}
	buf := src.buf[:frames]

	n, ok := src.streamer.Stream(buf)
	if !ok {
		src.done = true
	}

	for i := range n {
		dst[i*2] = src.sample(buf[i][0])
		dst[i*2+1] = src.sample(buf[i][1])
	}

	return n, n > 0 || ok
}

// convert a beep sample in the range -1.0 to 1.0 to a 16-bit sample in the
// byte order of the source
func (src *Source) sample(v float64) int16 {
	v = max(-1.0, min(1.0, v))
	s := int16(v * 32767)
	if src.order == samples.BigEndian {
		return samples.Swap16(s)
	}
	return s
}

// Err returns the error of the underlying streamer, if any.
func (src *Source) Err() error {
	return src.streamer.Err()
}
