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

// Package ring implements the bounded sample queue that sits between the
// producer of audio samples (the emulated console) and the consumer (the host
// audio device).
//
// Neither side ever blocks. When the producer pushes more frames than the ring
// can hold the oldest frames are dropped. When the consumer pulls more frames
// than are available the result is padded by repeating the last frame, or
// with silence if the ring was empty. This trades accuracy for the avoidance
// of audible clicks in the real-time path.
//
// Samples are stored exactly as pushed. Conversion to the byte order of the
// device is the responsibility of the consumer.
package ring

import (
	"sync"
)

// Stats records how often the ring had to repair the sample stream.
type Stats struct {
	// number of frames dropped because the ring was full
	Dropped uint64

	// number of frames padded because the ring was empty
	Padded uint64
}

// Ring is a thread-safe circular buffer of interleaved frames.
type Ring struct {
	crit sync.Mutex

	channels  int
	maxFrames int

	// data is a fixed size slice of channels * maxFrames samples. count is the
	// number of samples currently stored, starting at index head
	data  []int16
	head  int
	count int

	stats Stats
}

// NewRing is the preferred method of initialisation for the Ring type. The
// number of channels and the maximum number of frames must both be at least
// one.
func NewRing(channels int, maxFrames int) *Ring {
	channels = max(1, channels)
	maxFrames = max(1, maxFrames)
	return &Ring{
		channels:  channels,
		maxFrames: maxFrames,
		data:      make([]int16, channels*maxFrames),
	}
}

// Channels returns the number of samples in each frame.
func (r *Ring) Channels() int {
	return r.channels
}

// MaxFrames returns the maximum number of frames the ring can hold.
func (r *Ring) MaxFrames() int {
	return r.maxFrames
}

// Frames returns the number of frames currently in the ring.
func (r *Ring) Frames() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.count / r.channels
}

// Stats returns a copy of the repair statistics.
func (r *Ring) Stats() Stats {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.stats
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.head = 0
	r.count = 0
}

// Push appends interleaved frames to the ring. Any trailing samples that do
// not make a complete frame are ignored. If there is not enough space the
// oldest frames are discarded.
func (r *Ring) Push(samples []int16) {
	n := len(samples) - len(samples)%r.channels
	if n == 0 {
		return
	}
	samples = samples[:n]

	r.crit.Lock()
	defer r.crit.Unlock()

	// only the newest frames of an oversized push can survive
	if n > len(r.data) {
		r.stats.Dropped += uint64((n - len(r.data)) / r.channels)
		samples = samples[n-len(r.data):]
		n = len(r.data)
	}

	// make room by dropping from the head
	if drop := r.count + n - len(r.data); drop > 0 {
		r.head = (r.head + drop) % len(r.data)
		r.count -= drop
		r.stats.Dropped += uint64(drop / r.channels)
	}

	tail := (r.head + r.count) % len(r.data)
	c := copy(r.data[tail:], samples)
	copy(r.data, samples[c:])
	r.count += n
}

// Pull removes count frames from the ring and returns them as a new slice of
// interleaved samples. The length of the returned slice is always exactly
// count frames.
func (r *Ring) Pull(count int) []int16 {
	out := make([]int16, max(0, count)*r.channels)
	r.PullInto(out)
	return out
}

// PullInto fills dst with frames from the ring. The number of frames requested
// is len(dst) divided by the number of channels. Any trailing samples that do
// not make a complete frame are set to zero.
//
// If fewer frames are available than requested the ring is drained and the
// remainder of dst is filled by repeating the last frame taken. If the ring
// was empty dst is filled with silence.
//
// Returns the number of frames that were taken from the ring.
func (r *Ring) PullInto(dst []int16) int {
	requested := len(dst) / r.channels
	n := requested * r.channels

	r.crit.Lock()

	take := min(n, r.count)
	c := copy(dst[:take], r.data[r.head:min(len(r.data), r.head+take)])
	copy(dst[c:take], r.data)
	r.head = (r.head + take) % len(r.data)
	r.count -= take

	if take < n {
		r.stats.Padded += uint64((n - take) / r.channels)
	}

	r.crit.Unlock()

	if take < n {
		if take == 0 {
			clear(dst[:n])
		} else {
			last := dst[take-r.channels : take]
			for i := take; i < n; i += r.channels {
				copy(dst[i:i+r.channels], last)
			}
		}
	}

	clear(dst[n:])

	return take / r.channels
}
