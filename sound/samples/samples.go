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

// Package samples defines the sample formats of the audio pipeline and the
// conversions between them.
//
// The emulated console produces interleaved stereo frames of signed 16-bit
// samples. The samples are stored in the byte order of the console and are
// only converted to the order expected by the host when they are consumed.
// Output devices may want the stereo samples as they are (Stereo16) or
// upmixed to six channels of 32-bit float (Surround51Float).
package samples

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// Order is the byte order of samples as delivered by the producer.
type Order int

// List of valid Order values.
const (
	// the order of samples produced by the console's audio DSP
	BigEndian Order = iota

	// the producer has already converted samples to host values
	HostOrder
)

func (o Order) String() string {
	switch o {
	case BigEndian:
		return "big endian"
	case HostOrder:
		return "host order"
	}
	return "unknown order"
}

// Swap16 reverses the bytes of a 16-bit sample.
func Swap16(v int16) int16 {
	return int16(bits.ReverseBytes16(uint16(v)))
}

// Value returns the value of a sample stored in order o.
func (o Order) Value(v int16) int16 {
	if o == BigEndian {
		return Swap16(v)
	}
	return v
}

// Layout is the channel layout of an output stream.
type Layout int

// List of valid Layout values.
const (
	Stereo16 Layout = iota
	Surround51Float
)

func (l Layout) String() string {
	switch l {
	case Stereo16:
		return "stereo (s16)"
	case Surround51Float:
		return "5.1 surround (f32)"
	}
	return "unknown layout"
}

// Channels returns the number of channels in a frame of the layout.
func (l Layout) Channels() int {
	if l == Surround51Float {
		return 6
	}
	return 2
}

// BytesPerSample returns the size of a single sample in the layout's format.
func (l Layout) BytesPerSample() int {
	if l == Surround51Float {
		return 4
	}
	return 2
}

// BytesPerFrame returns the size of a single frame in the layout's format.
func (l Layout) BytesPerFrame() int {
	return l.Channels() * l.BytesPerSample()
}

// StereoChannels is the number of channels in a frame from the producer.
const StereoChannels = 2

// Scale applies a volume level in the range 0 to 100 to a sample.
func Scale(v int16, volume int) int16 {
	if volume >= 100 {
		return v
	}
	if volume <= 0 {
		return 0
	}
	return int16(int32(v) * int32(volume) / 100)
}

// Upmix51 converts a stereo frame to a 5.1 frame of floats in the range -1.0
// to 1.0. Channel order is front-left, front-right, centre, LFE, back-left,
// back-right. The centre channel is the average of left and right and the
// LFE channel is silent.
func Upmix51(dst []float32, left, right int16) {
	l := float32(left) / 32768.0
	r := float32(right) / 32768.0
	dst[0] = l
	dst[1] = r
	dst[2] = (l + r) * 0.5
	dst[3] = 0
	dst[4] = l * 0.5
	dst[5] = r * 0.5
}

// PutS16 writes 16-bit samples to a byte slice using the specified byte
// order. The byte slice must be at least twice the length of src.
func PutS16(dst []byte, src []int16, bo binary.ByteOrder) {
	for i, v := range src {
		bo.PutUint16(dst[i*2:], uint16(v))
	}
}

// PutF32 writes 32-bit float samples to a byte slice using the specified
// byte order. The byte slice must be at least four times the length of src.
func PutF32(dst []byte, src []float32, bo binary.ByteOrder) {
	for i, v := range src {
		bo.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
