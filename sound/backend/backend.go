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

// Package backend implements the output devices of the audio pipeline.
//
// A Driver receives interleaved stereo frames from the producer and delivers
// them to the host. There are three kinds of driver:
//
// The Null driver discards everything and can always be created. It is the
// fallback when no other driver can be used.
//
// Pull drivers are driven by a host library that calls back on its own
// thread whenever it needs more frames. The callback drains the ring buffer
// directly.
//
// Push drivers own a goroutine that waits for the device to signal that a
// buffer is needed, fills the buffer from the ring and submits it. The
// goroutine has always exited before the device is released.
//
// Drivers are created by name with Create(). The names of the drivers that
// are usable on the current host are returned by Backends().
package backend

import (
	"time"

	"github.com/cubeaudio/audiocommon/sound/samples"
)

// Driver is the interface to a host audio output device.
//
// Init() must be called once before any other function. PushSamples() can be
// called from any goroutine at any time after Init() and before Close(),
// whether the driver is running or not.
type Driver interface {
	// Name returns the name the driver was created with
	Name() string

	// Init negotiates the device parameters. An error means the driver is not
	// usable and the caller should fall back to another driver
	Init(cfg Config) error

	// SetRunning starts or stops the delivery of frames to the device
	SetRunning(running bool) error

	// SetVolume sets the playback volume in the range 0 to 100
	SetVolume(level int)

	// PushSamples adds interleaved stereo frames to the output queue. A
	// trailing partial frame is ignored
	PushSamples(samples []int16)

	// Close stops the driver if necessary and releases the device
	Close() error
}

// Config is the stream configuration negotiated by Init(). It is fixed for
// the lifetime of the stream.
type Config struct {
	// always SampleRate for the console
	SampleRate int

	Layout samples.Layout

	// byte order of the samples given to PushSamples()
	Order samples.Order

	// additional latency requested by the user in milliseconds
	LatencyMS int

	// name of the host output device. empty or "default" for the system
	// default device
	Device string
}

// DefaultDevice is the device name that selects the system default device.
const DefaultDevice = "default"

// IsDefaultDevice returns true if the device name selects the system default.
func (cfg Config) IsDefaultDevice() bool {
	return cfg.Device == "" || cfg.Device == DefaultDevice
}

// NewConfig returns a stereo configuration at the console sample rate, with
// samples in console byte order.
func NewConfig() Config {
	return Config{
		SampleRate: SampleRate,
		Layout:     samples.Stereo16,
		Order:      samples.BigEndian,
	}
}

// Stream constants.
const (
	// the rate at which the console's audio DSP produces frames
	SampleRate = 32000

	// the number of frames in one buffer from the console's audio DSP. this
	// is the minimum number of frames that can be in flight
	MinBufferFrames = 160

	// the number of frames produced in one millisecond
	FramesPerMillisecond = SampleRate / 1000

	// how long the push goroutine waits for the device before trying again
	WaitTimeout = 1000 * time.Millisecond
)

// MaxFramesInFlight returns the bound of the ring buffer for a device that
// reports deviceMin frames of latency and a user setting of latencyMS
// milliseconds of additional latency.
func MaxFramesInFlight(deviceMin int, latencyMS int) int {
	if latencyMS < 0 {
		latencyMS = 0
	}
	return max(deviceMin, MinBufferFrames) + FramesPerMillisecond*(1+latencyMS)
}
