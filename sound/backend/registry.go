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
	"runtime"

	"github.com/cubeaudio/audiocommon/curated"
)

// Names of the drivers. Not every driver is usable on every host, see
// Backends().
const (
	NameNull      = "No Audio Output"
	NameMiniaudio = "Miniaudio"
	NameOto       = "Oto"
	NameSDL       = "SDL"
	NameExclusive = "Exclusive"
	NamePortAudio = "PortAudio"
)

type entry struct {
	name   string
	create func() Driver

	// nil if the driver is always valid
	valid func() bool

	// nil if the driver cannot list devices
	devices func() ([]string, error)

	latencyControl bool
	volumeChanges  bool
}

func (e entry) isValid() bool {
	return e.valid == nil || e.valid()
}

// the order of the list is the order returned by Backends()
var registry = []entry{
	{
		name:   NameNull,
		create: newNull,
	},
	{
		name:           NameMiniaudio,
		create:         newMiniaudio,
		devices:        miniaudioDevices,
		latencyControl: true,
		volumeChanges:  true,
	},
	{
		name:           NameOto,
		create:         newOto,
		latencyControl: true,
		volumeChanges:  true,
	},
	{
		name:           NameSDL,
		create:         newSDL,
		devices:        sdlDevices,
		latencyControl: true,
		volumeChanges:  true,
	},
	{
		name:   NameExclusive,
		create: newExclusive,
		valid: func() bool {
			return runtime.GOOS == "windows"
		},
		devices:        miniaudioDevices,
		latencyControl: true,
		volumeChanges:  true,
	},
	{
		name:           NamePortAudio,
		create:         newPortAudio,
		valid:          portAudioAvailable,
		devices:        portAudioDevices,
		latencyControl: true,
		volumeChanges:  true,
	},
}

func lookup(name string) (entry, bool) {
	for _, e := range registry {
		if e.name == name && e.isValid() {
			return e, true
		}
	}
	return entry{}, false
}

// Create returns a new, uninitialised driver. Returns an UnsupportedBackend
// error if the name is not one of the names returned by Backends().
func Create(name string) (Driver, error) {
	e, ok := lookup(name)
	if !ok {
		return nil, curated.Errorf(UnsupportedBackend, name)
	}
	return e.create(), nil
}

// Backends returns the names of the drivers that can be used on this host.
// The Null driver is always first in the list.
func Backends() []string {
	var names []string
	for _, e := range registry {
		if e.isValid() {
			names = append(names, e.name)
		}
	}
	return names
}

// Default returns the name of the driver to use when no driver has been
// requested or when the requested driver fails.
func Default() string {
	return NameMiniaudio
}

// SupportsLatencyControl returns true if the named driver honours the
// LatencyMS field of the Config.
func SupportsLatencyControl(name string) bool {
	e, ok := lookup(name)
	return ok && e.latencyControl
}

// SupportsVolumeChanges returns true if SetVolume() has an effect for the
// named driver.
func SupportsVolumeChanges(name string) bool {
	e, ok := lookup(name)
	return ok && e.volumeChanges
}

// AvailableDevices returns the names of the host output devices that can be
// used by the named driver. The first entry is always DefaultDevice.
func AvailableDevices(name string) ([]string, error) {
	e, ok := lookup(name)
	if !ok {
		return nil, curated.Errorf(UnsupportedBackend, name)
	}

	devices := []string{DefaultDevice}
	if e.devices == nil {
		return devices, nil
	}

	d, err := e.devices()
	if err != nil {
		return devices, curated.Errorf(DeviceInitFailure, err)
	}

	return append(devices, d...), nil
}
