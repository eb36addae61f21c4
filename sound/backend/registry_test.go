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

package backend_test

import (
	"runtime"
	"slices"
	"testing"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/test"
)

func TestMaxFramesInFlight(t *testing.T) {
	test.ExpectEquality(t, backend.MaxFramesInFlight(0, 0), 192)
	test.ExpectEquality(t, backend.MaxFramesInFlight(100, 0), 192)
	test.ExpectEquality(t, backend.MaxFramesInFlight(500, 0), 532)
	test.ExpectEquality(t, backend.MaxFramesInFlight(0, 10), 512)
	test.ExpectEquality(t, backend.MaxFramesInFlight(0, -5), 192)
}

func TestRegistry(t *testing.T) {
	names := backend.Backends()
	test.DemandEquality(t, len(names) > 1, true)
	test.ExpectEquality(t, names[0], backend.NameNull)
	test.ExpectEquality(t, slices.Contains(names, backend.Default()), true)
	test.ExpectEquality(t, slices.Contains(names, backend.NameExclusive), runtime.GOOS == "windows")

	_, err := backend.Create("bogus")
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, backend.UnsupportedBackend), true)

	// creating a driver does not touch the host device
	drv, err := backend.Create(backend.Default())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, drv.Name(), backend.Default())

	test.ExpectEquality(t, backend.SupportsLatencyControl(backend.NameNull), false)
	test.ExpectEquality(t, backend.SupportsLatencyControl(backend.Default()), true)
	test.ExpectEquality(t, backend.SupportsLatencyControl("bogus"), false)
	test.ExpectEquality(t, backend.SupportsVolumeChanges(backend.NameNull), false)
	test.ExpectEquality(t, backend.SupportsVolumeChanges(backend.NameOto), true)

	devices, err := backend.AvailableDevices(backend.NameNull)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(devices), 1)
	test.ExpectEquality(t, devices[0], backend.DefaultDevice)

	_, err = backend.AvailableDevices("bogus")
	test.ExpectEquality(t, curated.Is(err, backend.UnsupportedBackend), true)
}

func TestNull(t *testing.T) {
	drv, err := backend.Create(backend.NameNull)
	test.DemandSuccess(t, err)
	test.ExpectImplements(t, drv, (*backend.Driver)(nil))

	test.ExpectSuccess(t, drv.Init(backend.NewConfig()))
	test.ExpectSuccess(t, drv.SetRunning(true))
	test.ExpectSuccess(t, drv.SetRunning(true))
	drv.SetVolume(50)
	drv.PushSamples([]int16{1, 2, 3, 4})
	test.ExpectSuccess(t, drv.SetRunning(false))
	test.ExpectSuccess(t, drv.Close())
}

func TestConfig(t *testing.T) {
	cfg := backend.NewConfig()
	test.ExpectEquality(t, cfg.SampleRate, backend.SampleRate)
	test.ExpectEquality(t, cfg.IsDefaultDevice(), true)
	cfg.Device = backend.DefaultDevice
	test.ExpectEquality(t, cfg.IsDefaultDevice(), true)
	cfg.Device = "Speakers"
	test.ExpectEquality(t, cfg.IsDefaultDevice(), false)
}
