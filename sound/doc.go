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

// Package sound is the audio output pipeline of the emulator.
//
// The emulated console delivers samples through a single Controller with
// PushSamples(). The Controller owns the active backend driver (see the
// backend package) and mediates the volume, mute and audio dump state, which
// are kept in the Preferences type and so outlive any one driver.
//
// A Controller is created with NewController() and must be initialised with
// Initialize() before samples have any effect. Initialisation never fails: if
// the requested backend cannot be used the Controller falls back to the
// default backend and then to the Null backend, logging each step.
//
//	ctl := sound.NewController(logger.Allow, prefs, nil, dumper)
//	ctl.Initialize(prefs.Backend.String())
//	defer ctl.Shutdown()
//
//	// from the emulation goroutine
//	ctl.PushSamples(samples, len(samples)/2)
package sound
