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

//go:build !portaudio

package backend

// the PortAudio driver is only available when built with the portaudio tag

func portAudioAvailable() bool {
	return false
}

func newPortAudio() Driver {
	return newNull()
}

func portAudioDevices() ([]string, error) {
	return nil, nil
}
