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

package sound

// State of the Controller.
type State int

// List of valid State values. The Controller moves from Uninitialized to
// Running on Initialize(), between Running and Stopped with SetRunning() and
// back to Uninitialized on Shutdown().
const (
	Uninitialized State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown state"
}

// VolumeState is the volume level and the mute flag.
type VolumeState struct {
	Level int
	Muted bool
}

// Effective returns the volume level to be used for playback.
func (v VolumeState) Effective() int {
	if v.Muted {
		return 0
	}
	return v.Level
}
