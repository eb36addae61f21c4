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

// Error patterns for driver failures. Use curated.Is() or curated.Has() to
// test for a pattern.
const (
	UnsupportedBackend      = "unsupported backend: %s"
	DeviceInitFailure       = "device init failure: %v"
	DeviceFormatUnsupported = "device format unsupported: %v"
	DeviceBusy              = "device busy: %v"
	DeviceStartFailure      = "device start failure: %v"
	DeviceTransientTimeout  = "device timeout: %v"
)
