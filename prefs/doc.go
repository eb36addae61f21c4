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

// Package prefs facilitates the storage of preferential values in the
// application. It wraps Go types in atomic values so that a preference can be
// read from one goroutine while being changed in another.
//
// Supported types are Bool, Int and String. Values are registered with an
// instance of Disk and written to the preferences file with Save(), one
// "key :: value" pair per line.
//
//	var vol prefs.Int
//	dsk, _ := prefs.NewDisk(pth)
//	_ = dsk.Add("audio.volume", &vol)
//	_ = dsk.Load()
//
// Values on the command line override values on disk. The command line prefs
// string is a series of "key::value" pairs separated by semi-colons and is
// added to the stack with PushCommandLineStack(). Load() consumes the most
// recent entry on the stack.
package prefs
