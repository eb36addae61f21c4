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

// Package modalflag wraps the flag package of the standard library so that a
// program can have modes, each with its own set of flags.
//
// A mode is selected by a word on the command line that follows any flags of
// the parent mode. The audiocommon command, for example, has the modes PLAY,
// BACKENDS and DEVICES. PLAY is the default and so is selected when no mode
// word is given:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "BACKENDS", "DEVICES")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// The flags of the selected mode are then added and the remaining arguments
// parsed again:
//
//	switch md.Mode() {
//	case "PLAY":
//		md.NewMode()
//		volume := md.AddInt("volume", 100, "volume level (0 to 100)")
//		p, err := md.Parse()
//		...
//		play(*volume, md.RemainingArgs())
//	}
//
// Mode names are not case sensitive. Mode() always returns the name in upper
// case.
package modalflag
