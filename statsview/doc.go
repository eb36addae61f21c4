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

// Package statsview offers runtime statistics over HTTP while audio is
// playing. It is only built when the statsview build tag is present,
// otherwise Launch() does nothing and Available() returns false.
//
// The graphical statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// The statistics are most useful when looking for allocations in the audio
// callback path.
package statsview
