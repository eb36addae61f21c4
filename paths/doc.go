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

// Package paths contains functions to prepare paths for resources used by the
// application, the preferences file and audio dumps for example.
//
// If a directory named ".audiocommon" exists in the current working directory
// then that is used as the base resource path. This makes for a portable
// installation. Otherwise the base path is the "audiocommon" directory in the
// user's configuration directory, as reported by os.UserConfigDir().
package paths
