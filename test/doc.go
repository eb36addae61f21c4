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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions test for equality of
// comparable types. ExpectSuccess() and ExpectFailure() interpret the value as
// either a bool or an error. A nil error or a true bool are success values.
//
// The Demand*() variants stop the test on failure with t.Fatalf(). They are
// useful when the result is needed for subsequent tests. For example, checking
// the length of a slice before indexing into it.
//
// All functions accept optional tags. Tags are prepended to any failure
// message and are useful when the function is called from inside a loop.
package test
