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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values, the same as the Errorf() function
// in the fmt package. The difference is that the pattern is remembered and
// acts as the identity of the error. Backend failures for example are
// declared as pattern constants and tested with Is() and Has():
//
//	err := curated.Errorf(backend.DeviceStartFailure, "SDL", cause)
//
//	if curated.Is(err, backend.DeviceStartFailure) {
//		fmt.Println("true")
//	}
//
// Has() is similar but checks if a pattern occurs somewhere in the chain of
// curated errors.
//
//	e := curated.Errorf("ring: %d frames", 10)
//	f := curated.Errorf("fatal: %v", e)
//
//	curated.Has(f, "ring: %d frames") // true
//	curated.Is(f, "ring: %d frames")  // false
//
// Error values given as placeholder values are unwrapped by the standard
// errors package so errors.Is() and errors.As() continue to work through a
// curated error.
//
// The Error() function normalises the message so that the first two parts of
// the chain are not duplicated. Parts are separated by the sub-string ': ' as
// suggested on p239 of "The Go Programming Language" (Donovan, Kernighan).
//
//	curated.Errorf("audio: %v", curated.Errorf("audio: no device"))
//
// prints as "audio: no device" and not "audio: audio: no device".
package curated
