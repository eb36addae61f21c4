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

package source

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Tone returns an endless sine wave at the frequency. The level is in
// halvings of full scale, so a level of 1 is half volume.
func Tone(freq float64, level float64) (beep.Streamer, error) {
	s, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, err
	}

	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   -level,
	}, nil
}
