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

// null is the driver that discards all samples. it can always be created and
// its functions never fail.
type null struct{}

func newNull() Driver {
	return &null{}
}

func (drv *null) Name() string {
	return NameNull
}

func (drv *null) Init(_ Config) error {
	return nil
}

func (drv *null) SetRunning(_ bool) error {
	return nil
}

func (drv *null) SetVolume(_ int) {
}

func (drv *null) PushSamples(_ []int16) {
}

func (drv *null) Close() error {
	return nil
}
