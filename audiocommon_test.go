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

package main

import (
	"strings"
	"testing"

	"github.com/cubeaudio/audiocommon/test"
)

func TestBackendsMode(t *testing.T) {
	out := &strings.Builder{}
	test.ExpectEquality(t, launch([]string{"backends"}, out), exitOK)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	test.DemandEquality(t, len(lines) > 1, true)
	test.ExpectEquality(t, lines[0], "No Audio Output")
	test.ExpectEquality(t, strings.Contains(out.String(), "Miniaudio (default, latency, volume)"), true)
}

func TestDevicesMode(t *testing.T) {
	out := &strings.Builder{}
	test.ExpectEquality(t, launch([]string{"DEVICES", "No Audio Output"}, out), exitOK)
	test.ExpectEquality(t, out.String(), "default\n")

	out.Reset()
	test.ExpectEquality(t, launch([]string{"devices", "bogus"}, out), exitModeFail)
	test.ExpectEquality(t, strings.Contains(out.String(), "unsupported backend: bogus"), true)

	out.Reset()
	test.ExpectEquality(t, launch([]string{"devices", "a", "b"}, out), exitModeFail)
}

func TestArguments(t *testing.T) {
	out := &strings.Builder{}
	test.ExpectEquality(t, launch([]string{"-nosuchflag"}, out), exitBadArgs)

	out.Reset()
	test.ExpectEquality(t, launch([]string{"play", "-help"}, out), exitOK)
	test.ExpectEquality(t, strings.Contains(out.String(), "Usage of PLAY mode:"), true)
	test.ExpectEquality(t, strings.Contains(out.String(), "toggle audio dump"), true)

	out.Reset()
	test.ExpectEquality(t, launch([]string{"play", "a.mp3", "b.mp3"}, out), exitModeFail)
	test.ExpectEquality(t, strings.Contains(out.String(), "too many arguments"), true)
}

func TestVersionMode(t *testing.T) {
	out := &strings.Builder{}
	test.ExpectEquality(t, launch([]string{"version"}, out), exitOK)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "audiocommon "), true)
}
