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

package modalflag_test

import (
	"strings"
	"testing"

	"github.com/cubeaudio/audiocommon/modalflag"
	"github.com/cubeaudio/audiocommon/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
	test.ExpectEquality(t, md.Parsed(), true)
}

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-test", "1", "2"})
	testFlag := md.AddBool("test", false, "test flag")
	test.ExpectEquality(t, *testFlag, false)

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *testFlag, true)
	test.DemandEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(0), "1")
	test.ExpectEquality(t, md.GetArg(1), "2")
	test.ExpectEquality(t, md.GetArg(2), "")
}

func TestDefaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"music.mp3"})
	md.AddSubModes("play", "backends", "devices")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "PLAY")

	// the argument was not a mode and so remains
	test.DemandEquality(t, len(md.RemainingArgs()), 1)
	test.ExpectEquality(t, md.GetArg(0), "music.mp3")
}

func TestModesAndFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-v", "devices", "-backend", "SDL", "extra"})
	md.AddSubModes("PLAY", "BACKENDS", "DEVICES")
	verbose := md.AddBool("v", false, "verbose")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *verbose, true)
	test.ExpectEquality(t, md.Mode(), "DEVICES")

	md.NewMode()
	backend := md.AddString("backend", "Miniaudio", "backend")
	volume := md.AddInt("volume", 100, "volume")

	p, err = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *backend, "SDL")
	test.ExpectEquality(t, *volume, 100)
	test.ExpectEquality(t, md.GetArg(0), "extra")
	test.ExpectEquality(t, md.Path(), "DEVICES")

	var visited []string
	md.Visit(func(flag string) {
		visited = append(visited, flag)
	})
	test.DemandEquality(t, len(visited), 1)
	test.ExpectEquality(t, visited[0], "backend")
}

func TestNestedModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"test", "b"})
	md.AddSubModes("run", "test")
	_, err := md.Parse()
	test.DemandSuccess(t, err)

	md.NewMode()
	md.AddSubModes("a", "b", "c")
	_, err = md.Parse()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, md.Mode(), "B")
	test.ExpectEquality(t, md.Path(), "TEST/B")
	test.ExpectEquality(t, len(md.RemainingArgs()), 0)
}

func TestHelp(t *testing.T) {
	out := &strings.Builder{}
	md := modalflag.Modes{Output: out}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("PLAY", "BACKENDS")
	md.AddFloat64("tone", 0, "frequency of test tone")
	md.AdditionalHelp("keys: + - m p d q")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, err)

	s := out.String()
	test.ExpectEquality(t, strings.HasPrefix(s, "Usage:\n"), true)
	test.ExpectEquality(t, strings.Contains(s, "frequency of test tone"), true)
	test.ExpectEquality(t, strings.Contains(s, "available sub-modes: PLAY, BACKENDS"), true)
	test.ExpectEquality(t, strings.Contains(s, "default: PLAY"), true)
	test.ExpectEquality(t, strings.HasSuffix(s, "keys: + - m p d q\n"), true)
}

func TestBadFlag(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-nosuchflag"})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}
