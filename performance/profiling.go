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

package performance

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/cubeaudio/audiocommon/curated"
)

// ProfileFailure is the pattern for all errors returned by the package.
const ProfileFailure = "performance: %v"

// ProfileCPU records a CPU profile to outFile for the duration of run().
func ProfileCPU(outFile string, run func() error) error {
	f, err := os.Create(outFile)
	if err != nil {
		return curated.Errorf(ProfileFailure, err)
	}
	defer f.Close()

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return curated.Errorf(ProfileFailure, err)
	}
	defer pprof.StopCPUProfile()

	return run()
}

// ProfileMem writes a heap profile to outFile.
func ProfileMem(outFile string) error {
	f, err := os.Create(outFile)
	if err != nil {
		return curated.Errorf(ProfileFailure, err)
	}

	runtime.GC()
	err = pprof.WriteHeapProfile(f)
	if err != nil {
		f.Close()
		return curated.Errorf(ProfileFailure, err)
	}

	if err := f.Close(); err != nil {
		return curated.Errorf(ProfileFailure, err)
	}

	return nil
}
