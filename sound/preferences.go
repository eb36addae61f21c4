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

package sound

import (
	"github.com/cubeaudio/audiocommon/paths"
	"github.com/cubeaudio/audiocommon/prefs"
	"github.com/cubeaudio/audiocommon/sound/backend"
)

// Preferences for the audio output. The volume state is kept here and so
// survives changes of backend.
type Preferences struct {
	dsk *prefs.Disk

	// name of the backend to initialise
	Backend prefs.String

	// name of the host output device. "default" for the system default
	Device prefs.String

	// volume level in the range 0 to 100
	Volume prefs.Int
	Muted  prefs.Bool

	// additional latency in milliseconds
	Latency prefs.Int

	// output a 5.1 stream rather than a stereo stream
	Surround prefs.Bool

	// dump the audio stream to a WAV file
	DumpAudio prefs.Bool

	// directory for dump files. an empty string means the dump directory
	// in the resource path
	DumpPath prefs.String
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// default values
const (
	defaultVolume  = 100
	defaultLatency = 20
	maxLatency     = 500
)

// NewPreferences is the preferred method of initialisation for the Preferences
// type. If pth is empty the preferences file in the resource path is used.
func NewPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Volume.SetLimits(0, 100)
	p.Latency.SetLimits(0, maxLatency)
	p.SetDefaults()

	var err error
	if pth == "" {
		pth, err = paths.ResourcePath("", prefs.DefaultPrefsFile)
		if err != nil {
			return nil, err
		}
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("audio.backend", &p.Backend)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.device", &p.Device)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.volume", &p.Volume)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.muted", &p.Muted)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.latency", &p.Latency)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.surround", &p.Surround)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.dumpAudio", &p.DumpAudio)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("audio.dumpPath", &p.DumpPath)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all audio preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.Backend.Set(backend.Default())
	p.Device.Set(backend.DefaultDevice)
	p.Volume.Set(defaultVolume)
	p.Muted.Set(false)
	p.Latency.Set(defaultLatency)
	p.Surround.Set(false)
	p.DumpAudio.Set(false)
	p.DumpPath.Set("")
}

// Load audio preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current audio preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
