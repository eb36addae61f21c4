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

// Package dump writes the audio stream to WAV files. Samples are written to
// disk as they arrive so a dump can be of any length.
package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth = 16

	// PCM format tag in the WAV header
	pcmFormat = 1
)

type file struct {
	pth string
	f   *os.File
	enc *wav.Encoder
}

// Writer implements the sound.Dumper interface.
type Writer struct {
	perm logger.Permission

	crit  sync.Mutex
	files []file
	buf   audio.IntBuffer

	// number of frames written since Start()
	frames int

	// the first write error is logged and writing stops until the next
	// Start()
	failed bool
}

// NewWriter is the preferred method of initialisation for the Writer type.
func NewWriter(perm logger.Permission) *Writer {
	return &Writer{
		perm: perm,
		buf: audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: samples.StereoChannels,
				SampleRate:  backend.SampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}
}

// Start a new dump to each of the named files. Directories are created as
// required. Any existing dump is stopped first.
func (w *Writer) Start(paths ...string) error {
	w.crit.Lock()
	defer w.crit.Unlock()

	if err := w.stop(); err != nil {
		logger.Log(w.perm, "dump", err)
	}

	for _, pth := range paths {
		err := os.MkdirAll(filepath.Dir(pth), 0o700)
		if err != nil {
			w.abandon()
			return curated.Errorf("dump: %v", err)
		}

		f, err := os.Create(pth)
		if err != nil {
			w.abandon()
			return curated.Errorf("dump: %v", err)
		}

		w.files = append(w.files, file{
			pth: pth,
			f:   f,
			enc: wav.NewEncoder(f, backend.SampleRate, bitDepth, samples.StereoChannels, pcmFormat),
		})
	}

	w.frames = 0
	w.failed = false

	return nil
}

// close files opened by a failed Start()
func (w *Writer) abandon() {
	for _, f := range w.files {
		_ = f.f.Close()
	}
	w.files = w.files[:0]
}

// IsActive returns true if the writer has open files.
func (w *Writer) IsActive() bool {
	w.crit.Lock()
	defer w.crit.Unlock()
	return len(w.files) > 0
}

// Write interleaved stereo frames in host order to the open files. Does nothing
// if no dump is active.
func (w *Writer) Write(s []int16) {
	w.crit.Lock()
	defer w.crit.Unlock()

	if len(w.files) == 0 || w.failed {
		return
	}

	s = s[:len(s)-len(s)%samples.StereoChannels]

	w.buf.Data = w.buf.Data[:0]
	for _, v := range s {
		w.buf.Data = append(w.buf.Data, int(v))
	}

	for _, f := range w.files {
		if err := f.enc.Write(&w.buf); err != nil {
			logger.Log(w.perm, "dump", curated.Errorf("dump: %s: %v", f.pth, err))
			w.failed = true
			return
		}
	}

	w.frames += len(s) / samples.StereoChannels
}

// Stop the current dump and finalise the files.
func (w *Writer) Stop() error {
	w.crit.Lock()
	defer w.crit.Unlock()
	return w.stop()
}

func (w *Writer) stop() error {
	if len(w.files) == 0 {
		return nil
	}

	var rerr error
	for _, f := range w.files {
		err := f.enc.Close()
		if err == nil {
			err = f.f.Close()
		} else {
			_ = f.f.Close()
		}
		if err != nil && rerr == nil {
			rerr = curated.Errorf("dump: %s: %v", f.pth, err)
		}

		logger.Logf(w.perm, "dump", "%s: %s of audio", f.pth, duration(w.frames))
	}

	w.files = w.files[:0]

	return rerr
}

func duration(frames int) string {
	return fmt.Sprintf("%.2fs", float64(frames)/backend.SampleRate)
}
