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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep"
	"github.com/hajimehoshi/go-mp3"
)

// the quality of the resampler used to convert files to the console sample
// rate
const resampleQuality = 4

// UnsupportedFile is the error pattern for files that cannot be decoded.
const UnsupportedFile = "source: unsupported file: %s"

type fileStream struct {
	beep.Streamer
	f *os.File
}

func (s fileStream) Close() error {
	return s.f.Close()
}

// Open an MP3 or WAV file as a stream at the console sample rate.
func Open(perm logger.Permission, pth string) (beep.StreamCloser, error) {
	f, err := os.Open(pth)
	if err != nil {
		return nil, curated.Errorf("source: %v", err)
	}

	var s beep.Streamer
	var rate beep.SampleRate

	switch strings.ToLower(filepath.Ext(pth)) {
	case ".mp3":
		s, rate, err = decodeMP3(f)
	case ".wav":
		s, rate, err = decodeWAV(f)
	default:
		err = curated.Errorf(UnsupportedFile, filepath.Base(pth))
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	logger.Logf(perm, "source", "%s: %dHz", filepath.Base(pth), rate)

	if rate != SampleRate {
		s = beep.Resample(resampleQuality, rate, SampleRate, s)
	}

	return fileStream{Streamer: s, f: f}, nil
}

// the decoded stream from go-mp3 is always 16-bit little endian stereo
type mp3Streamer struct {
	dec *mp3.Decoder
	buf []byte
	err error
}

func decodeMP3(r io.Reader) (beep.Streamer, beep.SampleRate, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, curated.Errorf("source: mp3: %v", err)
	}
	return &mp3Streamer{dec: dec}, beep.SampleRate(dec.SampleRate()), nil
}

func (s *mp3Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	const frameSize = 4

	n := len(samples) * frameSize
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	b := s.buf[:n]

	c, err := io.ReadFull(s.dec, b)
	frames := c / frameSize
	for i := range frames {
		samples[i][0] = float64(int16(binary.LittleEndian.Uint16(b[i*frameSize:]))) / 32768
		samples[i][1] = float64(int16(binary.LittleEndian.Uint16(b[i*frameSize+2:]))) / 32768
	}

	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			s.err = err
		}
		return frames, frames > 0
	}

	return frames, true
}

func (s *mp3Streamer) Err() error {
	return s.err
}

// the whole of a WAV file is decoded at once
type pcmStreamer struct {
	data     []int
	channels int
	scale    float64
	pos      int
}

func decodeWAV(r io.ReadSeeker) (beep.Streamer, beep.SampleRate, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, 0, curated.Errorf("source: wav: %v", "not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, curated.Errorf("source: wav: %v", err)
	}

	if dec.NumChans < 1 || dec.BitDepth < 16 {
		return nil, 0, curated.Errorf("source: wav: %v",
			fmt.Errorf("%d channels at %d bits", dec.NumChans, dec.BitDepth))
	}

	return &pcmStreamer{
		data:     buf.Data,
		channels: int(dec.NumChans),
		scale:    float64(int(1) << (dec.BitDepth - 1)),
	}, beep.SampleRate(dec.SampleRate), nil
}

func (s *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && s.pos+s.channels <= len(s.data) {
		l := float64(s.data[s.pos]) / s.scale
		r := l
		if s.channels > 1 {
			r = float64(s.data[s.pos+1]) / s.scale
		}
		samples[n][0] = l
		samples[n][1] = r
		s.pos += s.channels
		n++
	}
	return n, n > 0
}

func (s *pcmStreamer) Err() error {
	return nil
}
