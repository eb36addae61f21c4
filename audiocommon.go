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
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/modalflag"
	"github.com/cubeaudio/audiocommon/performance"
	"github.com/cubeaudio/audiocommon/prefs"
	"github.com/cubeaudio/audiocommon/sound"
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/sound/dump"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/cubeaudio/audiocommon/sound/source"
	"github.com/cubeaudio/audiocommon/statsview"
	"github.com/cubeaudio/audiocommon/version"
	"github.com/gopxl/beep"
	"github.com/pkg/term"
)

// exit values
const (
	exitOK       = 0
	exitBadArgs  = 10
	exitModeFail = 20
)

// number of frames pushed by the producer on every tick. this is the amount
// of audio the console produces in five milliseconds
const (
	framesPerPush = 160
	pushInterval  = 5 * time.Millisecond
)

const keyHelp = `keys while playing:
  +/-  volume up/down
  m    toggle mute
  p    pause/resume output
  d    toggle audio dump
  q    quit`

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("PLAY", "BACKENDS", "DEVICES", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitBadArgs
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md, output)
	case "BACKENDS":
		err = listBackends(md, output)
	case "DEVICES":
		err = listDevices(md, output)
	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeFail
	}

	return exitOK
}

func listBackends(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	for _, n := range backend.Backends() {
		var notes []string
		if n == backend.Default() {
			notes = append(notes, "default")
		}
		if backend.SupportsLatencyControl(n) {
			notes = append(notes, "latency")
		}
		if backend.SupportsVolumeChanges(n) {
			notes = append(notes, "volume")
		}
		if len(notes) > 0 {
			fmt.Fprintf(output, "%s (%s)\n", n, strings.Join(notes, ", "))
		} else {
			fmt.Fprintln(output, n)
		}
	}

	return nil
}

func listDevices(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	name := backend.Default()
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		name = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	devices, err := backend.AvailableDevices(name)
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Fprintln(output, d)
	}

	return nil
}

// flags in play mode that map directly onto audio preferences
var prefFlags = map[string]string{
	"backend":  "audio.backend",
	"device":   "audio.device",
	"volume":   "audio.volume",
	"latency":  "audio.latency",
	"surround": "audio.surround",
	"dump":     "audio.dumpAudio",
}

func play(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	flagValues := map[string]func() string{}
	addString := func(name, value, usage string) {
		v := md.AddString(name, value, usage)
		flagValues[name] = func() string { return *v }
	}
	addInt := func(name string, value int, usage string) {
		v := md.AddInt(name, value, usage)
		flagValues[name] = func() string { return fmt.Sprintf("%d", *v) }
	}
	addBool := func(name string, value bool, usage string) {
		v := md.AddBool(name, value, usage)
		flagValues[name] = func() string { return fmt.Sprintf("%v", *v) }
	}

	addString("backend", backend.Default(), "audio backend")
	addString("device", backend.DefaultDevice, "output device")
	addInt("volume", 100, "volume level (0 to 100)")
	addInt("latency", 20, "additional latency in milliseconds")
	addBool("surround", false, "output 5.1 surround sound")
	addBool("dump", false, "dump audio to a WAV file")

	cmdlinePrefs := md.AddString("prefs", "", "preference overrides (key::value; key::value)")
	prefsPath := md.AddString("prefsfile", "", "preferences file")
	tone := md.AddFloat64("tone", 440.0, "frequency of test tone when no file is given")
	log := md.AddBool("log", false, "echo log to stderr")
	memvizFile := md.AddString("memviz", "", "write a graph of the audio controller to file")
	profile := md.AddBool("profile", false, "write cpu and memory profiles of the session")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	md.AdditionalHelp(keyHelp)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}

	// flags given explicitly on the command line override the preferences
	// file for this session only
	var overrides []string
	md.Visit(func(flag string) {
		if key, ok := prefFlags[flag]; ok {
			overrides = append(overrides, fmt.Sprintf("%s::%s", key, flagValues[flag]()))
		}
	})
	if *cmdlinePrefs != "" {
		overrides = append(overrides, *cmdlinePrefs)
	}
	if len(overrides) > 0 {
		prefs.PushCommandLineStack(strings.Join(overrides, ";"))
		defer prefs.PopCommandLineStack()
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		stop := statsview.Launch(output)
		defer stop()
	}

	var streamer beep.Streamer
	switch len(md.RemainingArgs()) {
	case 0:
		streamer, err = source.Tone(*tone, 0.5)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "playing %.0fHz test tone\n", *tone)
	case 1:
		s, err := source.Open(logger.Allow, md.GetArg(0))
		if err != nil {
			return err
		}
		defer s.Close()
		streamer = s
		fmt.Fprintf(output, "playing %s\n", md.GetArg(0))
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	pr, err := sound.NewPreferences(*prefsPath)
	if err != nil {
		return err
	}

	ctl := sound.NewController(logger.Allow, pr, nil, dump.NewWriter(logger.Allow))
	defer ctl.Shutdown()

	// the sample source produces console ordered samples
	ctl.SetSampleOrder(samples.BigEndian)

	// the graph is taken before initialisation so that it does not follow
	// pointers into the host audio API
	if *memvizFile != "" {
		f, err := os.Create(*memvizFile)
		if err != nil {
			return err
		}
		memviz.Map(f, ctl)
		if err := f.Close(); err != nil {
			return err
		}
	}

	name := ctl.Initialize(pr.Backend.String())
	fmt.Fprintf(output, "using %s backend\n", name)

	session := &playSession{
		ctl:    ctl,
		src:    source.New(streamer, samples.BigEndian),
		output: output,
		quit:   make(chan bool),
		ended:  make(chan bool),
	}

	if !*profile {
		return session.run()
	}

	err = performance.ProfileCPU("play.cpu.profile", session.run)
	if err != nil {
		return err
	}
	return performance.ProfileMem("play.mem.profile")
}

type playSession struct {
	ctl    *sound.Controller
	src    *source.Source
	output io.Writer

	// closed when the session should end
	quit chan bool

	// closed by the producer when the source is exhausted
	ended chan bool
}

func (s *playSession) run() error {
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	keys := s.keyboard()

	go s.produce()

	for {
		select {
		case <-intChan:
			fmt.Fprint(s.output, "\r")
			close(s.quit)
			return nil

		case <-s.ended:
			close(s.quit)
			return s.src.Err()

		case k := <-keys:
			if !s.key(k) {
				close(s.quit)
				return nil
			}
		}
	}
}

// produce samples at the rate the console would until the source is
// exhausted or the session ends
func (s *playSession) produce() {
	buf := make([]int16, framesPerPush*samples.StereoChannels)

	tick := time.NewTicker(pushInterval)
	defer tick.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-tick.C:
			n, ok := s.src.Read(buf)
			if n > 0 {
				s.ctl.PushSamples(buf, n)
			}
			if !ok {
				close(s.ended)
				return
			}
		}
	}
}

// returns false if the session should end
func (s *playSession) key(k byte) bool {
	switch k {
	case '+', '=':
		s.ctl.AdjustVolume(5)
	case '-', '_':
		s.ctl.AdjustVolume(-5)
	case 'm', 'M':
		s.ctl.ToggleMute()
	case 'p', 'P':
		s.ctl.SetRunning(s.ctl.State() != sound.Running)
	case 'd', 'D':
		pr := s.ctl.Preferences()
		_ = pr.DumpAudio.Set(!pr.DumpAudio.Get().(bool))
	case 'q', 'Q':
		return false
	default:
		return true
	}

	vol := s.ctl.Volume()
	fmt.Fprintf(s.output, "\r%s: volume %d%s dump %v  ", s.ctl.State(), vol.Level,
		map[bool]string{true: " (muted)", false: ""}[vol.Muted], s.ctl.IsDumping())

	return true
}

// read single key presses from the controlling terminal. the returned
// channel is nil if there is no terminal, in which case the session can only
// be ended by an interrupt or by the source ending
func (s *playSession) keyboard() <-chan byte {
	t, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		logger.Logf(logger.Allow, "play", "no keyboard input: %v", err)
		return nil
	}

	keys := make(chan byte)

	go func() {
		<-s.quit
		_ = t.Restore()
		_ = t.Close()
	}()

	go func() {
		b := make([]byte, 1)
		for {
			n, err := t.Read(b)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- b[0]:
			case <-s.quit:
				return
			}
		}
	}()

	return keys
}
