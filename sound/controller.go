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
	"path/filepath"
	"sync"

	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/paths"
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/sound/samples"
)

// Factory creates an uninitialised driver by name. The backend.Create()
// function is the Factory used by normal programs.
type Factory func(name string) (backend.Driver, error)

// Dumper receives the sample stream while audio dumping is active.
type Dumper interface {
	Start(paths ...string) error
	Stop() error

	// samples are interleaved stereo frames in host order
	Write(samples []int16)
}

// DumpFilename is the name of the file written to the dump directory.
const DumpFilename = "dspdump.wav"

// the subdirectory of the resource path used when the dump path is not set
const dumpSubPath = "dump"

// Controller owns the active backend driver. It is the single entry point
// for samples produced by the emulation and for changes to the audio
// configuration.
type Controller struct {
	perm   logger.Permission
	prefs  *Preferences
	create Factory
	dumper Dumper

	// crit guards drv and state. PushSamples() only needs the read lock
	crit  sync.RWMutex
	drv   backend.Driver
	state State
	order samples.Order

	// dumpCrit guards the dumping field and calls to the dumper
	dumpCrit sync.Mutex
	dumping  bool
	scratch  []int16
}

// NewController is the preferred method of initialisation for the Controller
// type. If create is nil then backend.Create() is used. The dumper can be nil,
// in which case the DumpAudio preference has no effect.
func NewController(perm logger.Permission, prefs *Preferences, create Factory, dumper Dumper) *Controller {
	if create == nil {
		create = backend.Create
	}
	return &Controller{
		perm:   perm,
		prefs:  prefs,
		create: create,
		dumper: dumper,
		order:  samples.BigEndian,
	}
}

// SetSampleOrder sets the byte order of samples delivered to PushSamples().
// Takes effect on the next call to Initialize().
func (ctl *Controller) SetSampleOrder(order samples.Order) {
	ctl.crit.Lock()
	defer ctl.crit.Unlock()
	ctl.order = order
}

// Preferences returns the preferences used by the controller.
func (ctl *Controller) Preferences() *Preferences {
	return ctl.prefs
}

func (ctl *Controller) config() backend.Config {
	cfg := backend.NewConfig()
	cfg.Order = ctl.order
	cfg.LatencyMS = ctl.prefs.Latency.Get().(int)
	cfg.Device = ctl.prefs.Device.String()
	if ctl.prefs.Surround.Get().(bool) {
		cfg.Layout = samples.Surround51Float
	}
	return cfg
}

// open and initialise the named driver
func (ctl *Controller) open(name string, cfg backend.Config) (backend.Driver, error) {
	drv, err := ctl.create(name)
	if err != nil {
		return nil, err
	}
	err = drv.Init(cfg)
	if err != nil {
		_ = drv.Close()
		return nil, err
	}
	return drv, nil
}

// Initialize the named backend and start it running. If the backend cannot be
// used the default backend is tried and if that fails the Null backend is
// used. Any existing backend is shut down first.
//
// Returns the name of the backend that was initialised.
func (ctl *Controller) Initialize(name string) string {
	ctl.crit.Lock()
	defer ctl.crit.Unlock()

	if ctl.drv != nil {
		ctl.shutdown()
	}

	cfg := ctl.config()

	candidates := []string{name}
	if name != backend.Default() {
		candidates = append(candidates, backend.Default())
	}

	for _, n := range candidates {
		drv, err := ctl.open(n, cfg)
		if err == nil {
			ctl.drv = drv
			break
		}
		logger.Logf(ctl.perm, "audio", "%s: %v", n, err)
	}

	if ctl.drv == nil {
		logger.Logf(ctl.perm, "audio", "falling back to %s", backend.NameNull)
		ctl.drv, _ = backend.Create(backend.NameNull)
		_ = ctl.drv.Init(cfg)
	} else if ctl.drv.Name() != name {
		logger.Logf(ctl.perm, "audio", "falling back to %s", ctl.drv.Name())
	}

	ctl.drv.SetVolume(ctl.Volume().Effective())
	ctl.state = Stopped
	ctl.setRunning(true)

	logger.Logf(ctl.perm, "audio", "%s initialised: %s", ctl.drv.Name(), cfg.Layout)

	return ctl.drv.Name()
}

// Backend returns the name of the active backend. Returns the empty string if
// the controller is not initialised.
func (ctl *Controller) Backend() string {
	ctl.crit.RLock()
	defer ctl.crit.RUnlock()
	if ctl.drv == nil {
		return ""
	}
	return ctl.drv.Name()
}

// State returns the current state of the controller.
func (ctl *Controller) State() State {
	ctl.crit.RLock()
	defer ctl.crit.RUnlock()
	return ctl.state
}

// SetRunning starts or stops the active backend. Requests for the state the
// controller is already in do nothing. Returns false if there is no active
// backend or if the backend failed to change state.
func (ctl *Controller) SetRunning(running bool) bool {
	ctl.crit.Lock()
	defer ctl.crit.Unlock()
	return ctl.setRunning(running)
}

// must be called with crit held
func (ctl *Controller) setRunning(running bool) bool {
	if ctl.drv == nil {
		return false
	}

	if (ctl.state == Running) == running {
		return true
	}

	if err := ctl.drv.SetRunning(running); err != nil {
		logger.Log(ctl.perm, "audio", err)
		return false
	}

	if running {
		ctl.state = Running
	} else {
		ctl.state = Stopped
	}

	return true
}

// PushSamples delivers interleaved stereo frames to the active backend.
// Nothing happens if the controller is not initialised.
//
// Safe to call from any goroutine. The function never blocks waiting for
// the host device.
func (ctl *Controller) PushSamples(s []int16, numFrames int) {
	ctl.crit.RLock()
	defer ctl.crit.RUnlock()

	if ctl.drv == nil {
		return
	}

	n := min(max(numFrames, 0)*samples.StereoChannels, len(s))
	s = s[:n]

	ctl.dumpCrit.Lock()
	ctl.updateDump()
	if ctl.dumping {
		ctl.dumper.Write(ctl.hostOrder(s))
	}
	ctl.dumpCrit.Unlock()

	ctl.drv.PushSamples(s)
}

// convert samples to host order for the dumper. must be called with dumpCrit
// held
func (ctl *Controller) hostOrder(s []int16) []int16 {
	if ctl.order == samples.HostOrder {
		return s
	}
	if cap(ctl.scratch) < len(s) {
		ctl.scratch = make([]int16, len(s))
	}
	d := ctl.scratch[:len(s)]
	for i := range s {
		d[i] = ctl.order.Value(s[i])
	}
	return d
}

// start or stop the dumper if the DumpAudio preference has changed. must be
// called with dumpCrit held
func (ctl *Controller) updateDump() {
	if ctl.dumper == nil {
		return
	}

	want := ctl.prefs.DumpAudio.Get().(bool)
	if want == ctl.dumping {
		return
	}

	if !want {
		ctl.stopDump()
		return
	}

	pth, err := ctl.dumpFile()
	if err == nil {
		err = ctl.dumper.Start(pth)
	}
	if err != nil {
		logger.Logf(ctl.perm, "audio", "cannot start audio dump: %v", err)

		// do not try again until the preference is next set
		ctl.prefs.DumpAudio.Set(false)
		return
	}

	ctl.dumping = true
	logger.Logf(ctl.perm, "audio", "dumping audio to %s", pth)
}

// must be called with dumpCrit held
func (ctl *Controller) stopDump() {
	if !ctl.dumping {
		return
	}
	ctl.dumping = false

	if err := ctl.dumper.Stop(); err != nil {
		logger.Logf(ctl.perm, "audio", "audio dump: %v", err)
		return
	}
	logger.Log(ctl.perm, "audio", "audio dump stopped")
}

func (ctl *Controller) dumpFile() (string, error) {
	dir := ctl.prefs.DumpPath.String()
	if dir == "" {
		return paths.ResourcePath(dumpSubPath, DumpFilename)
	}
	return filepath.Join(dir, DumpFilename), nil
}

// IsDumping returns true if the audio stream is being dumped.
func (ctl *Controller) IsDumping() bool {
	ctl.dumpCrit.Lock()
	defer ctl.dumpCrit.Unlock()
	return ctl.dumping
}

// Volume returns the current volume state.
func (ctl *Controller) Volume() VolumeState {
	return VolumeState{
		Level: ctl.prefs.Volume.Get().(int),
		Muted: ctl.prefs.Muted.Get().(bool),
	}
}

// EffectiveVolume returns the volume level being used for playback, taking
// the mute flag into account.
func (ctl *Controller) EffectiveVolume() int {
	return ctl.Volume().Effective()
}

// SetVolume sets the volume level. Values outside the range 0 to 100 are
// clamped. The mute flag is unchanged.
func (ctl *Controller) SetVolume(level int) {
	ctl.prefs.Volume.Set(level)
	ctl.applyVolume()
}

// ToggleMute flips the mute flag.
func (ctl *Controller) ToggleMute() {
	ctl.prefs.Muted.Set(!ctl.prefs.Muted.Get().(bool))
	ctl.applyVolume()
}

// AdjustVolume changes the volume level by delta and unmutes.
func (ctl *Controller) AdjustVolume(delta int) {
	ctl.prefs.Volume.Set(ctl.prefs.Volume.Get().(int) + delta)
	ctl.prefs.Muted.Set(false)
	ctl.applyVolume()
}

func (ctl *Controller) applyVolume() {
	ctl.crit.RLock()
	defer ctl.crit.RUnlock()
	if ctl.drv != nil {
		ctl.drv.SetVolume(ctl.EffectiveVolume())
	}
}

// Shutdown stops any audio dump, stops the backend and releases it. The
// controller can be initialised again afterwards.
func (ctl *Controller) Shutdown() {
	ctl.crit.Lock()
	defer ctl.crit.Unlock()
	ctl.shutdown()
}

// must be called with crit held
func (ctl *Controller) shutdown() {
	ctl.dumpCrit.Lock()
	ctl.stopDump()
	ctl.dumpCrit.Unlock()

	if ctl.drv == nil {
		return
	}

	ctl.setRunning(false)

	if err := ctl.drv.Close(); err != nil {
		logger.Log(ctl.perm, "audio", err)
	}

	logger.Logf(ctl.perm, "audio", "%s shut down", ctl.drv.Name())

	ctl.drv = nil
	ctl.state = Uninitialized
}
