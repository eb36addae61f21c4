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

package sound_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cubeaudio/audiocommon/curated"
	"github.com/cubeaudio/audiocommon/logger"
	"github.com/cubeaudio/audiocommon/sound"
	"github.com/cubeaudio/audiocommon/sound/backend"
	"github.com/cubeaudio/audiocommon/sound/samples"
	"github.com/cubeaudio/audiocommon/test"
)

// fakeDriver records the calls made to it by the controller
type fakeDriver struct {
	name    string
	initErr error
	runErr  error

	crit     sync.Mutex
	cfg      backend.Config
	running  bool
	runCalls int
	volume   int
	pushed   []int16
	closed   bool
}

func (drv *fakeDriver) Name() string {
	return drv.name
}

func (drv *fakeDriver) Init(cfg backend.Config) error {
	drv.cfg = cfg
	return drv.initErr
}

func (drv *fakeDriver) SetRunning(running bool) error {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.runCalls++
	if drv.runErr != nil {
		return drv.runErr
	}
	drv.running = running
	return nil
}

func (drv *fakeDriver) SetVolume(level int) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.volume = level
}

func (drv *fakeDriver) PushSamples(s []int16) {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	drv.pushed = append(drv.pushed, s...)
}

func (drv *fakeDriver) Close() error {
	drv.closed = true
	return nil
}

func (drv *fakeDriver) Volume() int {
	drv.crit.Lock()
	defer drv.crit.Unlock()
	return drv.volume
}

// factory returns the fake drivers by name. any other name is unsupported
func factory(drivers ...*fakeDriver) sound.Factory {
	return func(name string) (backend.Driver, error) {
		for _, drv := range drivers {
			if drv.name == name {
				return drv, nil
			}
		}
		return nil, curated.Errorf(backend.UnsupportedBackend, name)
	}
}

// fakeDumper records the calls made to it by the controller
type fakeDumper struct {
	starts  [][]string
	stops   int
	written []int16
	err     error
}

func (d *fakeDumper) Start(paths ...string) error {
	if d.err != nil {
		return d.err
	}
	d.starts = append(d.starts, paths)
	return nil
}

func (d *fakeDumper) Stop() error {
	d.stops++
	return nil
}

func (d *fakeDumper) Write(s []int16) {
	d.written = append(d.written, s...)
}

func newPrefs(t *testing.T) *sound.Preferences {
	t.Helper()
	p, err := sound.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	return p
}

func TestInitialize(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(fake), nil)

	test.ExpectEquality(t, ctl.State(), sound.Uninitialized)
	test.ExpectEquality(t, ctl.Backend(), "")

	// samples are ignored before initialisation
	ctl.PushSamples([]int16{1, 2}, 1)

	test.ExpectEquality(t, ctl.Initialize("fake"), "fake")
	test.ExpectEquality(t, ctl.State(), sound.Running)
	test.ExpectEquality(t, ctl.Backend(), "fake")
	test.ExpectEquality(t, fake.running, true)
	test.ExpectEquality(t, fake.volume, 100)
	test.ExpectEquality(t, fake.cfg.SampleRate, backend.SampleRate)
	test.ExpectEquality(t, fake.cfg.LatencyMS, 20)
	test.ExpectEquality(t, fake.cfg.Layout, samples.Stereo16)
	test.ExpectEquality(t, fake.cfg.Order, samples.BigEndian)

	ctl.PushSamples([]int16{1, 2, 3, 4, 5}, 2)
	test.DemandEquality(t, len(fake.pushed), 4)
	test.ExpectEquality(t, fake.pushed[3], 4)

	// frame count larger than the slice
	ctl.PushSamples([]int16{6, 7}, 10)
	test.ExpectEquality(t, len(fake.pushed), 6)

	ctl.Shutdown()
	test.ExpectEquality(t, ctl.State(), sound.Uninitialized)
	test.ExpectEquality(t, fake.running, false)
	test.ExpectEquality(t, fake.closed, true)

	// pushing after shutdown does nothing
	ctl.PushSamples([]int16{8, 9}, 1)
	test.ExpectEquality(t, len(fake.pushed), 6)

	// a second shutdown does nothing
	ctl.Shutdown()
}

func TestSurroundConfig(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	p := newPrefs(t)
	p.Surround.Set(true)
	p.Latency.Set(1000)
	p.Device.Set("Speakers")

	ctl := sound.NewController(logger.Allow, p, factory(fake), nil)
	ctl.SetSampleOrder(samples.HostOrder)
	ctl.Initialize("fake")

	test.ExpectEquality(t, fake.cfg.Layout, samples.Surround51Float)
	test.ExpectEquality(t, fake.cfg.LatencyMS, 500)
	test.ExpectEquality(t, fake.cfg.Device, "Speakers")
	test.ExpectEquality(t, fake.cfg.Order, samples.HostOrder)
}

func TestFallback(t *testing.T) {
	def := &fakeDriver{name: backend.Default()}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(def), nil)

	// unknown backend falls back to the default
	test.ExpectEquality(t, ctl.Initialize("bogus"), backend.Default())
	test.ExpectEquality(t, ctl.State(), sound.Running)

	// default fails too so the Null backend is used
	def = &fakeDriver{name: backend.Default(), initErr: curated.Errorf(backend.DeviceInitFailure, errors.New("no device"))}
	ctl = sound.NewController(logger.Allow, newPrefs(t), factory(def), nil)
	test.ExpectEquality(t, ctl.Initialize("bogus"), backend.NameNull)
	test.ExpectEquality(t, ctl.State(), sound.Running)
	test.ExpectEquality(t, def.closed, true)

	ctl.PushSamples([]int16{1, 2, 3, 4}, 2)
	ctl.SetVolume(50)
	test.ExpectEquality(t, ctl.SetRunning(false), true)
	ctl.Shutdown()

	// requesting the default backend directly only tries it once
	def = &fakeDriver{name: backend.Default(), initErr: curated.Errorf(backend.DeviceBusy, errors.New("in use"))}
	ctl = sound.NewController(logger.Allow, newPrefs(t), factory(def), nil)
	test.ExpectEquality(t, ctl.Initialize(backend.Default()), backend.NameNull)
}

func TestReinitialize(t *testing.T) {
	a := &fakeDriver{name: "a"}
	b := &fakeDriver{name: "b"}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(a, b), nil)

	ctl.Initialize("a")
	ctl.SetVolume(30)
	ctl.Initialize("b")

	// the first driver has been released and the volume carries over
	test.ExpectEquality(t, a.closed, true)
	test.ExpectEquality(t, a.running, false)
	test.ExpectEquality(t, b.running, true)
	test.ExpectEquality(t, b.volume, 30)
}

func TestSetRunningEdgeTriggered(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(fake), nil)

	// no backend
	test.ExpectEquality(t, ctl.SetRunning(true), false)

	ctl.Initialize("fake")
	test.ExpectEquality(t, fake.runCalls, 1)

	// already running. no second device call
	test.ExpectEquality(t, ctl.SetRunning(true), true)
	test.ExpectEquality(t, fake.runCalls, 1)

	test.ExpectEquality(t, ctl.SetRunning(false), true)
	test.ExpectEquality(t, ctl.State(), sound.Stopped)
	test.ExpectEquality(t, fake.runCalls, 2)

	test.ExpectEquality(t, ctl.SetRunning(false), true)
	test.ExpectEquality(t, fake.runCalls, 2)

	// a failed start leaves the state unchanged so it can be retried
	fake.runErr = curated.Errorf(backend.DeviceStartFailure, errors.New("lost"))
	test.ExpectEquality(t, ctl.SetRunning(true), false)
	test.ExpectEquality(t, ctl.State(), sound.Stopped)
	test.ExpectEquality(t, fake.runCalls, 3)

	fake.runErr = nil
	test.ExpectEquality(t, ctl.SetRunning(true), true)
	test.ExpectEquality(t, ctl.State(), sound.Running)
	test.ExpectEquality(t, fake.runCalls, 4)
}

func TestVolume(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(fake), nil)

	// volume can be changed before initialisation
	ctl.SetVolume(80)
	test.ExpectEquality(t, ctl.EffectiveVolume(), 80)

	ctl.Initialize("fake")
	test.ExpectEquality(t, fake.Volume(), 80)

	ctl.ToggleMute()
	test.ExpectEquality(t, ctl.EffectiveVolume(), 0)
	test.ExpectEquality(t, ctl.Volume().Muted, true)
	test.ExpectEquality(t, fake.Volume(), 0)

	ctl.ToggleMute()
	test.ExpectEquality(t, ctl.EffectiveVolume(), 80)
	test.ExpectEquality(t, fake.Volume(), 80)

	// clamping
	ctl.SetVolume(150)
	test.ExpectEquality(t, ctl.EffectiveVolume(), 100)
	ctl.SetVolume(-1)
	test.ExpectEquality(t, ctl.EffectiveVolume(), 0)

	// adjusting unmutes
	ctl.SetVolume(50)
	ctl.ToggleMute()
	ctl.AdjustVolume(10)
	test.ExpectEquality(t, ctl.Volume(), sound.VolumeState{Level: 60, Muted: false})
	test.ExpectEquality(t, fake.Volume(), 60)

	ctl.AdjustVolume(-100)
	test.ExpectEquality(t, ctl.EffectiveVolume(), 0)
	ctl.AdjustVolume(500)
	test.ExpectEquality(t, ctl.EffectiveVolume(), 100)

	// volume is applied to the backend while muted
	ctl.ToggleMute()
	ctl.SetVolume(40)
	test.ExpectEquality(t, fake.Volume(), 0)
	test.ExpectEquality(t, ctl.Volume().Level, 40)
}

func TestDump(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	dumper := &fakeDumper{}
	p := newPrefs(t)
	dir := t.TempDir()
	p.DumpPath.Set(dir)

	ctl := sound.NewController(logger.Allow, p, factory(fake), dumper)
	ctl.Initialize("fake")

	ctl.PushSamples([]int16{1, 2}, 1)
	test.ExpectEquality(t, len(dumper.starts), 0)
	test.ExpectEquality(t, ctl.IsDumping(), false)

	// dumping starts on the next push after the preference changes
	p.DumpAudio.Set(true)
	ctl.PushSamples([]int16{samples.Swap16(3), samples.Swap16(4)}, 1)
	test.DemandEquality(t, len(dumper.starts), 1)
	test.ExpectEquality(t, dumper.starts[0][0], filepath.Join(dir, sound.DumpFilename))
	test.ExpectEquality(t, ctl.IsDumping(), true)

	// the dumper is given samples in host order
	test.DemandEquality(t, len(dumper.written), 2)
	test.ExpectEquality(t, dumper.written[0], 3)
	test.ExpectEquality(t, dumper.written[1], 4)

	// the backend is given samples unchanged
	test.ExpectEquality(t, fake.pushed[2], samples.Swap16(3))

	p.DumpAudio.Set(false)
	ctl.PushSamples([]int16{5, 6}, 1)
	test.ExpectEquality(t, dumper.stops, 1)
	test.ExpectEquality(t, len(dumper.written), 2)

	// shutdown stops an active dump
	p.DumpAudio.Set(true)
	ctl.PushSamples([]int16{7, 8}, 1)
	test.ExpectEquality(t, len(dumper.starts), 2)
	ctl.Shutdown()
	test.ExpectEquality(t, dumper.stops, 2)
	test.ExpectEquality(t, ctl.IsDumping(), false)
}

func TestDumpFailure(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	dumper := &fakeDumper{err: errors.New("cannot create file")}
	p := newPrefs(t)
	p.DumpPath.Set(t.TempDir())
	p.DumpAudio.Set(true)

	ctl := sound.NewController(logger.Allow, p, factory(fake), dumper)
	ctl.Initialize("fake")
	ctl.PushSamples([]int16{1, 2}, 1)

	// the preference is cleared so that the start is not retried on every push
	test.ExpectEquality(t, ctl.IsDumping(), false)
	test.ExpectEquality(t, p.DumpAudio.Get().(bool), false)

	// samples still reach the backend
	test.ExpectEquality(t, len(fake.pushed), 2)
}

// producer pushes while the control goroutine changes the volume and the
// running state. the controller is shut down while the producer is active
func TestConcurrentControl(t *testing.T) {
	fake := &fakeDriver{name: "fake"}
	ctl := sound.NewController(logger.Allow, newPrefs(t), factory(fake), nil)
	ctl.Initialize("fake")

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		s := make([]int16, 320)
		for {
			select {
			case <-done:
				return
			default:
				ctl.PushSamples(s, 160)
			}
		}
	}()

	for i := 0; i < 100; i++ {
		ctl.AdjustVolume(1)
		ctl.ToggleMute()
		ctl.SetRunning(i%2 == 0)
	}
	ctl.Shutdown()

	close(done)
	wg.Wait()

	test.ExpectEquality(t, ctl.State(), sound.Uninitialized)
}
