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

// Package filemonitor logs the files on a disc image as the emulation reads
// them. Repeated reads from the same file are logged once. Files that are
// known to contain streamed audio are marked in the log.
//
// The disc filesystem is not part of this package. It is accessed through the
// Volume and FileSystem interfaces.
package filemonitor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cubeaudio/audiocommon/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Partition identifies a partition of a disc volume.
type Partition uint64

// FileInfo describes a file in a disc filesystem.
type FileInfo struct {
	// full path of the file in the filesystem
	Path string

	// name of the file without the directory
	Name string

	// offset of the file in the partition and size in bytes
	Offset uint64
	Size   uint64
}

// FileSystem is implemented by a disc filesystem.
type FileSystem interface {
	// FindFileInfo returns the file that contains the offset. Returns false if
	// no file contains the offset
	FindFileInfo(offset uint64) (FileInfo, bool)
}

// Volume is implemented by a disc volume.
type Volume interface {
	// FileSystem returns the filesystem of the partition. Returns false if
	// the partition has no valid filesystem
	FileSystem(partition Partition) (FileSystem, bool)
}

var soundExtensions = map[string]bool{
	".adp":   true,
	".adx":   true,
	".afc":   true,
	".ast":   true,
	".brstm": true,
	".dsp":   true,
	".hps":   true,
	".ogg":   true,
	".sad":   true,
	".snd":   true,
	".song":  true,
	".ssm":   true,
	".str":   true,
}

// IsSoundFile returns true if the filename has the extension of a streamed
// audio format used by disc based games. The comparison is not case
// sensitive.
func IsSoundFile(filename string) bool {
	return soundExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FileNameAt returns the name of the file at the offset in the partition.
// Returns the empty string if there is no file at the offset.
func FileNameAt(vol Volume, partition Partition, offset uint64) string {
	fs, ok := vol.FileSystem(partition)
	if !ok {
		return ""
	}
	fi, ok := fs.FindFileInfo(offset)
	if !ok {
		return ""
	}
	return fi.Name
}

// Monitor logs file accesses.
type Monitor struct {
	perm    logger.Permission
	printer *message.Printer

	crit      sync.Mutex
	previous  bool
	partition Partition
	offset    uint64
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(perm logger.Permission) *Monitor {
	return &Monitor{
		perm:    perm,
		printer: message.NewPrinter(language.English),
	}
}

// the width of the size column in the log
const sizeWidth = 7

// Log the file at the offset in the partition. Nothing is logged if the file
// is the same file as the previous call, if there is no file at the offset
// or if logging is not permitted.
//
// Returns the logged entry and true if an entry was logged.
func (m *Monitor) Log(vol Volume, partition Partition, offset uint64) (string, bool) {
	if !m.perm.AllowLogging() {
		return "", false
	}

	fs, ok := vol.FileSystem(partition)
	if !ok {
		return "", false
	}

	fi, ok := fs.FindFileInfo(offset)
	if !ok {
		return "", false
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if m.previous && m.partition == partition && m.offset == fi.Offset {
		return "", false
	}

	size := m.printer.Sprintf("%d", fi.Size/1000)
	entry := fmt.Sprintf("%*s kB %s", sizeWidth, size, fi.Path)
	if IsSoundFile(fi.Path) {
		entry = fmt.Sprintf("%s (streamed audio)", entry)
	}

	logger.Log(m.perm, "filemon", entry)

	m.previous = true
	m.partition = partition
	m.offset = fi.Offset

	return entry, true
}

// Reset forgets the previously logged file.
func (m *Monitor) Reset() {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.previous = false
}
