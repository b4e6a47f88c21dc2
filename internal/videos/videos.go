// Package videos maintains the on-disk recordings library: listing,
// latest-file lookup and size-capped pruning of the storage directory.
package videos

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prsauer/wow-recorder/internal/logging"
)

// Recording describes one finished video file in the storage
// directory.
type Recording struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	SizeBytes int64     `json:"sizeBytes"`
	ModTime   time.Time `json:"modTime"`
}

// List returns the recordings in dir, newest first. A directory that
// does not exist yet is an empty library, not an error.
func List(dir string) ([]Recording, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	recordings := make([]Recording, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isRecording(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		recordings = append(recordings, Recording{
			Name:      entry.Name(),
			Path:      filepath.Join(dir, entry.Name()),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	// Newest first; name breaks mtime ties for a stable order.
	sort.Slice(recordings, func(i, j int) bool {
		if !recordings[i].ModTime.Equal(recordings[j].ModTime) {
			return recordings[i].ModTime.After(recordings[j].ModTime)
		}
		return recordings[i].Name > recordings[j].Name
	})
	return recordings, nil
}

// isRecording reports whether name carries one of the container
// extensions the engine can write.
func isRecording(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mkv", ".flv":
		return true
	}
	return false
}

// Latest returns the most recent recording in dir, or nil when the
// library is empty.
func Latest(dir string) (*Recording, error) {
	recordings, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(recordings) == 0 {
		return nil, nil
	}
	return &recordings[0], nil
}

// TotalSize sums the recording file sizes in dir.
func TotalSize(dir string) (int64, error) {
	recordings, err := List(dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, rec := range recordings {
		total += rec.SizeBytes
	}
	return total, nil
}

// Prune deletes the oldest recordings in dir until the library fits in
// maxBytes, and returns the bytes freed. The newest recording is never
// deleted, even when it alone exceeds the cap. maxBytes <= 0 disables
// pruning. Files that cannot be removed are skipped; the first removal
// error is returned after the whole pass.
func Prune(dir string, maxBytes int64) (int64, error) {
	if maxBytes <= 0 {
		return 0, nil
	}
	recordings, err := List(dir)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, rec := range recordings {
		total += rec.SizeBytes
	}

	var freed int64
	var firstErr error
	for i := len(recordings) - 1; i >= 1 && total > maxBytes; i-- {
		rec := recordings[i]
		if err := os.Remove(rec.Path); err != nil {
			logging.ErrorLogger.Printf("Failed to prune %s: %v", rec.Path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logging.InfoLogger.Printf("Pruned old recording %s (%d bytes)", rec.Name, rec.SizeBytes)
		total -= rec.SizeBytes
		freed += rec.SizeBytes
	}
	return freed, firstErr
}
