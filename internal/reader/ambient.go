package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/simonhull/audiometa"
	"github.com/sanctuaryapp/sanctuary-server/internal/util"
)

// AmbientTrack is one background sound available while reading.
type AmbientTrack struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Path     string        `json:"-"`
	Format   string        `json:"format"`
	Duration time.Duration `json:"duration"`
}

// AmbientRegistry scans a directory of audio files and hands out an
// exclusive playback handle. A reading session owns at most one handle;
// opening a new session tears down the previous one so playback never
// leaks across books.
type AmbientRegistry struct {
	logger *slog.Logger

	mu     sync.Mutex
	tracks map[string]*AmbientTrack
	owner  string // session currently holding the handle
}

// NewAmbientRegistry creates an empty registry.
func NewAmbientRegistry(logger *slog.Logger) *AmbientRegistry {
	return &AmbientRegistry{
		logger: logger,
		tracks: make(map[string]*AmbientTrack),
	}
}

// Scan probes dir for playable audio files and registers each as a track.
// A missing directory is not an error; ambient sound is optional.
func (r *AmbientRegistry) Scan(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read ambient dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isAudioFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		track, err := probeTrack(ctx, path)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping unreadable ambient track", "path", path, "error", err)
			}
			continue
		}

		r.mu.Lock()
		r.tracks[track.ID] = track
		r.mu.Unlock()
	}

	if r.logger != nil {
		r.logger.Info("ambient tracks scanned", "dir", dir, "count", len(r.tracks))
	}
	return nil
}

// Tracks returns the registered tracks sorted by name.
func (r *AmbientRegistry) Tracks() []*AmbientTrack {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*AmbientTrack, 0, len(r.tracks))
	for _, t := range r.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Track looks up a registered track by ID.
func (r *AmbientRegistry) Track(id string) (*AmbientTrack, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[id]
	return t, ok
}

// Acquire grants sessionID the exclusive ambient handle, displacing any
// previous owner.
func (r *AmbientRegistry) Acquire(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.owner != "" && r.owner != sessionID && r.logger != nil {
		r.logger.Debug("ambient handle displaced", "previous", r.owner, "next", sessionID)
	}
	r.owner = sessionID
}

// Release returns the handle if sessionID still owns it.
func (r *AmbientRegistry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.owner == sessionID {
		r.owner = ""
	}
}

// Owner returns the session holding the handle, or empty.
func (r *AmbientRegistry) Owner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}

// probeTrack reads audio metadata for one file.
func probeTrack(ctx context.Context, path string) (*AmbientTrack, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close() //nolint:errcheck // Nothing useful to do with a close error here

	name := file.Tags.Title
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &AmbientTrack{
		ID:       util.Slugify(name),
		Name:     name,
		Path:     path,
		Format:   file.Format.String(),
		Duration: file.Audio.Duration,
	}, nil
}

func isAudioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3", ".m4a", ".m4b", ".flac", ".ogg":
		return true
	}
	return false
}
