package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stage names used by [DefaultKeyer]. A file cache groups its entries by
// stage so one stage can be inspected or cleared on its own.
const (
	StageRules  = "rules"
	StageFrame  = "frame"
	StageLayout = "layout"
	stageOther  = "other"
)

// FileCache stores entries as JSON files under dir/<stage>/<xx>/<hash>.json,
// where stage comes from the key (see [StageOf]).
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// StageOf returns the pipeline stage a key belongs to. Keys look like
// "[scope:]stage:hash"; anything else is filed under "other".
func StageOf(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return stageOther
	}
	switch stage := parts[len(parts)-2]; stage {
	case StageRules, StageFrame, StageLayout:
		return stage
	}
	return stageOther
}

// Get reads an entry. Unreadable or expired entries are removed and count
// as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes an entry. A ttl of zero keeps it until cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	e := fileEntry{Key: key, Data: data, StoredAt: now}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Write then rename so a concurrent Get never sees half an entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Stats counts the stored entries per stage. Stages without entries are
// omitted.
func (c *FileCache) Stats() (map[string]int, error) {
	out := make(map[string]int)
	err := c.walk(nil, func(stage, _ string) error {
		out[stage]++
		return nil
	})
	return out, err
}

// Clear removes the entries of the given stages, or of every stage when none
// is given, and returns how many were removed.
func (c *FileCache) Clear(stages ...string) (int, error) {
	n := 0
	err := c.walk(stages, func(_, path string) error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// walk calls fn for every entry file under the selected stage directories.
func (c *FileCache) walk(stages []string, fn func(stage, path string) error) error {
	if len(stages) == 0 {
		stages = []string{StageRules, StageFrame, StageLayout, stageOther}
	}
	for _, stage := range stages {
		root := filepath.Join(c.dir, stage)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			return fn(stage, path)
		})
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close does nothing for a file cache.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, StageOf(key), hash[:2], hash[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
