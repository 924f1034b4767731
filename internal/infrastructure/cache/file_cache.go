// Package cache keeps recent classification results on disk so that the
// same capture is not sent to the model twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

type entry struct {
	Key       string                      `json:"key"`
	Result    domain.ClassificationResult `json:"result"`
	CreatedAt time.Time                   `json:"created_at"`
}

// FileCache stores classification results as JSON blobs addressed by a
// hash of the classifier input.
type FileCache struct {
	dir        string
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	clock      ports.Clock
}

// NewFileCache returns a cache rooted at dir.
func NewFileCache(dir string, maxEntries int, ttl time.Duration, clock ports.Clock) *FileCache {
	if maxEntries <= 0 {
		maxEntries = domain.DefaultCacheEntries
	}
	return &FileCache{dir: dir, maxEntries: maxEntries, ttl: ttl, clock: clock}
}

// Key hashes the input. Image and text inputs never collide.
func Key(in domain.ClassificationInput) string {
	h := sha256.New()
	if in.IsImage() {
		h.Write([]byte("image\x00" + in.MIMEType + "\x00"))
		h.Write(in.Image)
	} else {
		h.Write([]byte("text\x00" + in.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for key. Expired entries are removed.
func (c *FileCache) Get(key string) (domain.ClassificationResult, bool, error) {
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ClassificationResult{}, false, nil
		}
		return domain.ClassificationResult{}, false, err
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(c.pathFor(key))
		return domain.ClassificationResult{}, false, nil
	}
	if c.ttl > 0 && c.clock.Now().Sub(e.CreatedAt) > c.ttl {
		_ = os.Remove(c.pathFor(key))
		return domain.ClassificationResult{}, false, nil
	}
	return e.Result, true, nil
}

// Set stores result under key and evicts the oldest entries over capacity.
func (c *FileCache) Set(key string, result domain.ClassificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(entry{Key: key, Result: result, CreatedAt: c.clock.Now()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(key), data, domain.SecureFilePermissions); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Len counts stored entries.
func (c *FileCache) Len() (int, error) {
	files, err := c.files()
	return len(files), err
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(c.dir)
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

type fileInfo struct {
	name string
	mod  time.Time
}

func (c *FileCache) files() ([]fileInfo, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var infos []fileInfo
	for _, f := range dirEntries {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	return infos, nil
}

func (c *FileCache) evictIfNeeded() error {
	infos, err := c.files()
	if err != nil || len(infos) <= c.maxEntries {
		return err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for len(infos) > c.maxEntries {
		_ = os.Remove(filepath.Join(c.dir, infos[0].name))
		infos = infos[1:]
	}
	return nil
}

// Classifier answers from the cache before asking the wrapped classifier.
type Classifier struct {
	inner  ports.Classifier
	cache  *FileCache
	logger ports.Logger
}

// Wrap decorates inner with cache.
func Wrap(inner ports.Classifier, cache *FileCache, logger ports.Logger) *Classifier {
	return &Classifier{inner: inner, cache: cache, logger: logger}
}

func (c *Classifier) Name() string {
	return c.inner.Name()
}

func (c *Classifier) Classify(ctx context.Context, in domain.ClassificationInput) (domain.ClassificationResult, error) {
	key := Key(in)
	if result, ok, err := c.cache.Get(key); err != nil {
		c.logger.Warn("classification cache read failed", map[string]interface{}{"error": err.Error()})
	} else if ok {
		c.logger.Debug("classification cache hit", map[string]interface{}{"category": result.Category})
		return result, nil
	}

	result, err := c.inner.Classify(ctx, in)
	if err != nil {
		return result, err
	}
	if err := c.cache.Set(key, result); err != nil {
		c.logger.Warn("classification cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return result, nil
}

var _ ports.Classifier = (*Classifier)(nil)
