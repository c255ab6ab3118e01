package runner

import (
	"os"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/optforge/optforge/internal/logging"
)

// VersionCache caches the compat-layer versions found in an install
// directory. Scanning is lazy; Invalidate forces a rescan on the next
// read. The directory is outside our control, so the runner-level form
// invalidates before every render, and Watch can invalidate eagerly when
// the directory changes.
type VersionCache struct {
	mu       sync.Mutex
	dir      string
	versions []string
	scanned  bool
	watcher  *fsnotify.Watcher
	log      *logging.Logger
}

// NewVersionCache builds a cache over dir. A nil logger is replaced with
// a no-op one.
func NewVersionCache(dir string, log *logging.Logger) *VersionCache {
	if log == nil {
		log = logging.NewNop()
	}
	return &VersionCache{dir: dir, log: log}
}

// SetDir points the cache at a new directory and invalidates it.
func (c *VersionCache) SetDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dir = dir
	c.scanned = false
	c.versions = nil
}

// Versions returns the installed version names, sorted. An unreadable or
// unset directory yields an empty list.
func (c *VersionCache) Versions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.scanned {
		c.versions = c.scan()
		c.scanned = true
	}
	out := make([]string, len(c.versions))
	copy(out, c.versions)
	return out
}

func (c *VersionCache) scan() []string {
	if c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("scanning versions directory", "dir", c.dir, "error", err)
		}
		return nil
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Strings(versions)
	return versions
}

// Invalidate drops the cached scan.
func (c *VersionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanned = false
	c.versions = nil
}

// Watch starts an fsnotify watcher that invalidates the cache whenever
// the directory changes. Close stops it.
func (c *VersionCache) Watch() error {
	c.mu.Lock()
	dir := c.dir
	c.mu.Unlock()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				c.Invalidate()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.log.Warn("versions watcher", "error", err)
			}
		}
	}()
	return nil
}

// Close stops the watcher, if one is running.
func (c *VersionCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// The wine runner's shared version cache. Configure points it at the
// settings-provided directory; the runner-level form invalidates it
// before each render.
var compatVersions = NewVersionCache("", nil)

// CompatVersions lists installed compat-layer versions.
func CompatVersions() []string { return compatVersions.Versions() }

// InvalidateCompatVersions drops the cached version scan.
func InvalidateCompatVersions() { compatVersions.Invalidate() }
