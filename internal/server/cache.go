package server

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/Stefan/ppm-saas-sub008/internal/platform/htmldom"
)

// cacheKey identifies one parse of one file.
type cacheKey struct {
	Path string
	Attr string
}

// cacheEntry holds a parsed document with its timestamp and the file's
// modification time at parse.
type cacheEntry struct {
	doc       *htmldom.Document
	modTime   time.Time
	timestamp time.Time
}

// DocumentCache provides a TTL-based cache for parsed HTML documents.
// Documents are read-only after parsing, so cached entries are shared.
// Cached files are watched and dropped as soon as they change; the
// modification-time check still applies when watching is unavailable.
type DocumentCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
	done      chan struct{}
}

// NewDocumentCache creates a new cache. A ttl of 0 disables caching.
func NewDocumentCache(ttl time.Duration) *DocumentCache {
	c := &DocumentCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if ttl == 0 {
		close(c.done)
		return c
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("file watching unavailable, relying on modification times")
		close(c.done)
		return c
	}
	c.watcher = w
	go c.watch()
	return c
}

// watch invalidates entries whose file was written, replaced or removed.
func (c *DocumentCache) watch() {
	defer close(c.done)
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("cached document changed")
				c.Invalidate(event.Name)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("document watcher error")
		}
	}
}

// Close stops watching files. The cache keeps working without the watcher.
func (c *DocumentCache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.watcher != nil {
			err = c.watcher.Close()
			<-c.done
		}
	})
	return err
}

// Watching reports whether file changes invalidate entries immediately.
func (c *DocumentCache) Watching() bool {
	return c.watcher != nil
}

// Load returns the cached document for path if it is within TTL and the
// file has not changed, otherwise parses it fresh.
func (c *DocumentCache) Load(path, attr string) (*htmldom.Document, error) {
	if c.ttl == 0 {
		return htmldom.ParseFile(path, attr)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey{Path: path, Attr: attr}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.timestamp) < c.ttl && entry.modTime.Equal(info.ModTime()) {
		doc := entry.doc
		c.mu.Unlock()
		return doc, nil
	}
	c.mu.Unlock()

	doc, err := htmldom.ParseFile(path, attr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{doc: doc, modTime: info.ModTime(), timestamp: time.Now()}
	c.mu.Unlock()

	if c.watcher != nil {
		if err := c.watcher.Add(path); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("cannot watch document")
		}
	}

	return doc, nil
}

// Invalidate removes all cache entries for path.
func (c *DocumentCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Path == path {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the entire cache.
func (c *DocumentCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
