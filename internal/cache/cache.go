// Package cache keeps downloaded station logos on disk.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultExpiry is how long cached logos are valid (7 days).
	DefaultExpiry = 7 * 24 * time.Hour
	// LogoSubdir is the subdirectory for cached logos.
	LogoSubdir = "logos"
	// AppName is used for the cache directory name.
	AppName = "piradio"

	logoExt = ".img"
)

// Cache stores raw logo bytes keyed by their source URL.
type Cache struct {
	dir    string
	expiry time.Duration
	now    func() time.Time
}

// NewCache creates a Cache in the platform cache directory with the default expiry.
func NewCache() (*Cache, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return nil, err
	}
	return New(cacheDir, DefaultExpiry), nil
}

// New creates a Cache rooted at baseDir.
func New(baseDir string, expiry time.Duration) *Cache {
	return &Cache{
		dir:    filepath.Join(baseDir, LogoSubdir),
		expiry: expiry,
		now:    time.Now,
	}
}

// GetCacheDir returns the platform-specific cache directory for the application.
func GetCacheDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	return filepath.Join(userCacheDir, AppName), nil
}

func keyFor(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) pathFor(url string) string {
	return filepath.Join(c.dir, keyFor(url)+logoExt)
}

func (c *Cache) expired(modTime time.Time) bool {
	return c.now().Sub(modTime) > c.expiry
}

// Get returns the cached bytes for url. Expired entries are removed and reported as missing.
func (c *Cache) Get(url string) ([]byte, bool) {
	path := c.pathFor(url)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if c.expired(info.ModTime()) {
		if err := os.Remove(path); err != nil {
			log.Debug().Err(err).Str("file", path).Msg("Failed to remove expired logo")
		}
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// Put stores data for url, replacing any previous entry atomically.
func (c *Cache) Put(url string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("refusing to cache empty logo for %s", url)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".logo-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write logo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close logo file: %w", err)
	}

	if err := os.Rename(tmpPath, c.pathFor(url)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store logo: %w", err)
	}
	return nil
}

// CleanExpired removes cache files older than the expiry duration.
func (c *Cache) CleanExpired() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	var removed, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if c.expired(info.ModTime()) {
			path := filepath.Join(c.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Debug().Err(err).Str("file", path).Msg("Failed to remove expired logo")
				failed++
			} else {
				removed++
			}
		}
	}

	if removed > 0 || failed > 0 {
		log.Debug().Int("removed", removed).Int("failed", failed).Msg("Logo cache cleanup completed")
	}
	return nil
}
