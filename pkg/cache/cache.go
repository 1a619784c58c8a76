package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the cache file name inside os.TempDir().
const DefaultFileName = "kscript_deps_cache.txt"

const maxLineSize = 16 * 1024 * 1024

var (
	ErrInvalidKey   = errors.New("cache key must be non-empty and contain no whitespace")
	ErrInvalidValue = errors.New("cache value must not contain a newline")
)

// DefaultPath returns the well-known cache location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// Cache is an append-only text file of "<key> <value>" lines.
//
// The file is not locked. Concurrent appends from several processes are
// single writes in O_APPEND mode, a concurrent Clear may drop them.
type Cache struct {
	path string
}

// New returns a cache stored at path. The file is created on the first Store.
func New(path string) *Cache {
	return &Cache{path: path}
}

func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the value of the last line whose key equals key.
// A missing file is an empty cache.
func (c *Cache) Lookup(key string) (string, bool, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("opening cache: %w", err)
	}
	defer f.Close()

	var (
		value string
		found bool
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		k, v, ok := strings.Cut(line, " ")
		if ok && k == key {
			value, found = v, true
		}
	}
	if err := sc.Err(); err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}

	return value, found, nil
}

// Store appends one entry. Existing entries are never rewritten.
func (c *Cache) Store(key, value string) error {
	if key == "" || strings.ContainsAny(key, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return ErrInvalidValue
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	if _, err := f.WriteString(key + " " + value + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	return f.Close()
}

// Clear deletes the cache file. Clearing a missing cache is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cache: %w", err)
	}
	return nil
}
