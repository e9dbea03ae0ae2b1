// Package cachestore implements the Cache & Fingerprint component (C7): a
// whole-file JSON-blob projection cache on disk, keyed by a content hash of
// the request parameters plus the project fingerprint, with TTL expiry,
// ETag-based not-modified short-circuiting, and advisory LRU trimming.
package cachestore

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// Entry is what's persisted per cache key.
type Entry struct {
	ETag      string    `json:"etag"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"createdAt"`
}

// Options configures a Store; zero values fall back to the documented
// ARCHLENS_CACHE_* defaults (TTL 120s, no entry/byte caps).
type Options struct {
	TTL               time.Duration
	MaxEntries        int
	MaxBytes          int64
	CompressThreshold int // compress payloads at or above this many bytes; <=0 means the 64 KiB default
}

// Store is a directory-backed projection cache.
type Store struct {
	dir string
	opt Options
}

const defaultCompressThreshold = 64 * 1024

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir string, opt Options) (*Store, error) {
	if opt.TTL <= 0 {
		opt.TTL = 120 * time.Second
	}
	if opt.CompressThreshold <= 0 {
		opt.CompressThreshold = defaultCompressThreshold
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, opt: opt}, nil
}

// Key derives a stable 16-hex-char cache key from the request parameters
// and the project fingerprint — identical inputs always hash identically,
// and any parameter change changes the key.
func Key(projectPath, detailLevel string, topN, maxChars int, sections []string, fingerprint string) string {
	sorted := append([]string(nil), sections...)
	sort.Strings(sorted)

	h, _ := blake2b.New256(nil)
	h.Write([]byte(projectPath))
	h.Write([]byte{0})
	h.Write([]byte(detailLevel))
	h.Write([]byte{0})
	h.Write(itoaBytes(topN))
	h.Write([]byte{0})
	h.Write(itoaBytes(maxChars))
	h.Write([]byte{0})
	for _, s := range sorted {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(fingerprint))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:16]
}

func itoaBytes(n int) []byte {
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return []byte(string(buf[i:]))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) compressedPath(key string) string {
	return filepath.Join(s.dir, key+".json.zst")
}

// Get returns the cached entry for key, or (nil, false, nil) if absent or
// expired. An expired entry is removed from disk before returning.
func (s *Store) Get(key string) (*Entry, bool, error) {
	raw, compressedPath, err := s.readRaw(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, err
	}

	if time.Since(e.CreatedAt) > s.opt.TTL {
		os.Remove(s.path(key))
		if compressedPath != "" {
			os.Remove(compressedPath)
		}
		return nil, false, nil
	}

	now := time.Now()
	os.Chtimes(activePath(s, key, compressedPath), now, now)

	return &e, true, nil
}

func activePath(s *Store, key, compressedPath string) string {
	if compressedPath != "" {
		return compressedPath
	}
	return s.path(key)
}

func (s *Store) readRaw(key string) (raw []byte, compressedPath string, err error) {
	if data, err := os.ReadFile(s.path(key)); err == nil {
		return data, "", nil
	} else if !os.IsNotExist(err) {
		return nil, "", err
	}

	path := s.compressedPath(key)
	compact, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, "", err
	}
	defer dec.Close()
	data, err := dec.DecodeAll(compact, nil)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

// Put stores an entry for key, compressing the on-disk payload above the
// configured threshold. Writes are whole-file replacements via a temp file
// + rename so concurrent writers for the same key are race-free.
func (s *Store) Put(key string, e Entry) error {
	e.CreatedAt = time.Now()
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	target := s.path(key)
	payload := raw
	if len(raw) >= s.opt.CompressThreshold {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		payload = enc.EncodeAll(raw, nil)
		enc.Close()
		target = s.compressedPath(key)
		os.Remove(s.path(key))
	} else {
		os.Remove(s.compressedPath(key))
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return s.trim()
}

// Delete removes any cached entry for key, compressed or not. Used by
// explicit refresh operations that must force recomputation.
func (s *Store) Delete(key string) {
	os.Remove(s.path(key))
	os.Remove(s.compressedPath(key))
}

type fileStat struct {
	path    string
	size    int64
	modTime time.Time
}

// trim enforces MaxEntries/MaxBytes by evicting least-recently-modified
// files first. It is advisory: a concurrent reader racing an eviction only
// observes a cache miss on its next call, never corrupted data.
func (s *Store) trim() error {
	if s.opt.MaxEntries <= 0 && s.opt.MaxBytes <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var files []fileStat
	var total int64
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, fileStat{path: filepath.Join(s.dir, de.Name()), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	count := len(files)
	for _, f := range files {
		overEntries := s.opt.MaxEntries > 0 && count > s.opt.MaxEntries
		overBytes := s.opt.MaxBytes > 0 && total > s.opt.MaxBytes
		if !overEntries && !overBytes {
			break
		}
		if err := os.Remove(f.path); err == nil {
			count--
			total -= f.size
		}
	}
	return nil
}
