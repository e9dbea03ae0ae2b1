package cachestore

import (
	"strings"
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := Key("/proj", "compact", 10, 1000, []string{"summary"}, "fp1")
	if err := s.Put(key, Entry{ETag: "abc", Output: "hello"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := s.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if got.ETag != "abc" || got.Output != "hello" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestGetExpiresByTTL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, Options{TTL: time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := Key("/proj", "compact", 10, 1000, nil, "fp1")
	if err := s.Put(key, Entry{ETag: "abc", Output: "hello"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, ok, err := s.Get(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestKeyChangesWithFingerprint(t *testing.T) {
	k1 := Key("/proj", "compact", 10, 1000, []string{"summary"}, "fp1")
	k2 := Key("/proj", "compact", 10, 1000, []string{"summary"}, "fp2")
	if k1 == k2 {
		t.Fatal("expected different fingerprints to produce different keys")
	}
}

func TestKeyIsOrderInsensitiveToSections(t *testing.T) {
	k1 := Key("/proj", "compact", 10, 1000, []string{"summary", "layers"}, "fp1")
	k2 := Key("/proj", "compact", 10, 1000, []string{"layers", "summary"}, "fp1")
	if k1 != k2 {
		t.Fatal("expected section order to not affect the cache key")
	}
}

func TestTrimEvictsLeastRecentlyModifiedFirst(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, Options{MaxEntries: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, fp := range []string{"fp1", "fp2", "fp3"} {
		key := Key("/proj", "compact", 10, 1000, nil, fp)
		if err := s.Put(key, Entry{ETag: "e", Output: strings.Repeat("x", 10)}); err != nil {
			t.Fatalf("put %d failed: %v", i, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	oldest := Key("/proj", "compact", 10, 1000, nil, "fp1")
	if _, ok, _ := s.Get(oldest); ok {
		t.Fatal("expected the oldest entry to have been evicted")
	}

	newest := Key("/proj", "compact", 10, 1000, nil, "fp3")
	if _, ok, _ := s.Get(newest); !ok {
		t.Fatal("expected the newest entry to survive trimming")
	}
}

func TestPutCompressesLargePayloads(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, Options{CompressThreshold: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := Key("/proj", "compact", 10, 1000, nil, "fp1")
	big := strings.Repeat("abcdefgh", 1000)
	if err := s.Put(key, Entry{ETag: "e", Output: big}); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok, err := s.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit after compression, got ok=%v err=%v", ok, err)
	}
	if got.Output != big {
		t.Fatal("expected decompressed output to match the original payload")
	}
}
