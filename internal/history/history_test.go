package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecentRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if err := s.Record(Run{Timestamp: time.Now(), Fingerprint: "fp1", Components: 10, Relations: 5}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := s.Record(Run{Timestamp: time.Now(), Fingerprint: "fp2", Components: 20, Relations: 8, CacheHit: true}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Fingerprint != "fp2" || !runs[0].CacheHit {
		t.Fatalf("expected newest-first with cache_hit true, got %+v", runs[0])
	}
}
