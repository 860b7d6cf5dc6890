package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIncrement_CreatesLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := New(dir)

	// Nothing on disk before the first feed.
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Fatal("Expected no counts file before first increment")
	}

	if err := s.Increment("@Amy"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	if got := s.CountFor("@amy"); got != 1 {
		t.Errorf("CountFor(@amy) = %d, want 1", got)
	}
}

func TestIncrement_CaseInsensitive(t *testing.T) {
	s := New(t.TempDir())

	for _, h := range []string{"@Amy", "@amy", "AMY", " @aMy "} {
		if err := s.Increment(h); err != nil {
			t.Fatalf("Increment(%q) failed: %v", h, err)
		}
	}

	if got := s.CountFor("@amy"); got != 4 {
		t.Errorf("CountFor(@amy) = %d, want 4", got)
	}
}

func TestIncrement_IgnoresInvalid(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	for _, h := range []string{"", "   ", "@", "@has space", "@way-too!weird"} {
		if err := s.Increment(h); err != nil {
			t.Fatalf("Increment(%q) failed: %v", h, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Error("Expected no counts file after invalid-only increments")
	}
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	s := New(dir)
	if got := s.CountFor("@amy"); got != 0 {
		t.Errorf("CountFor on corrupt store = %d, want 0", got)
	}

	// A feed after corruption starts over from an empty mapping.
	if err := s.Increment("@amy"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if got := s.CountFor("@amy"); got != 1 {
		t.Errorf("CountFor after recovery = %d, want 1", got)
	}
}

func TestTopN(t *testing.T) {
	s := New(t.TempDir())

	feeds := map[string]int{"@amy": 9, "@bob": 4, "@cat": 6, "@dan": 1}
	for id, n := range feeds {
		for i := 0; i < n; i++ {
			if err := s.Increment(id); err != nil {
				t.Fatalf("Increment failed: %v", err)
			}
		}
	}

	top := s.TopN(3)
	if len(top) != 3 {
		t.Fatalf("TopN(3) returned %d records", len(top))
	}
	wantOrder := []string{"@amy", "@cat", "@bob"}
	for i, id := range wantOrder {
		if top[i].Identity != id {
			t.Errorf("TopN[%d] = %s, want %s", i, top[i].Identity, id)
		}
	}
}

func TestTopN_Empty(t *testing.T) {
	s := New(t.TempDir())
	if got := s.TopN(3); len(got) != 0 {
		t.Errorf("TopN on empty store = %v, want empty", got)
	}
}

func TestIncrement_Atomic(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Increment("@amy"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	tmpPath := filepath.Join(dir, FileName+".tmp")
	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Error("Expected .tmp file to be removed after atomic save")
	}
}

func TestCountFor_Monotonic(t *testing.T) {
	s := New(t.TempDir())

	prev := 0
	for i := 0; i < 5; i++ {
		if err := s.Increment("@amy"); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		got := s.CountFor("@amy")
		if got <= prev {
			t.Fatalf("Count did not increase: %d after %d", got, prev)
		}
		prev = got
	}
}
