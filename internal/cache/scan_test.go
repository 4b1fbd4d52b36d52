package cache

import (
	"testing"

	"github.com/MajorE-Garage/arbshift/internal/extract"
)

func TestScanCache_RoundTrip(t *testing.T) {
	c := NewScanCache(t.TempDir())
	content := []byte("Text('Submit the form now')\n")
	cands := []extract.RawCandidate{
		{Value: "Submit the form now", File: "lib/a.dart", Line: 1},
	}

	if _, found := c.Lookup("lib/a.dart", content); found {
		t.Fatal("Expected a miss before Store")
	}

	c.Store("lib/a.dart", content, cands)
	got, found := c.Lookup("lib/a.dart", content)
	if !found {
		t.Fatal("Expected a hit after Store")
	}
	if len(got) != 1 || got[0] != cands[0] {
		t.Errorf("Cached candidates differ: %+v", got)
	}
}

func TestScanCache_ContentChangeMisses(t *testing.T) {
	c := NewScanCache(t.TempDir())
	c.Store("lib/a.dart", []byte("old content"), nil)

	if _, found := c.Lookup("lib/a.dart", []byte("new content")); found {
		t.Error("Expected a miss after the file content changed")
	}
}

func TestScanCache_SameContentDifferentPathMisses(t *testing.T) {
	// Candidates carry file attribution, so a copy of the same content at
	// another path must not reuse them.
	c := NewScanCache(t.TempDir())
	content := []byte("Text('Shared content here')\n")
	c.Store("lib/a.dart", content, []extract.RawCandidate{
		{Value: "Shared content here", File: "lib/a.dart", Line: 1},
	})

	if _, found := c.Lookup("lib/b.dart", content); found {
		t.Error("Expected a miss for the same content under another path")
	}
}

func TestScanCache_DiskTierSurvivesNewProcess(t *testing.T) {
	dir := t.TempDir()
	content := []byte("Text('Persistent greeting here')\n")

	first := NewScanCache(dir)
	first.Store("lib/a.dart", content, []extract.RawCandidate{
		{Value: "Persistent greeting here", File: "lib/a.dart", Line: 1},
	})

	// A fresh instance has a cold memory tier and the same disk tier.
	second := NewScanCache(dir)
	got, found := second.Lookup("lib/a.dart", content)
	if !found {
		t.Fatal("Expected a disk-tier hit in a fresh instance")
	}
	if got[0].Value != "Persistent greeting here" {
		t.Errorf("Disk tier returned wrong candidates: %+v", got)
	}
}

func TestScanCache_Clear(t *testing.T) {
	c := NewScanCache(t.TempDir())
	content := []byte("Text('Soon to be gone')\n")
	c.Store("lib/a.dart", content, nil)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Lookup("lib/a.dart", content); found {
		t.Error("Expected a miss after Clear")
	}
}

func TestKey_Distinguishes(t *testing.T) {
	a := Key("lib/a.dart", []byte("same"))
	b := Key("lib/b.dart", []byte("same"))
	c := Key("lib/a.dart", []byte("other"))
	if a == b || a == c {
		t.Errorf("Keys should differ: %s, %s, %s", a, b, c)
	}
	if a != Key("lib/a.dart", []byte("same")) {
		t.Error("Key is not deterministic")
	}
}
