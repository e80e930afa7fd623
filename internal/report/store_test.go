package report

import (
	"testing"

	"tradecheck/internal/model"
)

func TestStore_MemoryRoundTrip(t *testing.T) {
	store := NewStore("")
	if _, found := store.Get("job-1"); found {
		t.Fatal("Expected miss on empty store")
	}

	res := &model.Result{URL: "https://example.com"}
	store.Put("job-1", res)

	got, found := store.Get("job-1")
	if !found {
		t.Fatal("Expected hit after Put")
	}
	if got.URL != "https://example.com" {
		t.Errorf("Unexpected report: %+v", got)
	}
}

func TestStore_DiskPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(dir)
	first.Put("job-1", &model.Result{
		URL:   "https://example.com",
		Flags: model.Flags{AnyFlags: true},
	})

	// a fresh store over the same directory must see the archived report
	second := NewStore(dir)
	got, found := second.Get("job-1")
	if !found {
		t.Fatal("Expected disk hit from a fresh store")
	}
	if got.URL != "https://example.com" || !got.Flags.AnyFlags {
		t.Errorf("Unexpected report: %+v", got)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	store.Put("job-1", &model.Result{URL: "https://a.example.com"})
	store.Put("job-2", &model.Result{URL: "https://b.example.com"})

	store.Delete("job-1")
	if _, found := store.Get("job-1"); found {
		t.Error("Expected job-1 gone after delete")
	}
	if _, found := store.Get("job-2"); !found {
		t.Error("Expected job-2 to survive delete of job-1")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := store.Get("job-2"); found {
		t.Error("Expected empty store after clear")
	}
}

func TestKey_StableAndDistinct(t *testing.T) {
	if Key("job-1") != Key("job-1") {
		t.Error("Expected stable keys")
	}
	if Key("job-1") == Key("job-2") {
		t.Error("Expected distinct keys for distinct jobs")
	}
}
