package state

import (
	"path/filepath"
	"testing"
)

func sampleArms() map[string]Arm {
	return map[string]Arm{
		"overlap -subj animal":          {Count: 3, Value: 1.2},
		"subject_gap -compl person":     {Count: 1, Value: 0.4},
		"no_statement_novelty":          {Count: 7, Value: 0.9},
		"entity_novelty -none":          {Count: 0, Value: 0},
		"object_gap -subj person place": {Count: 2, Value: 1.05},
	}
}

func assertTablesEqual(t *testing.T, got, want map[string]Arm) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("table size = %d, want %d", len(got), len(want))
	}
	for name, arm := range want {
		loaded, ok := got[name]
		if !ok {
			t.Errorf("arm %q missing", name)
			continue
		}
		if loaded != arm {
			t.Errorf("arm %q = %+v, want %+v", name, loaded, arm)
		}
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utility.json")
	store := NewJSONStore(path)

	arms := sampleArms()
	if err := store.Save(arms); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertTablesEqual(t, loaded, arms)
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nothing.json"))

	arms, err := store.Load()
	if err != nil {
		t.Fatalf("Load should not fail for a missing file: %v", err)
	}
	if len(arms) != 0 {
		t.Errorf("expected empty table, got %d arms", len(arms))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLiteMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteMemory failed: %v", err)
	}
	defer store.Close()

	arms := sampleArms()
	if err := store.Save(arms); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertTablesEqual(t, loaded, arms)
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store, err := OpenSQLiteMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteMemory failed: %v", err)
	}
	defer store.Close()

	if err := store.Save(map[string]Arm{"trust": {Count: 1, Value: 0.5}}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(map[string]Arm{"trust": {Count: 2, Value: 0.75}}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if arm := loaded["trust"]; arm.Count != 2 || arm.Value != 0.75 {
		t.Errorf("arm = %+v, want count 2 value 0.75", arm)
	}
}

func TestSQLiteStoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utility.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Save(map[string]Arm{"overlap": {Count: 4, Value: 1.1}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if arm := loaded["overlap"]; arm.Count != 4 || arm.Value != 1.1 {
		t.Errorf("arm = %+v, want count 4 value 1.1", arm)
	}
}
