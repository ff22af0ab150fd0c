package implementation

import (
	"os"
	"path/filepath"
	"testing"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

func TestFileRuleStoreMissingFile(t *testing.T) {
	store := NewFileRuleStore(filepath.Join(t.TempDir(), "rules.json"))

	rules, err := store.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if rules == nil || len(rules) != 0 {
		t.Fatalf("expected empty rule list, got %v", rules)
	}
}

func TestFileRuleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	store := NewFileRuleStore(path)

	rules := []wsnmodels.AlertRule{
		{ID: "r1", Name: "porta", MAC: "aa:bb", State: wsnmodels.StateMove, StartTime: "09:00", EndTime: "17:00", Enabled: true},
		{ID: "r2", Name: "noite", MAC: "", State: wsnmodels.StateSomeone, StartTime: "00:00", EndTime: "06:00", Enabled: false},
	}
	if err := store.Save(rules); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(loaded))
	}
	if loaded[0] != rules[0] || loaded[1] != rules[1] {
		t.Fatalf("rules changed in round trip: %v", loaded)
	}
}

func TestFileRuleStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewFileRuleStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error on corrupt rule file")
	}
}

func TestFileRuleStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "rules.json")
	store := NewFileRuleStore(path)

	if err := store.Save([]wsnmodels.AlertRule{{ID: "r1", Enabled: true}}); err != nil {
		t.Fatalf("save into missing directory: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(loaded))
	}
}
