package implementation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// FileRuleStore persists the ordered alert-rule list as a JSON file. Saves
// replace the whole file via a temp-file rename so a crash mid-write never
// leaves a truncated rule list behind.
type FileRuleStore struct {
	mu   sync.Mutex
	path string
}

func NewFileRuleStore(path string) *FileRuleStore {
	return &FileRuleStore{path: path}
}

func (s *FileRuleStore) Load() ([]wsnmodels.AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []wsnmodels.AlertRule{}, nil
		}
		return nil, fmt.Errorf("failed to read rule file %s: %w", s.path, err)
	}

	var rules []wsnmodels.AlertRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", s.path, err)
	}
	return rules, nil
}

func (s *FileRuleStore) Save(rules []wsnmodels.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create rule directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace rule file: %w", err)
	}
	return nil
}
