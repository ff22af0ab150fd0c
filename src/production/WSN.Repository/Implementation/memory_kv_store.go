package implementation

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// MemoryKVStore is an in-process KVStore used in tests and single-node
// deployments without an external store.
type MemoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{data: make(map[string][]byte)}
}

func (s *MemoryKVStore) Get(_ context.Context, key string, out interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return interfaces.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *MemoryKVStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryKVStore) GetByPrefix(_ context.Context, prefix string) ([]interfaces.KVEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []interfaces.KVEntry
	for key, raw := range s.data {
		if strings.HasPrefix(key, prefix) {
			value := make([]byte, len(raw))
			copy(value, raw)
			entries = append(entries, interfaces.KVEntry{Key: key, Value: value})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *MemoryKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
