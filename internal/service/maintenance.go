package service

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// MaintenanceStore is the maintenance-mode flag behind a small
// interface so handlers take an injected store instead of reading
// ambient file state.
type MaintenanceStore interface {
	Get() (bool, error)
	Set(enabled bool) error
}

type maintenanceState struct {
	Enabled bool `json:"enabled"`
}

// FileMaintenanceStore persists the flag as a small JSON side file.
// Writes are whole-file rewrites; concurrent toggles are last write
// wins.
type FileMaintenanceStore struct {
	path string
}

func NewFileMaintenanceStore(path string) *FileMaintenanceStore {
	return &FileMaintenanceStore{
		path: path,
	}
}

func (s *FileMaintenanceStore) Get() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	var state maintenanceState
	if err := json.Unmarshal(data, &state); err != nil {
		return false, err
	}

	return state.Enabled, nil
}

func (s *FileMaintenanceStore) Set(enabled bool) error {
	data, err := json.Marshal(maintenanceState{Enabled: enabled})
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}

// MemoryMaintenanceStore is the in-memory test double.
type MemoryMaintenanceStore struct {
	mu      sync.Mutex
	enabled bool
}

func NewMemoryMaintenanceStore() *MemoryMaintenanceStore {
	return &MemoryMaintenanceStore{}
}

func (s *MemoryMaintenanceStore) Get() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enabled, nil
}

func (s *MemoryMaintenanceStore) Set(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled

	return nil
}

type MaintenanceService struct {
	store MaintenanceStore
}

func NewMaintenanceService(store MaintenanceStore) *MaintenanceService {
	return &MaintenanceService{
		store: store,
	}
}

func (s *MaintenanceService) Status() (bool, error) {
	return s.store.Get()
}

func (s *MaintenanceService) Toggle() (bool, error) {
	enabled, err := s.store.Get()
	if err != nil {
		return false, err
	}

	if err := s.store.Set(!enabled); err != nil {
		return false, err
	}

	return !enabled, nil
}
