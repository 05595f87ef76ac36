package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Preferences are per-user CLI defaults kept in ~/.bizsim/preferences.json
type Preferences struct {
	// DefaultBusinessID scopes CLI views when no --business flag is given
	DefaultBusinessID string `json:"default_business_id,omitempty"`

	// DefaultSlot is used by save and load when no slot is named
	DefaultSlot string `json:"default_slot,omitempty"`
}

// PreferencesStore reads and writes the preferences file
type PreferencesStore struct {
	path string
}

// NewPreferencesStore uses ~/.bizsim, creating it when needed
func NewPreferencesStore() (*PreferencesStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewPreferencesStoreAt(filepath.Join(home, ".bizsim"))
}

// NewPreferencesStoreAt keeps the preferences file in dir
func NewPreferencesStoreAt(dir string) (*PreferencesStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &PreferencesStore{path: filepath.Join(dir, "preferences.json")}, nil
}

// Load returns empty preferences when the file does not exist yet
func (s *PreferencesStore) Load() (*Preferences, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}

func (s *PreferencesStore) Save(prefs *Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Update loads, applies change and saves
func (s *PreferencesStore) Update(change func(*Preferences)) error {
	prefs, err := s.Load()
	if err != nil {
		return err
	}
	change(prefs)
	return s.Save(prefs)
}

func (s *PreferencesStore) Path() string {
	return s.path
}
