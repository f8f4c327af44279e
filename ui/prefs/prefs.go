// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"scan-cleaner/internal/stain"
)

const prefsFile = "preferences.json"

// Preference keys.
const (
	KeyLastDir   = "lastDirectory"
	KeyLastImage = "lastImage"
	KeyBrushSize = "brushSize"
	keyParams    = "params"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	path   string
}

// Load reads preferences from ~/.config/scan-cleaner/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	p := &Prefs{
		values: make(map[string]json.RawMessage),
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "scan-cleaner")
	p.path = filepath.Join(dir, prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a float64 preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	var v float64
	if p.get(key, &v) {
		return v
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// Int returns an int preference, or fallback if not set.
func (p *Prefs) Int(key string, fallback int) int {
	var v int
	if p.get(key, &v) {
		return v
	}
	return fallback
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) {
	p.set(key, val)
}

// String returns a string preference, or fallback if not set.
func (p *Prefs) String(key, fallback string) string {
	var v string
	if p.get(key, &v) {
		return v
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key, val string) {
	p.set(key, val)
}

// Params returns the persisted detection parameters, or the defaults
// when none were saved yet.
func (p *Prefs) Params() stain.Params {
	var v stain.Params
	if p.get(keyParams, &v) {
		if v.Validate() == nil {
			return v
		}
	}
	return stain.DefaultParams()
}

// SetParams persists the detection parameters.
func (p *Prefs) SetParams(params stain.Params) {
	p.set(keyParams, params)
}

func (p *Prefs) get(key string, out interface{}) bool {
	p.mu.RLock()
	raw, ok := p.values[key]
	p.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (p *Prefs) set(key string, val interface{}) {
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.values[key] = data
	p.mu.Unlock()
}
