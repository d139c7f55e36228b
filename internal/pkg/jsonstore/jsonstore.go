// Package jsonstore provides JSON document persistence for bot state.
// Every document is a pretty-printed UTF-8 JSON file in the data directory.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store reads and writes JSON documents under a single data directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Load decodes the named document into v.
// A missing file leaves v untouched. A corrupt or unreadable file is logged
// and likewise leaves v untouched; data loss degrades to empty defaults.
func (s *Store) Load(filename string, v any) {
	path := filepath.Join(s.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("file", filename).Msg("Failed to read data file, starting empty")
		}
		return
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Failed to parse data file, starting empty")
	}
}

// Save encodes v into the named document, replacing any previous content.
func (s *Store) Save(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}

	path := filepath.Join(s.dir, filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
