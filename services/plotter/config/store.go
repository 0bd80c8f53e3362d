// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"sync"
)

// Store loads and saves a single PlotConfig.
//
// Load returns ErrNotFound when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (PlotConfig, error)
	Save(ctx context.Context, cfg PlotConfig) error
}

// FileStore keeps the config in a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (PlotConfig, error) {
	if err := ctx.Err(); err != nil {
		return PlotConfig{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(s.path)
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, cfg PlotConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Save(s.path, cfg)
}

// MemoryStore keeps the config in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	cfg   PlotConfig
	saved bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (PlotConfig, error) {
	if err := ctx.Err(); err != nil {
		return PlotConfig{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return PlotConfig{}, ErrNotFound
	}
	return s.cfg.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, cfg PlotConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clone()
	s.saved = true
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
