package services

import (
	"path/filepath"
	"sync"

	"partaudit/internal/domain"
)

// FaultyFileSystem wraps a FileSystem and fails chosen List or Stat calls. It
// counts every call per path.
type FaultyFileSystem struct {
	inner FileSystem

	mu        sync.Mutex
	listFault map[string]error
	statFault map[string]error
	lists     map[string]int
	stats     map[string]int
}

func NewFaultyFileSystem(inner FileSystem) *FaultyFileSystem {
	return &FaultyFileSystem{
		inner:     inner,
		listFault: make(map[string]error),
		statFault: make(map[string]error),
		lists:     make(map[string]int),
		stats:     make(map[string]int),
	}
}

func (fileSystem *FaultyFileSystem) FailList(path string, err error) *FaultyFileSystem {
	fileSystem.mu.Lock()
	defer fileSystem.mu.Unlock()
	fileSystem.listFault[filepath.Clean(path)] = err
	return fileSystem
}

func (fileSystem *FaultyFileSystem) FailStat(path string, err error) *FaultyFileSystem {
	fileSystem.mu.Lock()
	defer fileSystem.mu.Unlock()
	fileSystem.statFault[filepath.Clean(path)] = err
	return fileSystem
}

func (fileSystem *FaultyFileSystem) List(path string) ([]domain.Entry, error) {
	key := filepath.Clean(path)
	fileSystem.mu.Lock()
	fileSystem.lists[key]++
	err := fileSystem.listFault[key]
	fileSystem.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return fileSystem.inner.List(path)
}

func (fileSystem *FaultyFileSystem) Stat(path string) (domain.Entry, error) {
	key := filepath.Clean(path)
	fileSystem.mu.Lock()
	fileSystem.stats[key]++
	err := fileSystem.statFault[key]
	fileSystem.mu.Unlock()
	if err != nil {
		return domain.Entry{}, err
	}
	return fileSystem.inner.Stat(path)
}

func (fileSystem *FaultyFileSystem) ListCalls(path string) int {
	fileSystem.mu.Lock()
	defer fileSystem.mu.Unlock()
	return fileSystem.lists[filepath.Clean(path)]
}

func (fileSystem *FaultyFileSystem) StatCalls(path string) int {
	fileSystem.mu.Lock()
	defer fileSystem.mu.Unlock()
	return fileSystem.stats[filepath.Clean(path)]
}
