package domain

import (
	"path/filepath"
	"time"
)

type NodeType int

const (
	NodeFile NodeType = iota
	NodeDir
)

func (nodeType NodeType) String() string {
	if nodeType == NodeDir {
		return "dir"
	}
	return "file"
}

// Entry is a point-in-time snapshot of one filesystem object as reported by the
// storage layer.
type Entry struct {
	Path    string
	Name    string
	Type    NodeType
	ModTime time.Time
}

func (entry Entry) IsDir() bool {
	return entry.Type == NodeDir
}

func NewEntry(path string, isDir bool, modTime time.Time) Entry {
	nodeType := NodeFile
	if isDir {
		nodeType = NodeDir
	}
	return Entry{
		Path:    path,
		Name:    filepath.Base(path),
		Type:    nodeType,
		ModTime: modTime,
	}
}

// ParentName returns the name of the directory that contains path.
func ParentName(path string) string {
	return filepath.Base(filepath.Dir(path))
}
