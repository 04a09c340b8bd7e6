package services

import (
	"path/filepath"

	"github.com/spf13/afero"

	"partaudit/internal/domain"
)

// AferoFileSystem reads partition trees through an afero.Fs. Every backend is
// wrapped read-only.
type AferoFileSystem struct {
	fs afero.Fs
}

func NewAferoFileSystem(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: afero.NewReadOnlyFs(fs)}
}

// NewOSFileSystem reads the local filesystem. A non-empty basePath confines
// every path beneath it.
func NewOSFileSystem(basePath string) *AferoFileSystem {
	var fs afero.Fs = afero.NewOsFs()
	if basePath != "" {
		fs = afero.NewBasePathFs(fs, basePath)
	}
	return NewAferoFileSystem(fs)
}

func (fileSystem *AferoFileSystem) List(path string) ([]domain.Entry, error) {
	infos, err := afero.ReadDir(fileSystem.fs, path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, domain.NewEntry(filepath.Join(path, info.Name()), info.IsDir(), info.ModTime()))
	}
	return entries, nil
}

func (fileSystem *AferoFileSystem) Stat(path string) (domain.Entry, error) {
	info, err := fileSystem.fs.Stat(path)
	if err != nil {
		return domain.Entry{}, err
	}
	return domain.NewEntry(path, info.IsDir(), info.ModTime()), nil
}
