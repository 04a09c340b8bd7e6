package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testRoot   = "/data"
	testStream = "/data/streams/orders"
	testDay    = "/data/streams/orders/2024/01/15"
)

var baseTime = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// treeBuilder lays out a partition tree on a MemMapFs. Modification times are
// applied in Build, after every node exists.
type treeBuilder struct {
	t      *testing.T
	fs     afero.Fs
	mtimes map[string]time.Time
}

func newTreeBuilder(t *testing.T) *treeBuilder {
	t.Helper()
	return &treeBuilder{t: t, fs: afero.NewMemMapFs(), mtimes: make(map[string]time.Time)}
}

func (b *treeBuilder) Dir(path string, mtime time.Time) *treeBuilder {
	b.t.Helper()
	require.NoError(b.t, b.fs.MkdirAll(path, 0o755))
	b.mtimes[path] = mtime
	return b
}

func (b *treeBuilder) File(path string, mtime time.Time) *treeBuilder {
	b.t.Helper()
	require.NoError(b.t, b.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(b.t, afero.WriteFile(b.fs, path, []byte("record\n"), 0o644))
	b.mtimes[path] = mtime
	return b
}

// Minutes creates minute directories under hour, one minute apart starting at
// start.
func (b *treeBuilder) Minutes(hour string, start time.Time, names ...string) *treeBuilder {
	b.t.Helper()
	for i, name := range names {
		b.Dir(filepath.Join(hour, name), start.Add(time.Duration(i)*time.Minute))
	}
	return b
}

func (b *treeBuilder) Build() *AferoFileSystem {
	b.t.Helper()
	paths := make([]string, 0, len(b.mtimes))
	for path := range b.mtimes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		mtime := b.mtimes[path]
		require.NoError(b.t, b.fs.Chtimes(path, mtime, mtime))
	}
	return NewAferoFileSystem(b.fs)
}

func minuteRange(from, to int) []string {
	names := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		names = append(names, fmt.Sprintf("%02d", i))
	}
	return names
}

func observedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}
