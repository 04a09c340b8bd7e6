package services

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"partaudit/internal/domain"
)

// DefaultMaxDepth is the partition depth beneath a stream root:
// year, month, day, hour, minute.
const DefaultMaxDepth = domain.TimeKeySegments

type TreeWalker struct {
	fs       FileSystem
	maxDepth int
	logger   *zap.Logger
}

type walkFrame struct {
	path  string
	depth int
}

func NewTreeWalker(fs FileSystem, maxDepth int, logger *zap.Logger) *TreeWalker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &TreeWalker{
		fs:       fs,
		maxDepth: maxDepth,
		logger:   nopIfNil(logger),
	}
}

// DiscoverLeaves returns every empty directory and every directory that directly
// holds a file beneath root. Any listing error aborts the walk.
func (walker *TreeWalker) DiscoverLeaves(ctx context.Context, root string) (domain.LeafSet, error) {
	leaves := domain.NewLeafSet()
	stack := []walkFrame{{path: cleanPath(root), depth: 0}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return domain.LeafSet{}, err
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := walker.fs.List(frame.path)
		if err != nil {
			return domain.LeafSet{}, domain.FilesystemError(frame.path, err)
		}
		if len(children) == 0 {
			walker.logger.Debug("no files in directory", zap.String("path", frame.path))
			leaves.Add(frame.path)
			continue
		}
		// Reverse push keeps the walk in listing order.
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if !child.IsDir() {
				leaves.Add(frame.path)
				continue
			}
			if frame.depth+1 > walker.maxDepth {
				return domain.LeafSet{}, domain.PathFormatError(child.Path,
					fmt.Sprintf("directory nested deeper than %d levels below %s", walker.maxDepth, root))
			}
			stack = append(stack, walkFrame{path: child.Path, depth: frame.depth + 1})
		}
	}
	return leaves, nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}
