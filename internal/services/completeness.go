package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"partaudit/internal/domain"
)

const MinutesPerHour = 60

type CompletenessChecker struct {
	fs     FileSystem
	logger *zap.Logger
}

func NewCompletenessChecker(fs FileSystem, logger *zap.Logger) *CompletenessChecker {
	return &CompletenessChecker{fs: fs, logger: nopIfNil(logger)}
}

// FindMissing reports expected minute partitions that are not present.
//
// Every hour except the greatest one must hold "00".."59". The greatest hour is
// still filling: with N entries listed under it, "00".."N-1" are expected. That
// is an index range, not the actual names, so a stray late name can mask an
// early gap.
//
// An hour that cannot be listed is recorded as an issue and treated as empty.
func (checker *CompletenessChecker) FindMissing(ctx context.Context, hours, minutes *domain.PartitionSet) ([]string, []domain.PathIssue, error) {
	last, ok := hours.Last()
	if !ok {
		return nil, nil, nil
	}
	checker.logger.Debug("checking minute completeness",
		zap.Int("hours", hours.Len()),
		zap.Int("minutes", minutes.Len()),
		zap.String("last_hour", last),
	)

	missing := make(map[string]struct{})
	var issues []domain.PathIssue
	for _, hour := range hours.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		present, count, err := checker.listChildren(hour)
		if err != nil {
			checker.logger.Warn("cannot list hour partition", zap.String("path", hour), zap.Error(err))
			issues = append(issues, domain.PathIssue{
				Stage: domain.StageComplete,
				Path:  hour,
				Err:   domain.FilesystemError(hour, err),
			})
		}
		expected := MinutesPerHour
		if hour == last {
			expected = count
		}
		for i := 0; i < expected; i++ {
			candidate := filepath.Join(hour, minuteName(i))
			if _, found := present[candidate]; !found {
				missing[candidate] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(missing))
	for path := range missing {
		result = append(result, path)
	}
	sort.Strings(result)
	return result, issues, nil
}

// listChildren returns the child paths of hour and how many there are. On
// failure the count is -1.
func (checker *CompletenessChecker) listChildren(hour string) (map[string]struct{}, int, error) {
	entries, err := checker.fs.List(hour)
	if err != nil {
		return nil, -1, err
	}
	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		present[filepath.Clean(entry.Path)] = struct{}{}
	}
	return present, len(entries), nil
}

func minuteName(i int) string {
	return fmt.Sprintf("%02d", i)
}
