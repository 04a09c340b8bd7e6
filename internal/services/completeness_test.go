package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partaudit/internal/domain"
)

func classifyTree(t *testing.T, fs FileSystem) (*domain.PartitionSet, *domain.PartitionSet) {
	t.Helper()
	leaves, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(context.Background(), testStream)
	require.NoError(t, err)
	hours, minutes, issues, err := NewPartitionClassifier(fs, nil, nil).Classify(context.Background(), leaves)
	require.NoError(t, err)
	require.Empty(t, issues)
	return hours, minutes
}

func TestFindMissing(t *testing.T) {
	tests := []struct {
		name   string
		hours  map[string][]string
		expect []string
	}{
		{
			name:   "full hour before last",
			hours:  map[string][]string{"10": minuteRange(0, 59), "11": {"00"}},
			expect: []string{},
		},
		{
			name:   "gaps in non last hour",
			hours:  map[string][]string{"10": append(minuteRange(0, 29), minuteRange(32, 59)...), "11": {"00"}},
			expect: []string{testDay + "/10/30", testDay + "/10/31"},
		},
		{
			name:   "last hour dense",
			hours:  map[string][]string{"11": {"00", "01", "02"}},
			expect: []string{},
		},
		{
			name:   "last hour gap",
			hours:  map[string][]string{"11": {"00", "02"}},
			expect: []string{testDay + "/11/01"},
		},
		{
			// Five children, so "00".."04" are expected; "99" does not count.
			name:   "last hour index range",
			hours:  map[string][]string{"11": {"00", "01", "02", "03", "99"}},
			expect: []string{testDay + "/11/04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := newTreeBuilder(t)
			for hour, minutes := range tt.hours {
				builder.Minutes(testDay+"/"+hour, baseTime, minutes...)
			}
			fs := builder.Build()
			hours, minutes := classifyTree(t, fs)

			missing, issues, err := NewCompletenessChecker(fs, nil).FindMissing(context.Background(), hours, minutes)
			require.NoError(t, err)
			assert.Empty(t, issues)
			assert.Equal(t, tt.expect, missing)
		})
	}
}

func TestFindMissingListsEachHourOnce(t *testing.T) {
	inner := newTreeBuilder(t).
		Minutes(testDay+"/10", baseTime, minuteRange(0, 59)...).
		Minutes(testDay+"/11", baseTime, "00", "01").
		Build()
	fs := NewFaultyFileSystem(inner)
	hours, minutes := classifyTree(t, inner)

	_, _, err := NewCompletenessChecker(fs, nil).FindMissing(context.Background(), hours, minutes)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.ListCalls(testDay+"/10"))
	assert.Equal(t, 1, fs.ListCalls(testDay+"/11"))
}

func TestFindMissingListFailure(t *testing.T) {
	listErr := errors.New("connection reset")
	inner := newTreeBuilder(t).
		Minutes(testDay+"/10", baseTime, minuteRange(0, 59)...).
		Minutes(testDay+"/11", baseTime, "00", "01").
		Build()
	hours, minutes := classifyTree(t, inner)

	t.Run("non last hour reports every minute", func(t *testing.T) {
		fs := NewFaultyFileSystem(inner).FailList(testDay+"/10", listErr)
		missing, issues, err := NewCompletenessChecker(fs, nil).FindMissing(context.Background(), hours, minutes)
		require.NoError(t, err)
		assert.Len(t, missing, MinutesPerHour)
		assert.Equal(t, testDay+"/10/00", missing[0])
		assert.Equal(t, testDay+"/10/59", missing[MinutesPerHour-1])
		require.Len(t, issues, 1)
		assert.Equal(t, domain.StageComplete, issues[0].Stage)
		assert.ErrorIs(t, issues[0].Err, listErr)
	})

	t.Run("last hour expects nothing", func(t *testing.T) {
		fs := NewFaultyFileSystem(inner).FailList(testDay+"/11", listErr)
		missing, issues, err := NewCompletenessChecker(fs, nil).FindMissing(context.Background(), hours, minutes)
		require.NoError(t, err)
		assert.Empty(t, missing)
		require.Len(t, issues, 1)
		assert.Equal(t, testDay+"/11", issues[0].Path)
	})
}

func TestFindMissingNoHours(t *testing.T) {
	fs := newTreeBuilder(t).Build()
	missing, issues, err := NewCompletenessChecker(fs, nil).FindMissing(
		context.Background(), domain.NewPartitionSet(nil), domain.NewPartitionSet(nil))
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Empty(t, issues)
}
