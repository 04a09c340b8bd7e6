package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partaudit/internal/domain"
)

func TestDiscoverLeaves(t *testing.T) {
	fs := newTreeBuilder(t).
		Dir(testDay+"/10/00", baseTime).
		Dir(testDay+"/10/01", baseTime).
		File(testDay+"/11/00/part-0000.json", baseTime).
		File(testDay+"/11/00/part-0001.json", baseTime).
		File(testDay+"/11/01/part-0000.json", baseTime).
		Build()

	walker := NewTreeWalker(fs, 0, nil)
	leaves, err := walker.DiscoverLeaves(context.Background(), testStream)
	require.NoError(t, err)

	assert.Equal(t, []string{
		testDay + "/10/00",
		testDay + "/10/01",
		testDay + "/11/00",
		testDay + "/11/01",
	}, leaves.Paths())
}

func TestDiscoverLeavesEmptyRoot(t *testing.T) {
	fs := newTreeBuilder(t).Dir(testStream, baseTime).Build()

	leaves, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(context.Background(), testStream)
	require.NoError(t, err)
	assert.Equal(t, []string{testStream}, leaves.Paths())
}

func TestDiscoverLeavesDirectoryAndFileSiblings(t *testing.T) {
	fs := newTreeBuilder(t).
		Dir(testDay+"/10/00", baseTime).
		File(testDay+"/10/_SUCCESS", baseTime).
		Build()

	leaves, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(context.Background(), testStream)
	require.NoError(t, err)
	assert.True(t, leaves.Contains(testDay+"/10"))
	assert.True(t, leaves.Contains(testDay+"/10/00"))
	assert.Equal(t, 2, leaves.Len())
}

func TestDiscoverLeavesDepthBound(t *testing.T) {
	fs := newTreeBuilder(t).
		Dir(testDay+"/10/00/nested", baseTime).
		Build()

	_, err := NewTreeWalker(fs, DefaultMaxDepth, nil).DiscoverLeaves(context.Background(), testStream)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPathFormat))
	assert.Contains(t, err.Error(), testDay+"/10/00/nested")

	leaves, err := NewTreeWalker(fs, DefaultMaxDepth+1, nil).DiscoverLeaves(context.Background(), testStream)
	require.NoError(t, err)
	assert.Equal(t, []string{testDay + "/10/00/nested"}, leaves.Paths())
}

func TestDiscoverLeavesListFailure(t *testing.T) {
	listErr := errors.New("permission denied")
	fs := NewFaultyFileSystem(newTreeBuilder(t).
		Dir(testDay+"/10/00", baseTime).
		Dir(testDay+"/11/00", baseTime).
		Build()).
		FailList(testDay+"/11", listErr)

	_, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(context.Background(), testStream)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFilesystem))
	assert.True(t, errors.Is(err, listErr))
}

func TestDiscoverLeavesMissingRoot(t *testing.T) {
	fs := newTreeBuilder(t).Build()

	_, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(context.Background(), "/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFilesystem))
}

func TestDiscoverLeavesCancelled(t *testing.T) {
	fs := newTreeBuilder(t).Dir(testDay+"/10/00", baseTime).Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTreeWalker(fs, 0, nil).DiscoverLeaves(ctx, testStream)
	assert.ErrorIs(t, err, context.Canceled)
}
