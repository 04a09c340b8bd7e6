package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"partaudit/internal/domain"
)

func indexOf(offsets ...int) *domain.CreationTimeIndex {
	index := domain.NewCreationTimeIndex()
	for i, offset := range offsets {
		key := domain.TimeKey{Year: 2024, Month: 1, Day: 15, Hour: 10, Minute: i}
		path := fmt.Sprintf("%s/10/%02d", testDay, i)
		index.Put(key, domain.NewEntry(path, true, baseTime.Add(time.Duration(offset)*time.Second)))
	}
	return index
}

func TestFindOutOfOrder(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    []string
	}{
		{name: "empty", offsets: nil, want: nil},
		{name: "single", offsets: []int{5}, want: nil},
		{name: "increasing", offsets: []int{1, 2, 3, 4}, want: nil},
		{name: "equal timestamps", offsets: []int{3, 3, 3}, want: nil},
		{
			name:    "one inversion flags the earlier key",
			offsets: []int{1, 2, 4, 3, 5},
			want:    []string{testDay + "/10/02"},
		},
		{
			name:    "decreasing",
			offsets: []int{3, 2, 1},
			want:    []string{testDay + "/10/00", testDay + "/10/01"},
		},
		{
			// 00 is newer than 02 but only adjacent pairs are compared.
			name:    "non adjacent inversion",
			offsets: []int{5, 6, 4},
			want:    []string{testDay + "/10/01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewOrderValidator(nil).FindOutOfOrder(indexOf(tt.offsets...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindOutOfOrderAdjacencyProperty(t *testing.T) {
	offsets := []int{9, 1, 7, 7, 3, 8, 2, 2, 6, 0}
	got := NewOrderValidator(nil).FindOutOfOrder(indexOf(offsets...))

	var want []string
	for i := 0; i+1 < len(offsets); i++ {
		if offsets[i] > offsets[i+1] {
			want = append(want, fmt.Sprintf("%s/10/%02d", testDay, i))
		}
	}
	assert.Equal(t, want, got)
}

func TestFindOutOfOrderLogsBothPaths(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)

	NewOrderValidator(logger).FindOutOfOrder(indexOf(2, 1))

	entries := logs.FilterMessage("directory is created in out of order").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, testDay+"/10/00", fields["flagged"])
		assert.Equal(t, testDay+"/10/01", fields["path"])
	}
}
