package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ordering compares two partition paths and returns a negative number, zero, or a
// positive number. Paths that compare equal are the same partition as far as a
// PartitionSet is concerned.
type Ordering func(a, b string) int

type OrderingMode string

const (
	OrderByParentName OrderingMode = "parent-name"
	OrderByFullPath   OrderingMode = "full-path"
)

// ParentThenName orders by the parent directory's name, then by the path's own
// name. It is chronological only while partition names are zero-padded fixed-width
// numbers ("00".."23", "00".."59").
func ParentThenName(a, b string) int {
	if cmp := strings.Compare(ParentName(a), ParentName(b)); cmp != 0 {
		return cmp
	}
	return strings.Compare(filepath.Base(a), filepath.Base(b))
}

func FullPath(a, b string) int {
	return strings.Compare(filepath.Clean(a), filepath.Clean(b))
}

func OrderingFor(mode OrderingMode) (Ordering, error) {
	switch mode {
	case OrderByParentName, "":
		return ParentThenName, nil
	case OrderByFullPath:
		return FullPath, nil
	default:
		return nil, fmt.Errorf("unknown ordering %q", mode)
	}
}
