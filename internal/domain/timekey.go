package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TimeKeySegments is the number of path segments between a stream root and a
// minute partition: year, month, day, hour, minute.
const TimeKeySegments = 5

// TimeKey is the calendar position of a leaf partition, read from its path.
type TimeKey struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

func (key TimeKey) fields() [TimeKeySegments]int {
	return [TimeKeySegments]int{key.Year, key.Month, key.Day, key.Hour, key.Minute}
}

func (key TimeKey) Compare(other TimeKey) int {
	a, b := key.fields(), other.fields()
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (key TimeKey) Before(other TimeKey) bool {
	return key.Compare(other) < 0
}

// Time converts the key to a UTC timestamp. Out-of-range fields are normalized
// the way time.Date does it.
func (key TimeKey) Time() time.Time {
	return time.Date(key.Year, time.Month(key.Month), key.Day, key.Hour, key.Minute, 0, 0, time.UTC)
}

func (key TimeKey) String() string {
	return fmt.Sprintf("%04d/%02d/%02d/%02d/%02d", key.Year, key.Month, key.Day, key.Hour, key.Minute)
}

// DeriveTimeKey parses the segments of leafPath beneath streamRoot as year,
// month, day, hour and minute.
func DeriveTimeKey(streamRoot, leafPath string) (TimeKey, error) {
	root := filepath.Clean(streamRoot)
	leaf := filepath.Clean(leafPath)
	rel, err := filepath.Rel(root, leaf)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return TimeKey{}, PathFormatError(leafPath, "not beneath stream root "+streamRoot)
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) != TimeKeySegments {
		return TimeKey{}, PathFormatError(leafPath,
			fmt.Sprintf("expected %d segments beneath stream root, found %d", TimeKeySegments, len(segments)))
	}
	var values [TimeKeySegments]int
	for i, segment := range segments {
		value, ok := parseDigits(segment)
		if !ok {
			return TimeKey{}, PathFormatError(leafPath, fmt.Sprintf("segment %q is not numeric", segment))
		}
		values[i] = value
	}
	return TimeKey{
		Year:   values[0],
		Month:  values[1],
		Day:    values[2],
		Hour:   values[3],
		Minute: values[4],
	}, nil
}

func parseDigits(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	value, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return value, true
}
