package services

import (
	"go.uber.org/zap"

	"partaudit/internal/domain"
)

type OrderValidator struct {
	logger *zap.Logger
}

func NewOrderValidator(logger *zap.Logger) *OrderValidator {
	return &OrderValidator{logger: nopIfNil(logger)}
}

// FindOutOfOrder walks the index in key order and flags the earlier entry of
// every adjacent pair whose modification times are inverted. Non-adjacent
// inversions are not detected.
func (validator *OrderValidator) FindOutOfOrder(index *domain.CreationTimeIndex) []string {
	var flagged []string
	var previous domain.Entry
	hasPrevious := false
	for _, key := range index.Keys() {
		current, _ := index.Get(key)
		if hasPrevious && previous.ModTime.After(current.ModTime) {
			validator.logger.Info("directory is created in out of order",
				zap.String("path", current.Path),
				zap.String("flagged", previous.Path),
				zap.Time("flagged_mtime", previous.ModTime),
				zap.Time("mtime", current.ModTime),
			)
			flagged = append(flagged, previous.Path)
		}
		previous = current
		hasPrevious = true
	}
	return flagged
}
