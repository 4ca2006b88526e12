package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Dialect-specific unique violation messages. gorm's TranslateError covers
// the common cases but not every driver path, so we also match on text.
var duplicateKeyMarkers = []string{
	// postgres 23505, mysql 1062, sqlite 2067
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
