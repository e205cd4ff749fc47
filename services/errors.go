package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ServiceError is a typed error with an HTTP status code. Controllers map it
// straight onto the response; on the webhook path the class of the code also
// decides redelivery (4xx is final, 5xx asks the provider to retry).
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// isDuplicateErr reports whether err is a uniqueness-constraint violation.
// The driver translates to gorm.ErrDuplicatedKey; the string checks cover
// paths where the raw pg error surfaces instead.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
