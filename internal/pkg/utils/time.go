package utils

import (
	"medibook-service/internal/pkg/constvars"
	"time"
)

// ParseDate reads a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constvars.DateLayout, value, loc)
}
