package verification

import (
	"fmt"
	"strconv"
	"time"

	"github.com/verification-api/internal/domain"
)

// isoLayouts are the ISO-8601 shapes accepted for timeToVerify, tried in
// order. Date-times without an offset are interpreted in server local time.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeExpiry converts a timeToVerify value into an absolute instant.
// A string of decimal digits is Unix epoch seconds; anything else must be an
// ISO-8601 date-time. Unparseable values are a bad request.
func normalizeExpiry(s string) (time.Time, error) {
	if isDigits(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("timeToVerify %q out of range: %w", s, domain.ErrBadRequest)
		}
		return time.Unix(secs, 0), nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timeToVerify %q is neither Unix seconds nor ISO-8601: %w", s, domain.ErrBadRequest)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
