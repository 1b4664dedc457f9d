package utils

import (
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// LoadLocation resolves the configured zone. Hosts without tzdata fall back
// to a fixed UTC+8 zone, which matches Asia/Shanghai all year.
func LoadLocation(name string, logger *zap.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	logger.Warn("time zone unavailable, using fixed UTC+8", zap.String("zone", name), zap.Error(err))
	return time.FixedZone("CST", 8*3600)
}

// ParseDate reads a YYYY-MM-DD string as midnight UTC, the form used for
// DATE columns.
func ParseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// ParseTimestamp reads an RFC 3339 timestamp.
func ParseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

// FormatTimestampIn renders t as RFC 3339 in loc.
func FormatTimestampIn(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}
