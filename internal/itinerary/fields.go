package itinerary

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var (
	datePattern     = regexp.MustCompile(`(\d{4})\s*[-/年.]\s*(\d{1,2})\s*[-/月.]\s*(\d{1,2})`)
	dateOnlyPattern = regexp.MustCompile(`^\d{4}\s*[-/年.]\s*\d{1,2}\s*[-/月.]\s*\d{1,2}\s*日?$`)
	timePattern     = regexp.MustCompile(`(\d{1,2})\s*(?:[:：]\s*(\d{1,2})|[点时]\s*(半|\d{1,2})?)`)
	timeRange       = regexp.MustCompile(`\d{1,2}\s*(?:[:：]\s*\d{1,2}|[点时]\s*(?:半|\d{1,2})?)\s*(?:-|~|～|—|至|到)\s*(\d{1,2}\s*(?:[:：]\s*\d{1,2}|[点时]\s*(?:半|\d{1,2})?))`)
	currencyPattern = regexp.MustCompile(`[A-Za-z]{3,}`)
	costKeepPattern = regexp.MustCompile(`[^0-9.,\-]`)
	costNumber      = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	countPattern    = regexp.MustCompile(`\d+`)
)

// fold narrows full-width characters so that "２０２５－０５－０１" and
// "９：３０" parse like their ASCII forms.
func fold(s string) string {
	return width.Narrow.String(s)
}

// cleanText trims s, returns nil when empty and truncates it to max runes.
func cleanText(s string, ok bool, max int) *string {
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) > max {
		s = strings.TrimSpace(string([]rune(s)[:max]))
	}
	return &s
}

// ParseDate extracts a YYYY-MM-DD date from loosely formatted text such as
// "2025/5/1" or "2025年5月1日". Impossible dates yield nil.
func ParseDate(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	m := datePattern.FindStringSubmatch(fold(s))
	if m == nil {
		return nil
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return nil
	}
	return strPtr(t.Format("2006-01-02"))
}

// ParseTimeOfDay extracts an HH:MM time from text such as "9:30", "14：00",
// "9点半" or an RFC 3339 timestamp. Hours are clamped to 0-23 and minutes
// to 0-59. A bare date is not a time.
func ParseTimeOfDay(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(fold(s))
	if dateOnlyPattern.MatchString(s) {
		return nil
	}
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	switch {
	case m[2] != "":
		minute, _ = strconv.Atoi(m[2])
	case m[3] == "半":
		minute = 30
	case m[3] != "":
		minute, _ = strconv.Atoi(m[3])
	}
	return strPtr(fmt.Sprintf("%02d:%02d", clamp(hour, 0, 23), clamp(minute, 0, 59)))
}

// rangeEnd returns the second time of a range such as "09:00-11:30".
func rangeEnd(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	m := timeRange.FindStringSubmatch(fold(s))
	if m == nil {
		return nil
	}
	return ParseTimeOfDay(m[1])
}

// minuteOfDay converts an HH:MM string produced by ParseTimeOfDay.
func minuteOfDay(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// ParseCost reads a non-negative amount rounded to two decimals. Strings are
// stripped of everything but digits, '.', ',' and '-', commas are treated as
// thousands separators and the first number wins, so "约200-300元" is 200.
// A negative amount yields nil.
func ParseCost(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		stripped := strings.ReplaceAll(costKeepPattern.ReplaceAllString(fold(n), ""), ",", "")
		num := costNumber.FindString(stripped)
		if num == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	f = math.Round(f*100) / 100
	return &f
}

// ParseCurrency returns the first run of three or more letters, uppercased
// and cut to three, or DefaultCurrency.
func ParseCurrency(v any) string {
	s, ok := v.(string)
	if !ok {
		return DefaultCurrency
	}
	m := currencyPattern.FindString(fold(s))
	if m == "" {
		return DefaultCurrency
	}
	code := strings.ToUpper(m[:3])
	if code == "RMB" {
		return DefaultCurrency
	}
	return code
}

// parseCount reads a positive integer from a number or the first digit run
// of a string.
func parseCount(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		m := countPattern.FindString(fold(n))
		if m == "" {
			return 0, false
		}
		i, err := strconv.Atoi(m)
		return i, err == nil
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
