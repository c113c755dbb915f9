// Package normalize converts raw event fields into their canonical stored
// form: URL-safe slugs, ISO calendar dates and zero-padded 24-hour times.
//
// The functions are pure so they can be exercised without a store; the
// service layer calls them right before an event is written.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/araddon/dateparse"
)

// ISODateLayout is the canonical stored date format.
const ISODateLayout = "2006-01-02"

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)

	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	time24 = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)
	time12 = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2]):([0-5][0-9])\s?(AM|PM)$`)
)

// foldSpaces rewrites every Unicode space, including NBSP and the byte
// order mark, as an ASCII space so the patterns above only match ' '.
func foldSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			return ' '
		}
		return r
	}, s)
}

// Slug derives a URL-safe identifier from title. The result contains only
// [a-z0-9-], never starts or ends with a hyphen, and is a fixed point:
// Slug(Slug(t)) == Slug(t).
func Slug(title string) string {
	s := strings.TrimSpace(strings.ToLower(foldSpaces(title)))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Date normalizes raw to YYYY-MM-DD using the process's local zone for
// inputs that carry a time of day.
func Date(raw string) (string, error) {
	return DateIn(raw, time.Local)
}

// DateIn normalizes raw to YYYY-MM-DD. Inputs already shaped like an ISO
// date must name a real calendar day; anything else goes through a
// permissive date parser and is re-rendered from its year, month and day
// in loc.
func DateIn(raw string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(raw)

	if isoDate.MatchString(trimmed) {
		y, _ := strconv.Atoi(trimmed[0:4])
		m, _ := strconv.Atoi(trimmed[5:7])
		d, _ := strconv.Atoi(trimmed[8:10])
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		if t.Year() != y || int(t.Month()) != m || t.Day() != d {
			return "", fmt.Errorf("%w: %q is not a calendar date", model.ErrInvalidDate, raw)
		}
		return trimmed, nil
	}

	if trimmed != "" {
		if t, err := dateparse.ParseIn(trimmed, loc); err == nil {
			return t.In(loc).Format(ISODateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q, use YYYY-MM-DD or a recognizable date", model.ErrInvalidDate, raw)
}

// Time normalizes raw to a zero-padded 24-hour HH:MM string. It accepts
// 24-hour "H:MM"/"HH:MM" and 12-hour "H:MM AM"/"HH:MMpm" forms.
func Time(raw string) (string, error) {
	trimmed := strings.TrimSpace(foldSpaces(raw))

	if m := time24.FindStringSubmatch(trimmed); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hours, m[2]), nil
	}

	if m := time12.FindStringSubmatch(trimmed); m != nil {
		hours, _ := strconv.Atoi(m[1])
		switch period := strings.ToUpper(m[3]); {
		case period == "PM" && hours != 12:
			hours += 12
		case period == "AM" && hours == 12:
			hours = 0
		}
		return fmt.Sprintf("%02d:%s", hours, m[2]), nil
	}

	return "", fmt.Errorf("%w: %q, use HH:MM (24-hour) or HH:MM AM/PM (12-hour)", model.ErrInvalidTime, raw)
}
