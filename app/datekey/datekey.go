// Package datekey handles yyyy-mm-dd calendar keys in local time.
package datekey

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

const layout = "2006-01-02"

var (
	ErrFormat   = errors.New("dateKey must be yyyy-mm-dd")
	ErrCalendar = errors.New("dateKey must be a valid calendar date")

	keyPattern    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	prefixPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
)

// Format renders t as a key on the local calendar.
func Format(t time.Time) string {
	return t.In(time.Local).Format(layout)
}

// Parts splits a valid key into its year, month and day segments.
func Parts(key string) (year, month, day string, err error) {
	match := keyPattern.FindStringSubmatch(key)
	if match == nil {
		return "", "", "", ErrFormat
	}

	y, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	d, _ := strconv.Atoi(match[3])

	// time.Date normalizes overflow (Feb 30 -> Mar 2), so compare back.
	probe := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if probe.Year() != y || int(probe.Month()) != m || probe.Day() != d {
		return "", "", "", ErrCalendar
	}

	return match[1], match[2], match[3], nil
}

// Validate reports why key is not a usable date key, or nil.
func Validate(key string) error {
	_, _, _, err := Parts(key)
	return err
}

func IsValid(key string) bool {
	return Validate(key) == nil
}

// Previous returns the key of the calendar day before key.
func Previous(key string) (string, error) {
	t, err := time.ParseInLocation(layout, key, time.Local)
	if err != nil {
		return "", ErrFormat
	}
	return Format(t.AddDate(0, 0, -1)), nil
}

// Resolve derives the key of a feed timestamp. A leading yyyy-mm-dd is used
// as-is when it is a real date; anything else is parsed and converted to the
// local calendar. ok is false when no key can be derived.
func Resolve(publishedAt string) (key string, ok bool) {
	if publishedAt == "" {
		return "", false
	}

	if match := prefixPattern.FindStringSubmatch(publishedAt); match != nil {
		if !IsValid(match[1]) {
			return "", false
		}
		return match[1], true
	}

	parsed, err := ParseTimestamp(publishedAt)
	if err != nil {
		return "", false
	}
	return Format(parsed), true
}

// ParseTimestamp parses a free-form feed timestamp in local time.
func ParseTimestamp(value string) (t time.Time, err error) {
	// dateparse can panic on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("unparsable timestamp")
		}
	}()
	return dateparse.ParseLocal(value)
}
