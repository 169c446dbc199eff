package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/lysyi3m/news-cli/app/datekey"
	"github.com/lysyi3m/news-cli/app/news"
)

var (
	digitsPattern    = regexp.MustCompile(`^\d+$`)
	isoMinutePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2})`)
)

// ParsePositiveInteger parses a decimal option value greater than zero.
func ParsePositiveInteger(value, optionName string) (int, error) {
	if !digitsPattern.MatchString(value) {
		return 0, fmt.Errorf("%s must be a positive integer", optionName)
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", optionName)
	}
	return parsed, nil
}

// ParseDateOption validates --date. An empty value means today.
func ParseDateOption(value string, now time.Time) (dateKey string, isToday bool, err error) {
	today := datekey.Format(now)
	if value == "" {
		return today, true, nil
	}

	if err := datekey.Validate(value); err != nil {
		if errors.Is(err, datekey.ErrCalendar) {
			return "", false, errors.New("--date must be a valid calendar date")
		}
		return "", false, errors.New("--date format must be yyyy-mm-dd")
	}

	return value, value == today, nil
}

// DefaultListDateKeys returns today and yesterday, the dates listed when
// --date is not given.
func DefaultListDateKeys(now time.Time) []string {
	return news.DefaultDateKeys(now)
}

// ResolveCategoryFilters combines --category with the shortcut flags.
func ResolveCategoryFilters(category string, japan, international, others bool) []string {
	values := news.SplitCategories(category)

	if japan {
		values = append(values, "Japan")
	}
	if international {
		values = append(values, "International")
	}
	if others {
		values = append(values, "Others")
	}

	return news.NormalizeCategoryFilters(values)
}

// FormatPublishedAtLabel renders a feed timestamp as "yyyy-mm-dd HH:MM".
// ISO-like values keep their own wall clock; others are shown in local time.
func FormatPublishedAtLabel(publishedAt string) string {
	if publishedAt == "" {
		return "Unknown"
	}

	if match := isoMinutePattern.FindStringSubmatch(publishedAt); match != nil {
		return match[1] + " " + match[2]
	}

	parsed, err := datekey.ParseTimestamp(publishedAt)
	if err != nil {
		return "Unknown"
	}
	return parsed.In(time.Local).Format("2006-01-02 15:04")
}
