package bot

import (
	"strconv"
	"strings"
	"time"
)

// ParseAmount reads a conversational dollar amount: thousands
// separators, currency symbols and spaces are stripped, and K/M
// suffixes multiply. Unparsable input defaults to 0.
func ParseAmount(input string) float64 {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "K")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}

var dueDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2",
	"January 2",
}

// parseDueDate recognizes the keyword shortcuts first, then falls
// back to common date spellings. Skipped or unparsable input means
// no due date.
func parseDueDate(input string, now time.Time) *time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "TODAY":
		return &today
	case "TOMORROW":
		d := today.AddDate(0, 0, 1)
		return &d
	case "WEEK":
		d := today.AddDate(0, 0, 7)
		return &d
	case "", "NA", "N/A", "NONE", "SKIP":
		return nil
	}

	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, strings.TrimSpace(input))
		if err != nil {
			continue
		}
		// Layouts without a year parse into year 0.
		if parsed.Year() == 0 {
			parsed = time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		}
		return &parsed
	}
	return nil
}
