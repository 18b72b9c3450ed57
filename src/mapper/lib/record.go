package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	FIELD_SEPARATOR = ","
	DATE_SEPARATOR  = "/"

	MIN_FIELDS      = 6
	QUANTITY_FIELD  = 2
	PRICE_FIELD     = 3
	DATETIME_FIELD  = 4
	DATE_COMPONENTS = 3

	MONTH_COMPONENT = 0
	DAY_COMPONENT   = 1
	YEAR_COMPONENT  = 2
)

// DateParts holds the three "/"-separated components of a record date.
// Day is kept for completeness but takes no part in the period key.
type DateParts struct {
	MonthCode string
	Day       string
	Year      string
}

// splitFields splits s on sep and drops trailing empty fields, so
// "a,b,," has two fields.
func splitFields(s, sep string) []string {
	fields := strings.Split(s, sep)
	last := len(fields)
	for last > 0 && fields[last-1] == "" {
		last--
	}
	return fields[:last]
}

// datePortion returns the part of a date-time string before the first whitespace.
func datePortion(dateTime string) string {
	if i := strings.IndexFunc(dateTime, unicode.IsSpace); i >= 0 {
		return dateTime[:i]
	}
	return dateTime
}

// DayFirst reads the same components as a "<D>/<M>/<YY>" date.
func (p DateParts) DayFirst() DateParts {
	return DateParts{
		MonthCode: p.Day,
		Day:       p.MonthCode,
		Year:      p.Year,
	}
}

// parseDateParts extracts the month code, day and two-digit year from a
// "<M>/<D>/<YY> <time>" field.
func parseDateParts(dateTime string) (DateParts, bool) {
	components := splitFields(datePortion(dateTime), DATE_SEPARATOR)
	if len(components) != DATE_COMPONENTS {
		return DateParts{}, false
	}

	return DateParts{
		MonthCode: components[MONTH_COMPONENT],
		Day:       components[DAY_COMPONENT],
		Year:      components[YEAR_COMPONENT],
	}, true
}

// toInt parses a 32-bit quantity. Surrounding whitespace is not accepted.
func toInt(s string) (int, error) {
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(i), nil
}

// toFloat parses a finite price. "NaN" and "Inf" are rejected.
func toFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(f) {
		return 0, fmt.Errorf("price %q is not a finite number", s)
	}
	return f, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
