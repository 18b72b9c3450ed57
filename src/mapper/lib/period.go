package mapper

import "fmt"

const (
	CENTURY_PREFIX = "20"

	// Pads keep the downstream text report aligned: short month names get
	// extra spaces before the tabs.
	SHORT_MONTH_PAD = "     \t\t"
	LONG_MONTH_PAD  = "\t\t"
)

var shortMonthCodes = map[string]bool{
	"01": true,
	"02": true,
	"03": true,
	"04": true,
	"05": true,
	"06": true,
	"07": true,
	"08": true,
}

// PeriodKey identifies a reporting period: a month and a two-digit year
// assumed to be in the 2000s.
type PeriodKey struct {
	MonthName string
	MonthCode string
	Year      string
}

// NewPeriodKey builds the key for parts, failing when the month code is unknown.
func NewPeriodKey(parts DateParts) (PeriodKey, bool) {
	name, ok := LookupMonth(parts.MonthCode)
	if !ok {
		return PeriodKey{}, false
	}
	return PeriodKey{
		MonthName: name,
		MonthCode: parts.MonthCode,
		Year:      parts.Year,
	}, true
}

// String returns the key identity, e.g. "Abril(04)/2021".
func (k PeriodKey) String() string {
	return fmt.Sprintf("%s(%s)/%s%s", k.MonthName, k.MonthCode, CENTURY_PREFIX, k.Year)
}

// Padded returns the key followed by its alignment pad.
func (k PeriodKey) Padded() string {
	return k.String() + PadFor(k.MonthCode)
}

// PadFor returns the alignment pad appended after the key of monthCode.
func PadFor(monthCode string) string {
	if shortMonthCodes[monthCode] {
		return SHORT_MONTH_PAD
	}
	return LONG_MONTH_PAD
}
