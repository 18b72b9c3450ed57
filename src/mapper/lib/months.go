package mapper

// monthNames is indexed by month number; slot 0 is never a valid month.
var monthNames = [...]string{
	"",
	"Enero",
	"Febrero",
	"Marzo",
	"Abril",
	"Mayo",
	"Junio",
	"Julio",
	"Agosto",
	"Septiembre",
	"Octubre",
	"Noviembre",
	"Diciembre",
}

const MONTH_CODE_LEN = 2

// LookupMonth resolves a two-digit month code ("01".."12") to its month name.
// Codes of any other shape, like "4" or "004", are unknown.
func LookupMonth(code string) (string, bool) {
	if len(code) != MONTH_CODE_LEN {
		return "", false
	}

	tens, units := code[0], code[1]
	if tens < '0' || tens > '1' || units < '0' || units > '9' {
		return "", false
	}

	month := int(tens-'0')*10 + int(units-'0')
	if month < 1 || month >= len(monthNames) {
		return "", false
	}
	return monthNames[month], true
}
