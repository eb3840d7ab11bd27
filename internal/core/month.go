package core

import "strconv"

var monthNames = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name for a YYYY-MM string, or the
// input unchanged when it cannot be parsed.
func MonthName(ym string) string {
	if len(ym) != 7 || ym[4] != '-' {
		return ym
	}
	m, err := strconv.Atoi(ym[5:])
	if err != nil || m < 1 || m > 12 {
		return ym
	}
	return monthNames[m]
}
