// Package core holds the financial data model shared by the analysis
// pipeline and its data backends.
//
// This file contains money helpers: amount sanitization and currency
// formatting for generated advice text.
package core

import (
	"math"
	"strconv"
)

// SafeAmount coerces NaN and infinities to 0 so that record amounts can
// never poison an aggregate. Finite values pass through unchanged.
func SafeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatINR renders an amount as rupees with zero fractional digits and
// Indian digit grouping: the last three digits form one group, every two
// digits above that form the next (12,34,567).
//
// Examples:
//
//	FormatINR(90000)  -> "₹90,000"
//	FormatINR(114000) -> "₹1,14,000"
//	FormatINR(-500)   -> "-₹500"
func FormatINR(v float64) string {
	v = SafeAmount(v)
	n := int64(math.Round(math.Abs(v)))
	s := groupIndian(strconv.FormatInt(n, 10))
	if v < 0 && n != 0 {
		return "-₹" + s
	}
	return "₹" + s
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	out := ""
	for _, g := range groups {
		out += g + ","
	}
	return out + tail
}

// FormatPct rounds a percentage to the nearest whole number for display,
// half away from zero.
func FormatPct(v float64) string {
	return strconv.FormatInt(int64(math.Round(SafeAmount(v))), 10)
}
