package youtube

import "strings"

// maxComponentDigits bounds each numeric component so the sum cannot overflow.
const maxComponentDigits = 9

// ParseDuration converts an ISO-8601 video duration such as "PT1M30S" into
// whole seconds. Any of the H, M and S components may be omitted. A leading
// day component ("P1DT2H") is accepted because the API reports it for very
// long streams. Fractional seconds are truncated.
//
// Empty or malformed input yields 0; callers treat that as "not a short".
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != 'P' {
		return 0
	}

	rest := s[1:]
	inTime := false
	lastRank := -1
	total := 0

	for len(rest) > 0 {
		if rest[0] == 'T' {
			if inTime {
				return 0
			}
			inTime = true
			rest = rest[1:]
			continue
		}

		i := 0
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
		if i == 0 || i > maxComponentDigits {
			return 0
		}
		n := atoi(rest[:i])

		// Skip a fractional part; only seconds may carry one.
		j := i
		if j < len(rest) && (rest[j] == '.' || rest[j] == ',') {
			j++
			for j < len(rest) && isDigit(rest[j]) {
				j++
			}
		}
		if j >= len(rest) {
			return 0
		}
		fractional := j > i

		rank, scale := unitOf(rest[j], inTime)
		if rank <= lastRank || (fractional && rank != rankSeconds) {
			return 0
		}
		lastRank = rank
		total += n * scale
		rest = rest[j+1:]
	}

	return total
}

const (
	rankDays = iota
	rankHours
	rankMinutes
	rankSeconds
	rankInvalid = -1
)

// unitOf returns the ordering rank and multiplier of a designator. Designators
// that are unsupported or appear on the wrong side of 'T' rank as invalid.
func unitOf(c byte, inTime bool) (rank, scale int) {
	switch {
	case !inTime && c == 'D':
		return rankDays, 86400
	case inTime && c == 'H':
		return rankHours, 3600
	case inTime && c == 'M':
		return rankMinutes, 60
	case inTime && c == 'S':
		return rankSeconds, 1
	}
	return rankInvalid, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func atoi(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}
