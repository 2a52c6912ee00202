// Package dateparse normalizes the two date/time shapes the site renders:
// calendar dates in a per-user, user-configurable pattern (list page) and
// broadcast day-of-week/time strings (detail page).
package dateparse

import (
	"fmt"
	"strings"

	"github.com/goksgie/basic-myanimelist-crawler/internal/domain"
)

type ErrorKind string

const (
	// FormatMismatch: the text does not line up with the pattern's tokens
	// (wrong separators, wrong digit widths, trailing garbage).
	FormatMismatch ErrorKind = "format_mismatch"
	// OutOfRange: tokens lined up but the day/month values are not a real
	// calendar date.
	OutOfRange ErrorKind = "out_of_range"
	// UnrecognizedToken: broadcast text carried nothing usable at all.
	UnrecognizedToken ErrorKind = "unrecognized_token"
)

type ParseError struct {
	Kind ErrorKind
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("parse %q: %s", e.Text, e.Kind)
	}
	return fmt.Sprintf("parse %q: %s: %s", e.Text, e.Kind, e.Msg)
}

type fieldKind int

const (
	fieldLiteral fieldKind = iota
	fieldDay
	fieldMonth
	fieldYear
)

type token struct {
	kind  fieldKind
	width int
	lit   string
}

// Format is a compiled date pattern such as "DD-MM-YYYY" or "MM/DD/YYYY".
// Runs of D, M and Y are value tokens (D/DD, M/MM, YY/YYYY); everything
// else is matched literally. The pattern must name each of day, month and
// year exactly once.
type Format struct {
	pattern string
	tokens  []token
}

func ParseFormat(pattern string) (Format, error) {
	f := Format{pattern: pattern}
	seen := map[fieldKind]int{}

	rest := pattern
	for rest != "" {
		c := rest[0]
		switch c {
		case 'D', 'd', 'M', 'm', 'Y', 'y':
			run := 1
			for run < len(rest) && rest[run] == c {
				run++
			}
			t := token{width: run}
			switch c {
			case 'D', 'd':
				t.kind = fieldDay
				if run > 2 {
					return Format{}, fmt.Errorf("date pattern %q: day token wider than DD", pattern)
				}
			case 'M', 'm':
				t.kind = fieldMonth
				if run > 2 {
					return Format{}, fmt.Errorf("date pattern %q: month token wider than MM", pattern)
				}
			case 'Y', 'y':
				t.kind = fieldYear
				if run != 2 && run != 4 {
					return Format{}, fmt.Errorf("date pattern %q: year token must be YY or YYYY", pattern)
				}
			}
			seen[t.kind]++
			f.tokens = append(f.tokens, t)
			rest = rest[run:]
		default:
			run := 0
			for run < len(rest) && !isPatternLetter(rest[run]) {
				run++
			}
			f.tokens = append(f.tokens, token{kind: fieldLiteral, lit: rest[:run]})
			rest = rest[run:]
		}
	}

	for _, k := range []fieldKind{fieldDay, fieldMonth, fieldYear} {
		if seen[k] != 1 {
			return Format{}, fmt.Errorf("date pattern %q: must contain day, month and year exactly once", pattern)
		}
	}
	return f, nil
}

func isPatternLetter(c byte) bool {
	switch c {
	case 'D', 'd', 'M', 'm', 'Y', 'y':
		return true
	}
	return false
}

func (f Format) Pattern() string { return f.pattern }

// Parse maps text onto the pattern positionally. Widths must agree: a DD
// token consumes exactly two digits, a single D consumes one or two.
func (f Format) Parse(text string) (domain.CalendarDate, error) {
	var d domain.CalendarDate

	rest := strings.TrimSpace(text)
	for _, t := range f.tokens {
		if t.kind == fieldLiteral {
			if !strings.HasPrefix(rest, t.lit) {
				return domain.CalendarDate{}, &ParseError{Kind: FormatMismatch, Text: text,
					Msg: fmt.Sprintf("expected %q", t.lit)}
			}
			rest = rest[len(t.lit):]
			continue
		}

		digits := leadingDigits(rest)
		want := t.width
		if want == 1 && digits > 0 {
			// single-letter tokens accept one or two digits
			if digits > 2 {
				digits = 2
			}
			want = digits
		}
		if digits < want {
			return domain.CalendarDate{}, &ParseError{Kind: FormatMismatch, Text: text,
				Msg: fmt.Sprintf("token width %d does not match", t.width)}
		}

		v := 0
		for i := 0; i < want; i++ {
			v = v*10 + int(rest[i]-'0')
		}
		rest = rest[want:]

		switch t.kind {
		case fieldDay:
			d.Day = v
		case fieldMonth:
			d.Month = v
		case fieldYear:
			if t.width == 2 {
				// two-digit years pivot at 70, as the original site data does
				if v < 70 {
					v += 2000
				} else {
					v += 1900
				}
			}
			d.Year = v
		}
	}

	if strings.TrimSpace(rest) != "" {
		return domain.CalendarDate{}, &ParseError{Kind: FormatMismatch, Text: text,
			Msg: fmt.Sprintf("trailing %q", rest)}
	}
	if !d.Valid() {
		return domain.CalendarDate{}, &ParseError{Kind: OutOfRange, Text: text,
			Msg: d.String()}
	}
	return d, nil
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// ParseAny tries each format in order and returns the first success. When
// every format fails the primary format's error is reported, since that is
// the one the user actually configured.
func ParseAny(text string, formats ...Format) (domain.CalendarDate, error) {
	var first error
	for _, f := range formats {
		d, err := f.Parse(text)
		if err == nil {
			return d, nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = &ParseError{Kind: FormatMismatch, Text: text, Msg: "no formats supplied"}
	}
	return domain.CalendarDate{}, first
}
